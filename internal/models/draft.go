package models

import (
	"time"

	"github.com/google/uuid"
)

// Draft holds an in-progress answer snapshot, upserted freely while the
// candidate types. It is superseded by the final answer on submission and is
// never read by scoring.
type Draft struct {
	InterviewID uuid.UUID `gorm:"type:uuid;primary_key" json:"interview_id"`
	QuestionID  uuid.UUID `gorm:"type:uuid;primary_key" json:"question_id"`
	DraftAnswer string    `gorm:"type:text" json:"draft_answer"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Draft) TableName() string {
	return "drafts"
}
