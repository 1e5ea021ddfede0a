package models

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Question struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InterviewID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"interview_id"`
	QuestionNumber int        `gorm:"not null" json:"question_number"`
	QuestionText   string     `gorm:"type:text;not null" json:"question_text"`
	Difficulty     Difficulty `gorm:"not null" json:"difficulty"`
	TimeAllocated  int        `gorm:"not null" json:"time_allocated"`
	AnswerText     *string    `gorm:"type:text" json:"answer_text,omitempty"`
	TimeTaken      *int       `json:"time_taken,omitempty"`
	Score          *float64   `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	Feedback       *string    `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Answered reports whether the question was closed with an answer and score.
func (q *Question) Answered() bool {
	return q.AnswerText != nil
}
