package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusSetup      InterviewStatus = "setup"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusTerminated InterviewStatus = "terminated"
)

type Interview struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CandidateName    string          `gorm:"type:text;not null" json:"candidate_name"`
	CandidateEmail   string          `gorm:"type:text;not null" json:"candidate_email"`
	ResumeText       *string         `gorm:"type:text" json:"resume_text,omitempty"`
	JDText           *string         `gorm:"type:text" json:"jd_text,omitempty"`
	ParsedSkills     []string        `gorm:"serializer:json" json:"parsed_skills,omitempty"`
	ParsedExperience *string         `gorm:"type:text" json:"parsed_experience,omitempty"`
	Status           InterviewStatus `gorm:"not null;default:'setup'" json:"status"`
	OverallScore     *float64        `gorm:"type:decimal(5,2)" json:"overall_score,omitempty"`
	ReadinessLevel   *string         `gorm:"type:text" json:"readiness_level,omitempty"`
	CreatedAt        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

func (Interview) TableName() string {
	return "interviews"
}

// HasResume reports whether résumé text was attached and is non-blank.
func (i *Interview) HasResume() bool {
	return i.ResumeText != nil && *i.ResumeText != ""
}

func (i *Interview) HasJobDescription() bool {
	return i.JDText != nil && *i.JDText != ""
}

// Finalized reports whether the interview reached a terminal state.
func (i *Interview) Finalized() bool {
	return i.Status == StatusCompleted || i.Status == StatusTerminated
}
