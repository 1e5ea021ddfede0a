package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prepmate/interview-api/internal/models"
)

type DraftRepository interface {
	Upsert(interviewID, questionID uuid.UUID, draftAnswer string) error
	Find(interviewID, questionID uuid.UUID) (*models.Draft, error)
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Upsert(interviewID, questionID uuid.UUID, draftAnswer string) error {
	draft := models.Draft{
		InterviewID: interviewID,
		QuestionID:  questionID,
		DraftAnswer: draftAnswer,
		UpdatedAt:   time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "interview_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"draft_answer", "updated_at"}),
	}).Create(&draft).Error

	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (r *draftRepository) Find(interviewID, questionID uuid.UUID) (*models.Draft, error) {
	var draft models.Draft
	err := r.db.
		Where("interview_id = ? AND question_id = ?", interviewID, questionID).
		First(&draft).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("draft not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}

	return &draft, nil
}
