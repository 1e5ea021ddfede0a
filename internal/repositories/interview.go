package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	UpdateFields(id uuid.UUID, updates map[string]interface{}) error
	UpdateStatus(id uuid.UUID, status models.InterviewStatus) error
	ListRecent(limit int) ([]models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found: %w", gorm.ErrRecordNotFound)
	}

	return nil
}

func (r *interviewRepository) UpdateStatus(id uuid.UUID, status models.InterviewStatus) error {
	return r.UpdateFields(id, map[string]interface{}{"status": status})
}

func (r *interviewRepository) ListRecent(limit int) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&interviews).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, nil
}
