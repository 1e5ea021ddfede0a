package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	FindByID(interviewID, questionID uuid.UUID) (*models.Question, error)
	FindByInterview(interviewID uuid.UUID) ([]models.Question, error)
	FindAnswered(interviewID uuid.UUID) ([]models.Question, error)
	Close(questionID uuid.UUID, answer *AnswerData) error
}

// AnswerData carries everything that closes a question. The fields are written
// in a single update so a question is never left half-answered.
type AnswerData struct {
	AnswerText string
	TimeTaken  int
	Score      float64
	Feedback   string
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *questionRepository) FindByID(interviewID, questionID uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.
		Where("id = ? AND interview_id = ?", questionID, interviewID).
		First(&question).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("question not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	return &question, nil
}

func (r *questionRepository) FindByInterview(interviewID uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("question_number ASC").
		Find(&questions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}

	return questions, nil
}

func (r *questionRepository) FindAnswered(interviewID uuid.UUID) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Where("interview_id = ? AND answer_text IS NOT NULL", interviewID).
		Order("question_number ASC").
		Find(&questions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find answered questions: %w", err)
	}

	return questions, nil
}

func (r *questionRepository) Close(questionID uuid.UUID, answer *AnswerData) error {
	result := r.db.Model(&models.Question{}).
		Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"answer_text": answer.AnswerText,
			"time_taken":  answer.TimeTaken,
			"score":       answer.Score,
			"feedback":    answer.Feedback,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to close question: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("question not found: %w", gorm.ErrRecordNotFound)
	}

	return nil
}
