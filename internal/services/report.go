package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
	"prepmate/interview-api/internal/repositories"
)

// ReportService reduces the question history into a readiness report. It
// re-derives on every call; persistence back onto the interview is
// write-once, and a terminated interview keeps its terminated status.
type ReportService interface {
	Generate(ctx context.Context, interviewID uuid.UUID) (*models.ReportResponse, error)
}

type reportService struct {
	interviewRepo repositories.InterviewRepository
	questionRepo  repositories.QuestionRepository
	geminiService GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewReportService(
	interviewRepo repositories.InterviewRepository,
	questionRepo repositories.QuestionRepository,
	geminiService GeminiService,
	maxRetries int,
) ReportService {
	return &reportService{
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// reportInsights is the JSON shape expected from the insights prompt.
type reportInsights struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

func fallbackInsights() *reportInsights {
	return &reportInsights{
		Strengths:       []string{"Completed interview", "Provided answers", "Engaged with questions"},
		Weaknesses:      []string{"Need more technical depth", "Time management", "Answer clarity"},
		Recommendations: []string{"Practice more", "Study core concepts", "Work on communication"},
	}
}

// ReadinessLevel maps an overall score to its three-tier label. Lower bounds
// are inclusive at 75 and 60.
func ReadinessLevel(overallScore float64) string {
	switch {
	case overallScore >= 75:
		return "Ready for Interviews"
	case overallScore >= 60:
		return "Needs Some Improvement"
	default:
		return "Needs Significant Preparation"
	}
}

// Generate implements ReportService.
func (r *reportService) Generate(ctx context.Context, interviewID uuid.UUID) (*models.ReportResponse, error) {
	interview, err := r.interviewRepo.FindByID(interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}

	questions, err := r.questionRepo.FindByInterview(interviewID)
	if err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	var answered []models.Question
	for _, q := range questions {
		if q.Answered() {
			answered = append(answered, q)
		}
	}

	overallScore := 0.0
	if len(answered) > 0 {
		var sum float64
		for _, q := range answered {
			if q.Score != nil {
				sum += *q.Score
			}
		}
		overallScore = sum / float64(len(answered))
	}

	readinessLevel := ReadinessLevel(overallScore)

	// Per-category scores are fixed scalings of the overall score, not
	// independently measured.
	skillScores := map[string]float64{
		"Technical Knowledge": round2(overallScore * 0.95),
		"Communication":       round2(overallScore * 1.05),
		"Problem Solving":     round2(overallScore * 0.98),
		"Time Management":     round2(overallScore * 0.92),
	}

	insights := r.generateInsights(ctx, overallScore, answered)

	r.persistSummary(interview, overallScore, readinessLevel)

	return &models.ReportResponse{
		InterviewID:       interviewID.String(),
		OverallScore:      round2(overallScore),
		ReadinessLevel:    readinessLevel,
		TotalQuestions:    len(questions),
		QuestionsAnswered: len(answered),
		SkillScores:       skillScores,
		Strengths:         insights.Strengths,
		Weaknesses:        insights.Weaknesses,
		Recommendations:   insights.Recommendations,
	}, nil
}

func (r *reportService) generateInsights(ctx context.Context, overallScore float64, answered []models.Question) *reportInsights {
	prompt := r.promptBuilder.BuildReportInsightsPrompt(overallScore, FormatTranscript(answered))

	response, err := r.geminiService.GenerateTextWithRetry(ctx, prompt, 0.5, r.maxRetries)
	if err != nil {
		log.Printf("⚠️  Report insights generation failed, using defaults: %v\n", err)
		return fallbackInsights()
	}

	var insights reportInsights
	if !decodeGenerated(response, &insights) {
		log.Println("⚠️  Unparseable insights response, using defaults")
		return fallbackInsights()
	}

	if len(insights.Strengths) == 0 || len(insights.Weaknesses) == 0 || len(insights.Recommendations) == 0 {
		return fallbackInsights()
	}

	return &insights
}

// persistSummary stores the first computed summary back on the interview.
// Summary fields are write-once and the status is promoted to completed only
// from in_progress, so a terminated interview is never re-marked.
func (r *reportService) persistSummary(interview *models.Interview, overallScore float64, readinessLevel string) {
	if interview.OverallScore != nil {
		return
	}

	updates := map[string]interface{}{
		"overall_score":   round2(overallScore),
		"readiness_level": readinessLevel,
	}

	if interview.CompletedAt == nil {
		updates["completed_at"] = time.Now().UTC()
	}

	if interview.Status == models.StatusInProgress {
		updates["status"] = models.StatusCompleted
	}

	if err := r.interviewRepo.UpdateFields(interview.ID, updates); err != nil {
		log.Printf("⚠️  Failed to persist report summary for %s: %v\n", interview.ID, err)
	}
}
