package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
	"prepmate/interview-api/internal/repositories"
)

// OutcomeKind discriminates the result of an answer submission.
type OutcomeKind string

const (
	OutcomeNextQuestion OutcomeKind = "next_question"
	OutcomeTerminated   OutcomeKind = "terminated"
	OutcomeCompleted    OutcomeKind = "completed"
)

// AnswerOutcome is the single result of submit-answer: either the next
// question, an early termination, or completion at the question ceiling.
type AnswerOutcome struct {
	Kind     OutcomeKind
	Question *models.Question
	Score    float64
	Feedback string
	Reason   string
}

// SessionService drives the interview lifecycle:
// setup → in_progress → completed | terminated. All transitions are
// externally triggered; no transition leaves a terminal state.
type SessionService interface {
	Create(ctx context.Context, name, email string) (*models.Interview, error)
	AttachResume(ctx context.Context, interviewID uuid.UUID, content []byte, filename string) (*models.ResumeData, error)
	AttachJobDescription(ctx context.Context, interviewID uuid.UUID, jdText string) error
	Start(ctx context.Context, interviewID uuid.UUID) (*models.Question, error)
	SubmitAnswer(ctx context.Context, interviewID, questionID uuid.UUID, answerText string, timeTaken int) (*AnswerOutcome, error)
	Get(interviewID uuid.UUID) (*models.Interview, error)
	History(limit int) ([]models.Interview, error)
	Questions(interviewID uuid.UUID) ([]models.Question, error)
	SaveDraft(interviewID, questionID uuid.UUID, draftAnswer string) error
}

type sessionService struct {
	interviewRepo repositories.InterviewRepository
	questionRepo  repositories.QuestionRepository
	draftRepo     repositories.DraftRepository
	geminiService GeminiService
	vectorStore   VectorStore
	indexer       Indexer
	extractor     DocumentExtractor
	evaluator     AnswerEvaluator
	promptBuilder *PromptBuilder
	maxRetries    int

	// one mutex per interview so exactly one start/submit transition
	// commits per logical step
	locks sync.Map
}

func NewSessionService(
	interviewRepo repositories.InterviewRepository,
	questionRepo repositories.QuestionRepository,
	draftRepo repositories.DraftRepository,
	geminiService GeminiService,
	vectorStore VectorStore,
	indexer Indexer,
	extractor DocumentExtractor,
	evaluator AnswerEvaluator,
	maxRetries int,
) SessionService {
	return &sessionService{
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
		draftRepo:     draftRepo,
		geminiService: geminiService,
		vectorStore:   vectorStore,
		indexer:       indexer,
		extractor:     extractor,
		evaluator:     evaluator,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

func (s *sessionService) lock(interviewID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(interviewID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create implements SessionService.
func (s *sessionService) Create(ctx context.Context, name, email string) (*models.Interview, error) {
	interview := &models.Interview{
		ID:             uuid.New(),
		CandidateName:  name,
		CandidateEmail: email,
		Status:         models.StatusSetup,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, err
	}

	return interview, nil
}

// AttachResume implements SessionService. Text extraction failures are hard
// errors; structured parsing failures degrade to empty skills so a résumé
// upload never fails solely because the gateway misbehaved.
func (s *sessionService) AttachResume(ctx context.Context, interviewID uuid.UUID, content []byte, filename string) (*models.ResumeData, error) {
	interview, err := s.findInterview(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status != models.StatusSetup {
		return nil, ErrPreconditionFailed
	}

	resumeText, err := s.extractor.ExtractText(content, filename)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyExtraction
	}

	parsed := s.parseResume(ctx, resumeText)

	skillsJSON, err := json.Marshal(parsed.Skills)
	if err != nil {
		skillsJSON = []byte("[]")
	}

	err = s.interviewRepo.UpdateFields(interviewID, map[string]interface{}{
		"resume_text":       resumeText,
		"parsed_skills":     string(skillsJSON),
		"parsed_experience": parsed.ExperienceYears,
	})
	if err != nil {
		return nil, err
	}

	if s.indexer != nil {
		s.indexer.Enqueue(IndexJob{
			InterviewID: interviewID,
			DocType:     "resume",
			Text:        resumeText,
		})
	}

	return parsed, nil
}

// AttachJobDescription implements SessionService.
func (s *sessionService) AttachJobDescription(ctx context.Context, interviewID uuid.UUID, jdText string) error {
	if _, err := s.findInterview(interviewID); err != nil {
		return err
	}

	err := s.interviewRepo.UpdateFields(interviewID, map[string]interface{}{
		"jd_text": jdText,
	})
	if err != nil {
		return err
	}

	if s.indexer != nil && strings.TrimSpace(jdText) != "" {
		s.indexer.Enqueue(IndexJob{
			InterviewID: interviewID,
			DocType:     "job_description",
			Text:        jdText,
		})
	}

	return nil
}

// Start implements SessionService. The first question is always easy.
func (s *sessionService) Start(ctx context.Context, interviewID uuid.UUID) (*models.Question, error) {
	mu := s.lock(interviewID)
	mu.Lock()
	defer mu.Unlock()

	interview, err := s.findInterview(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status != models.StatusSetup {
		return nil, ErrPreconditionFailed
	}

	if !interview.HasResume() || !interview.HasJobDescription() {
		return nil, ErrPreconditionFailed
	}

	if err := s.interviewRepo.UpdateStatus(interviewID, models.StatusInProgress); err != nil {
		return nil, err
	}

	return s.generateQuestion(ctx, interview, 1, models.DifficultyEasy, nil)
}

// SubmitAnswer implements SessionService. Evaluation is total, the question
// is closed in a single update, and the decision table runs in fixed order:
// termination first, then the question ceiling, then the next question.
func (s *sessionService) SubmitAnswer(ctx context.Context, interviewID, questionID uuid.UUID, answerText string, timeTaken int) (*AnswerOutcome, error) {
	mu := s.lock(interviewID)
	mu.Lock()
	defer mu.Unlock()

	interview, err := s.findInterview(interviewID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(interviewID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if question.Answered() {
		return nil, ErrQuestionNotFound
	}

	evaluation := s.evaluator.Evaluate(ctx, question, answerText, timeTaken)

	err = s.questionRepo.Close(questionID, &repositories.AnswerData{
		AnswerText: answerText,
		TimeTaken:  timeTaken,
		Score:      evaluation.Score,
		Feedback:   evaluation.Feedback,
	})
	if err != nil {
		return nil, err
	}

	answered, err := s.questionRepo.FindAnswered(interviewID)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(answered))
	for _, q := range answered {
		if q.Score != nil {
			scores = append(scores, *q.Score)
		}
	}

	if terminate, reason := ShouldTerminate(scores); terminate {
		if err := s.finalizeStatus(interviewID, models.StatusTerminated); err != nil {
			return nil, err
		}

		return &AnswerOutcome{
			Kind:     OutcomeTerminated,
			Score:    evaluation.Score,
			Feedback: evaluation.Feedback,
			Reason:   reason,
		}, nil
	}

	if len(answered) >= MaxQuestions {
		if err := s.finalizeStatus(interviewID, models.StatusCompleted); err != nil {
			return nil, err
		}

		return &AnswerOutcome{
			Kind:     OutcomeCompleted,
			Score:    evaluation.Score,
			Feedback: evaluation.Feedback,
		}, nil
	}

	nextDifficulty := NextDifficulty(evaluation.Score, question.Difficulty)

	nextQuestion, err := s.generateQuestion(ctx, interview, question.QuestionNumber+1, nextDifficulty, &evaluation.Score)
	if err != nil {
		return nil, err
	}

	return &AnswerOutcome{
		Kind:     OutcomeNextQuestion,
		Question: nextQuestion,
		Score:    evaluation.Score,
		Feedback: evaluation.Feedback,
	}, nil
}

// Get implements SessionService.
func (s *sessionService) Get(interviewID uuid.UUID) (*models.Interview, error) {
	return s.findInterview(interviewID)
}

// History implements SessionService.
func (s *sessionService) History(limit int) ([]models.Interview, error) {
	return s.interviewRepo.ListRecent(limit)
}

// Questions implements SessionService.
func (s *sessionService) Questions(interviewID uuid.UUID) ([]models.Question, error) {
	if _, err := s.findInterview(interviewID); err != nil {
		return nil, err
	}
	return s.questionRepo.FindByInterview(interviewID)
}

// SaveDraft implements SessionService.
func (s *sessionService) SaveDraft(interviewID, questionID uuid.UUID, draftAnswer string) error {
	if _, err := s.findInterview(interviewID); err != nil {
		return err
	}
	return s.draftRepo.Upsert(interviewID, questionID, draftAnswer)
}

func (s *sessionService) findInterview(interviewID uuid.UUID) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return interview, nil
}

func (s *sessionService) finalizeStatus(interviewID uuid.UUID, status models.InterviewStatus) error {
	return s.interviewRepo.UpdateFields(interviewID, map[string]interface{}{
		"status":       status,
		"completed_at": time.Now().UTC(),
	})
}

// questionPayload is the JSON shape expected from question generation.
type questionPayload struct {
	Question      string `json:"question"`
	TimeAllocated int    `json:"time_allocated"`
}

const (
	defaultQuestionText  = "Please describe your experience with the technologies mentioned in the job description."
	defaultTimeAllocated = 180
)

func (s *sessionService) generateQuestion(ctx context.Context, interview *models.Interview, number int, difficulty models.Difficulty, previousScore *float64) (*models.Question, error) {
	jdText := ""
	if interview.JDText != nil {
		jdText = *interview.JDText
	}

	experience := "Unknown"
	if interview.ParsedExperience != nil {
		experience = *interview.ParsedExperience
	}

	retrievedContext := s.retrieveContext(ctx, interview.ID, jdText)

	prompt := s.promptBuilder.BuildQuestionPrompt(
		interview.ParsedSkills,
		experience,
		jdText,
		number,
		difficulty,
		previousScore,
		retrievedContext,
	)

	payload := questionPayload{
		Question:      defaultQuestionText,
		TimeAllocated: defaultTimeAllocated,
	}

	response, err := s.geminiService.GenerateTextWithRetry(ctx, prompt, 0.7, s.maxRetries)
	if err != nil {
		log.Printf("⚠️  Question generation failed, using default question: %v\n", err)
	} else if !decodeGenerated(response, &payload) {
		// Non-JSON output still carries a usable question
		log.Println("⚠️  Unparseable question response, using raw text")
		payload.Question = response
		if len(payload.Question) > 500 {
			payload.Question = payload.Question[:500]
		}
		payload.TimeAllocated = defaultTimeAllocated
	}

	if payload.TimeAllocated <= 0 {
		payload.TimeAllocated = defaultTimeAllocated
	}

	question := &models.Question{
		ID:             uuid.New(),
		InterviewID:    interview.ID,
		QuestionNumber: number,
		QuestionText:   payload.Question,
		Difficulty:     difficulty,
		TimeAllocated:  payload.TimeAllocated,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	return question, nil
}

// retrieveContext pulls candidate-document chunks similar to the job
// description. Retrieval is best-effort; any failure degrades to no context.
func (s *sessionService) retrieveContext(ctx context.Context, interviewID uuid.UUID, jdText string) string {
	if s.vectorStore == nil || strings.TrimSpace(jdText) == "" {
		return ""
	}

	embedding, err := s.geminiService.GenerateEmbedding(ctx, jdText)
	if err != nil {
		log.Printf("⚠️  Failed to embed retrieval query: %v\n", err)
		return ""
	}

	results, err := s.vectorStore.SearchSimilar(ctx, embedding, interviewID.String(), 3)
	if err != nil {
		log.Printf("⚠️  Context retrieval failed: %v\n", err)
		return ""
	}

	return FormatRetrievedContext(results)
}

// parseResume asks the gateway for a structured résumé parse. Any failure
// degrades to empty-skills defaults; the upload itself never fails here.
func (s *sessionService) parseResume(ctx context.Context, resumeText string) *models.ResumeData {
	fallback := &models.ResumeData{
		Skills:          []string{},
		ExperienceYears: "Unknown",
		Projects:        "Unknown",
		Education:       "Unknown",
	}

	prompt := s.promptBuilder.BuildResumeParsePrompt(resumeText)

	response, err := s.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		log.Printf("⚠️  Resume parsing failed, using defaults: %v\n", err)
		return fallback
	}

	var parsed models.ResumeData
	if !decodeGenerated(response, &parsed) {
		log.Println("⚠️  Unparseable resume parse response, using defaults")
		return fallback
	}

	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}
	if parsed.ExperienceYears == "" {
		parsed.ExperienceYears = "Unknown"
	}

	return &parsed
}
