package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepmate/interview-api/internal/models"
	"prepmate/interview-api/internal/repositories"
)

func newTestSession(t *testing.T, gateway GeminiService) (SessionService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	session := NewSessionService(
		repositories.NewInterviewRepository(db),
		repositories.NewQuestionRepository(db),
		repositories.NewDraftRepository(db),
		gateway,
		nil,
		nil,
		NewDocumentExtractor(),
		NewAnswerEvaluator(gateway, 3),
		3,
	)

	return session, db
}

// scriptedGateway answers each prompt kind with well-formed JSON.
func scriptedGateway(evalScore string) *stubGemini {
	return &stubGemini{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "resume parser"):
			return `{"skills": ["Go", "PostgreSQL"], "experience_years": "5 years", "projects": "billing platform", "education": "BSc"}`, nil
		case strings.Contains(prompt, "Evaluate this interview answer"):
			return `{"score": ` + evalScore + `, "feedback": "Reasonable answer.", "strengths": "clarity", "weaknesses": "depth"}`, nil
		case strings.Contains(prompt, "interview question"):
			return `{"question": "What does a goroutine leak look like?"}`, nil
		default:
			return "", errors.New("unexpected prompt")
		}
	}}
}

func setupReadyInterview(t *testing.T, session SessionService) *models.Interview {
	t.Helper()
	ctx := context.Background()

	interview, err := session.Create(ctx, "Ada Lovelace", "ada@example.com")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	resume := []byte("Senior Go engineer with five years building distributed billing systems in Go and PostgreSQL.")
	if _, err := session.AttachResume(ctx, interview.ID, resume, "resume.txt"); err != nil {
		t.Fatalf("AttachResume returned error: %v", err)
	}

	if err := session.AttachJobDescription(ctx, interview.ID, "Backend Go engineer for payments infrastructure."); err != nil {
		t.Fatalf("AttachJobDescription returned error: %v", err)
	}

	return interview
}

func TestCreateStartsInSetup(t *testing.T) {
	session, _ := newTestSession(t, &stubGemini{})

	interview, err := session.Create(context.Background(), "Ada Lovelace", "ada@example.com")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if interview.Status != models.StatusSetup {
		t.Fatalf("status = %v, want %v", interview.Status, models.StatusSetup)
	}
	if interview.OverallScore != nil || interview.CompletedAt != nil {
		t.Fatal("new interview must not carry summary fields")
	}
}

func TestAttachResumeParsesSkills(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	stored, err := session.Get(interview.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if !stored.HasResume() {
		t.Fatal("expected resume text to be stored")
	}
	if len(stored.ParsedSkills) != 2 || stored.ParsedSkills[0] != "Go" {
		t.Fatalf("parsed skills = %v, want [Go PostgreSQL]", stored.ParsedSkills)
	}
	if stored.ParsedExperience == nil || *stored.ParsedExperience != "5 years" {
		t.Fatalf("parsed experience = %v, want 5 years", stored.ParsedExperience)
	}
}

func TestAttachResumeUnsupportedFormat(t *testing.T) {
	session, _ := newTestSession(t, &stubGemini{})
	interview, _ := session.Create(context.Background(), "Ada Lovelace", "ada@example.com")

	_, err := session.AttachResume(context.Background(), interview.ID, []byte("data"), "resume.exe")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestAttachResumeEmptyExtraction(t *testing.T) {
	session, _ := newTestSession(t, &stubGemini{})
	interview, _ := session.Create(context.Background(), "Ada Lovelace", "ada@example.com")

	_, err := session.AttachResume(context.Background(), interview.ID, []byte("   \n  "), "resume.txt")
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("err = %v, want ErrEmptyExtraction", err)
	}
}

func TestAttachResumeParseFailureDegradesToDefaults(t *testing.T) {
	// Gateway down: the upload must still succeed with default parse data
	session, _ := newTestSession(t, &stubGemini{})
	interview, _ := session.Create(context.Background(), "Ada Lovelace", "ada@example.com")

	parsed, err := session.AttachResume(context.Background(), interview.ID,
		[]byte("Plenty of résumé text for extraction."), "resume.txt")
	if err != nil {
		t.Fatalf("AttachResume returned error: %v", err)
	}

	if len(parsed.Skills) != 0 {
		t.Fatalf("skills = %v, want empty", parsed.Skills)
	}
	if parsed.ExperienceYears != "Unknown" {
		t.Fatalf("experience = %q, want Unknown", parsed.ExperienceYears)
	}
}

func TestAttachResumeUnknownInterview(t *testing.T) {
	session, _ := newTestSession(t, &stubGemini{})

	_, err := session.AttachResume(context.Background(), uuid.New(), []byte("text"), "resume.txt")
	if !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("err = %v, want ErrInterviewNotFound", err)
	}
}

func TestStartRequiresResumeAndJD(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	ctx := context.Background()

	interview, _ := session.Create(ctx, "Ada Lovelace", "ada@example.com")

	if _, err := session.Start(ctx, interview.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("start without documents: err = %v, want ErrPreconditionFailed", err)
	}

	if err := session.AttachJobDescription(ctx, interview.ID, "Backend Go engineer."); err != nil {
		t.Fatalf("AttachJobDescription returned error: %v", err)
	}

	if _, err := session.Start(ctx, interview.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("start without resume: err = %v, want ErrPreconditionFailed", err)
	}
}

func TestStartGeneratesEasyFirstQuestion(t *testing.T) {
	// The scripted gateway omits time_allocated, so the default must apply
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	question, err := session.Start(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if question.Difficulty != models.DifficultyEasy {
		t.Fatalf("first question difficulty = %v, want easy", question.Difficulty)
	}
	if question.QuestionNumber != 1 {
		t.Fatalf("question number = %d, want 1", question.QuestionNumber)
	}
	if question.TimeAllocated != 180 {
		t.Fatalf("time allocated = %d, want default 180", question.TimeAllocated)
	}

	stored, _ := session.Get(interview.ID)
	if stored.Status != models.StatusInProgress {
		t.Fatalf("status = %v, want in_progress", stored.Status)
	}

	// A second start must fail: the interview is no longer in setup
	if _, err := session.Start(context.Background(), interview.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("second start: err = %v, want ErrPreconditionFailed", err)
	}
}

func TestStartFallsBackWhenQuestionGenerationFails(t *testing.T) {
	gateway := &stubGemini{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "resume parser") {
			return `{"skills": [], "experience_years": "3", "projects": "", "education": ""}`, nil
		}
		return "", errors.New("gateway down")
	}}

	session, _ := newTestSession(t, gateway)
	interview := setupReadyInterview(t, session)

	question, err := session.Start(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if question.QuestionText == "" || question.TimeAllocated != 180 {
		t.Fatalf("expected default question with 180s, got %q (%ds)", question.QuestionText, question.TimeAllocated)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	if _, err := session.Start(context.Background(), interview.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	_, err := session.SubmitAnswer(context.Background(), interview.ID, uuid.New(), "some answer text here", 60)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestSubmitAnswerTwiceRejected(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	question, err := session.Start(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	answer := "A goroutine leak shows up as ever-growing goroutine counts in pprof dumps."
	if _, err := session.SubmitAnswer(context.Background(), interview.ID, question.ID, answer, 60); err != nil {
		t.Fatalf("first submit returned error: %v", err)
	}

	_, err = session.SubmitAnswer(context.Background(), interview.ID, question.ID, answer, 60)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("second submit: err = %v, want ErrQuestionNotFound", err)
	}
}

func TestPoorPerformanceTerminatesAfterTwoAnswers(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)
	ctx := context.Background()

	question, err := session.Start(ctx, interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Give-up answer scores 5.0 via the pre-filter; one poor answer continues
	outcome, err := session.SubmitAnswer(ctx, interview.ID, question.ID, "idk", 30)
	if err != nil {
		t.Fatalf("first submit returned error: %v", err)
	}
	if outcome.Kind != OutcomeNextQuestion {
		t.Fatalf("first outcome = %v, want next_question", outcome.Kind)
	}
	if outcome.Question.Difficulty != models.DifficultyEasy {
		t.Fatalf("difficulty after score 5 = %v, want easy", outcome.Question.Difficulty)
	}

	// Empty answer scores 0.0; mean 2.5 over two answers terminates
	outcome, err = session.SubmitAnswer(ctx, interview.ID, outcome.Question.ID, "no", 30)
	if err != nil {
		t.Fatalf("second submit returned error: %v", err)
	}

	if outcome.Kind != OutcomeTerminated {
		t.Fatalf("second outcome = %v, want terminated", outcome.Kind)
	}
	if outcome.Reason != TerminationReason {
		t.Fatalf("reason = %q, want %q", outcome.Reason, TerminationReason)
	}

	stored, _ := session.Get(interview.ID)
	if stored.Status != models.StatusTerminated {
		t.Fatalf("status = %v, want terminated", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Fatal("terminated interview must carry completed_at")
	}
}

func TestEightStrongAnswersComplete(t *testing.T) {
	// Gateway score 80 with a fast answer blends to 83.0 per submission
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)
	ctx := context.Background()

	question, err := session.Start(ctx, interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	answer := "Use pprof goroutine profiles and look for stacks blocked on channels that nobody closes."
	previous := question.Difficulty

	for i := 1; i <= MaxQuestions; i++ {
		outcome, err := session.SubmitAnswer(ctx, interview.ID, question.ID, answer, 90)
		if err != nil {
			t.Fatalf("submit %d returned error: %v", i, err)
		}

		if outcome.Score != 83.0 {
			t.Fatalf("submit %d score = %v, want 83.0", i, outcome.Score)
		}

		if i < MaxQuestions {
			if outcome.Kind != OutcomeNextQuestion {
				t.Fatalf("submit %d outcome = %v, want next_question", i, outcome.Kind)
			}

			next := outcome.Question
			if previous == models.DifficultyEasy && next.Difficulty == models.DifficultyHard {
				t.Fatalf("submit %d jumped easy to hard", i)
			}
			if next.QuestionNumber != i+1 {
				t.Fatalf("submit %d next number = %d, want %d", i, next.QuestionNumber, i+1)
			}

			previous = next.Difficulty
			question = next
			continue
		}

		if outcome.Kind != OutcomeCompleted {
			t.Fatalf("final outcome = %v, want completed", outcome.Kind)
		}
	}

	stored, _ := session.Get(interview.ID)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("status = %v, want completed", stored.Status)
	}

	questions, err := session.Questions(interview.ID)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}
	if len(questions) != MaxQuestions {
		t.Fatalf("question count = %d, want %d", len(questions), MaxQuestions)
	}
	for _, q := range questions {
		if !q.Answered() {
			t.Fatalf("question %d left unanswered", q.QuestionNumber)
		}
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	session, _ := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	if _, err := session.Start(context.Background(), interview.ID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	first, err := session.Questions(interview.ID)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}
	second, err := session.Questions(interview.ID)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("read lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("read %d differs: %v vs %v", i, first[i].ID, second[i].ID)
		}
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	session, _ := newTestSession(t, &stubGemini{})
	ctx := context.Background()

	for _, name := range []string{"First Candidate", "Second Candidate", "Third Candidate"} {
		if _, err := session.Create(ctx, name, "candidate@example.com"); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	history, err := session.History(100)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}

	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.After(history[i-1].CreatedAt) {
			t.Fatal("history is not sorted newest first")
		}
	}
}

func TestSaveDraftUpserts(t *testing.T) {
	session, db := newTestSession(t, scriptedGateway("80"))
	interview := setupReadyInterview(t, session)

	question, err := session.Start(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	if err := session.SaveDraft(interview.ID, question.ID, "first draft"); err != nil {
		t.Fatalf("first SaveDraft returned error: %v", err)
	}
	if err := session.SaveDraft(interview.ID, question.ID, "second draft"); err != nil {
		t.Fatalf("second SaveDraft returned error: %v", err)
	}

	draftRepo := repositories.NewDraftRepository(db)
	draft, err := draftRepo.Find(interview.ID, question.ID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if draft.DraftAnswer != "second draft" {
		t.Fatalf("draft = %q, want the latest snapshot", draft.DraftAnswer)
	}

	var count int64
	if err := db.Model(&models.Draft{}).Count(&count).Error; err != nil {
		t.Fatalf("count returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("draft rows = %d, want 1 after upsert", count)
	}
}
