package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"prepmate/interview-api/internal/models"
	"prepmate/interview-api/internal/services"
)

type InterviewHandler struct {
	sessionService services.SessionService
	maxFileSize    int64
}

func NewInterviewHandler(sessionService services.SessionService, maxFileSize int64) *InterviewHandler {
	return &InterviewHandler{
		sessionService: sessionService,
		maxFileSize:    maxFileSize,
	}
}

// HandleCreate handles POST /interviews
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateInterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.CandidateName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_name is required",
		})
	}

	if req.CandidateEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_email is required",
		})
	}

	interview, err := h.sessionService.Create(c.Context(), req.CandidateName, req.CandidateEmail)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleUploadResume handles POST /interviews/:id/resume
func (h *InterviewHandler) HandleUploadResume(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	parsed, err := h.sessionService.AttachResume(c.Context(), interviewID, content, file.Filename)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(models.ResumeUploadResponse{
		Success:    true,
		ParsedData: *parsed,
		Message:    "Resume uploaded and parsed successfully",
	})
}

// HandleUploadJD handles POST /interviews/:id/job-description
func (h *InterviewHandler) HandleUploadJD(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.JobDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JDText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "jd_text is required",
		})
	}

	if err := h.sessionService.AttachJobDescription(c.Context(), interviewID, req.JDText); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job description uploaded successfully",
	})
}

// HandleStart handles POST /interviews/:id/start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	question, err := h.sessionService.Start(c.Context(), interviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(question)
}

// HandleSubmitAnswer handles POST /interviews/:id/questions/:qid/answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	questionID, err := parseID(c, "qid")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID format",
		})
	}

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	outcome, err := h.sessionService.SubmitAnswer(c.Context(), interviewID, questionID, req.AnswerText, req.TimeTaken)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(answerResponseFor(outcome))
}

// HandleGet handles GET /interviews/:id
func (h *InterviewHandler) HandleGet(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.sessionService.Get(interviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(interview)
}

// HandleQuestions handles GET /interviews/:id/questions
func (h *InterviewHandler) HandleQuestions(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	questions, err := h.sessionService.Questions(interviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(questions)
}

// HandleHistory handles GET /interviews/history
func (h *InterviewHandler) HandleHistory(c *fiber.Ctx) error {
	interviews, err := h.sessionService.History(100)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(interviews)
}

// HandleSaveDraft handles POST /interviews/:id/draft
func (h *InterviewHandler) HandleSaveDraft(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question_id format",
		})
	}

	if err := h.sessionService.SaveDraft(interviewID, questionID, req.DraftAnswer); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Draft saved",
	})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

// answerResponseFor flattens the discriminated submit outcome into the wire
// shape the frontend expects.
func answerResponseFor(outcome *services.AnswerOutcome) models.AnswerResponse {
	switch outcome.Kind {
	case services.OutcomeTerminated:
		return models.AnswerResponse{
			Terminated: true,
			Reason:     &outcome.Reason,
			Score:      &outcome.Score,
			Feedback:   &outcome.Feedback,
		}
	case services.OutcomeCompleted:
		return models.AnswerResponse{
			Completed: true,
			Score:     &outcome.Score,
			Feedback:  &outcome.Feedback,
		}
	default:
		return models.AnswerResponse{
			Question:         outcome.Question,
			PreviousScore:    &outcome.Score,
			PreviousFeedback: &outcome.Feedback,
		}
	}
}
