package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"prepmate/interview-api/internal/services"
)

// statusForError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInterviewNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrPreconditionFailed),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, services.ErrEmptyExtraction),
		errors.Is(err, services.ErrNoQuestions):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
