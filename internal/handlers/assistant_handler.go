package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prepmate/interview-api/internal/models"
	"prepmate/interview-api/internal/services"
)

type AssistantHandler struct {
	assistantService services.AssistantService
}

func NewAssistantHandler(assistantService services.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// HandleHelp handles POST /assistant/help
func (h *AssistantHandler) HandleHelp(c *fiber.Ctx) error {
	var req models.AssistantRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	response := h.assistantService.Help(c.Context(), req.Question, req.UserMessage)

	return c.JSON(models.AssistantResponse{Response: response})
}
