package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prepmate/interview-api/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// HandleGetReport handles GET /interviews/:id/report
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	interviewID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	report, err := h.reportService.Generate(c.Context(), interviewID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(report)
}
