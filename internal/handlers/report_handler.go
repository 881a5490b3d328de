package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/sira-labs/voice-assessment/internal/models"
	"github.com/sira-labs/voice-assessment/internal/services"
)

type ReportHandler struct {
	assessor services.AssessorService
	storage  services.StorageService
}

func NewReportHandler(assessor services.AssessorService, storage services.StorageService) *ReportHandler {
	return &ReportHandler{
		assessor: assessor,
		storage:  storage,
	}
}

// HandleGenerate handles POST /sessions/:token/report: produces the final
// summary and the PDF artifact. Safe to call again after a failure.
func (h *ReportHandler) HandleGenerate(c *fiber.Ctx) error {
	token := c.Params("token")

	result, err := h.assessor.Finalize(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ReportResponse{
		Summary:   result.Summary,
		ReportURL: fmt.Sprintf("/api/v1/reports/%s", token),
	})
}

// HandleDownload handles GET /reports/:token: serves the newest report
// artifact generated for the session.
func (h *ReportHandler) HandleDownload(c *fiber.Ctx) error {
	token := c.Params("token")

	reportPath, err := h.storage.LatestReport(token)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "report not found, generate it first",
		})
	}

	return c.Download(reportPath, fmt.Sprintf("assessment_report_%s.pdf", token))
}
