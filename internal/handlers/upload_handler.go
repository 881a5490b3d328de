package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/sira-labs/voice-assessment/internal/models"
	"github.com/sira-labs/voice-assessment/internal/services"
)

type UploadHandler struct {
	storage     services.StorageService
	extractor   services.ExtractorService
	assessor    services.AssessorService
	maxFileSize int64
}

func NewUploadHandler(
	storage services.StorageService,
	extractor services.ExtractorService,
	assessor services.AssessorService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storage:     storage,
		extractor:   extractor,
		assessor:    assessor,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /upload: stores the CV, extracts its text and
// opens a fresh assessment session.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("cv_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no CV file provided, expected multipart field 'cv_file'",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storage.SaveUpload(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV file: %v", err),
		})
	}

	cvText, err := h.extractor.ExtractText(filePath, file.Filename)
	if err != nil {
		// No session is created from an unreadable CV
		h.storage.DeleteUpload(filename)
		return respondError(c, err)
	}

	session, err := h.assessor.StartAssessment(filename, cvText)
	if err != nil {
		h.storage.DeleteUpload(filename)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		SessionToken: session.Token,
		Filename:     session.CVFileName,
		OriginalName: file.Filename,
		Status:       string(session.Status),
	})
}
