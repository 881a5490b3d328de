package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sira-labs/voice-assessment/internal/models"
	"github.com/sira-labs/voice-assessment/internal/repositories"
	"github.com/sira-labs/voice-assessment/internal/services"
)

type AudioHandler struct {
	speech    services.SpeechService
	storage   services.StorageService
	audioRepo repositories.AudioClipRepository
}

func NewAudioHandler(
	speech services.SpeechService,
	storage services.StorageService,
	audioRepo repositories.AudioClipRepository,
) *AudioHandler {
	return &AudioHandler{
		speech:    speech,
		storage:   storage,
		audioRepo: audioRepo,
	}
}

// HandleSynthesize handles POST /audio: converts question text to speech.
func (h *AudioHandler) HandleSynthesize(c *fiber.Ctx) error {
	var req models.SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no text provided",
		})
	}

	filename, err := h.speech.Synthesize(c.Context(), req.Text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to generate audio: %v", err),
		})
	}

	clip := &models.AudioClip{
		ID:           uuid.New(),
		SessionToken: req.SessionToken,
		Filename:     filename,
		FilePath:     h.storage.AudioPath(filename),
		CreatedAt:    time.Now(),
	}
	if err := h.audioRepo.Create(clip); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record audio clip",
		})
	}

	return c.JSON(models.SynthesizeResponse{
		AudioURL: fmt.Sprintf("/api/v1/audio/%s", filename),
	})
}

// HandleServe handles GET /audio/:filename
func (h *AudioHandler) HandleServe(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	audioPath := h.storage.AudioPath(filename)

	if _, err := os.Stat(audioPath); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "audio file not found",
		})
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.SendFile(audioPath)
}

// HandleTranscribe handles POST /audio/:filename/transcription: transcribes
// a stored answer clip and records the text.
func (h *AudioHandler) HandleTranscribe(c *fiber.Ctx) error {
	filename := filepath.Base(c.Params("filename"))
	audioPath := h.storage.AudioPath(filename)

	transcription, err := h.speech.Transcribe(c.Context(), audioPath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to transcribe audio: %v", err),
		})
	}

	if err := h.audioRepo.UpdateTranscription(filename, transcription); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record transcription",
		})
	}

	return c.JSON(models.TranscriptionResponse{
		Transcription: transcription,
	})
}
