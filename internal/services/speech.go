package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

// SpeechService synthesizes question audio and transcribes recorded
// answers. The orchestrator never depends on it; the surrounding HTTP layer
// invokes it independently.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) (string, error)
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type speechService struct {
	client  *resty.Client
	apiKey  string
	voiceID string
	storage StorageService
}

func NewSpeechService(apiKey, voiceID string, timeout time.Duration, storage StorageService) SpeechService {
	client := resty.New().
		SetBaseURL(elevenLabsBaseURL).
		SetTimeout(timeout).
		SetHeader("xi-api-key", apiKey)

	return &speechService{
		client:  client,
		apiKey:  apiKey,
		voiceID: voiceID,
		storage: storage,
	}
}

// Synthesize converts question text to speech via ElevenLabs and stores the
// mp3 under a unique filename. Returns the filename.
func (s *speechService) Synthesize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("elevenlabs api key not configured")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"text":     text,
			"model_id": "eleven_turbo_v2_5",
			"voice_settings": map[string]float64{
				"stability":        0.5,
				"similarity_boost": 0.5,
			},
		}).
		Post(fmt.Sprintf("/text-to-speech/%s", s.voiceID))

	if err != nil {
		return "", fmt.Errorf("failed to call text-to-speech API: %w", err)
	}

	if resp.StatusCode() != 200 {
		detail := gjson.GetBytes(resp.Body(), "detail.message").String()
		if detail == "" {
			detail = resp.Status()
		}
		return "", fmt.Errorf("text-to-speech API error: %s", detail)
	}

	filename := fmt.Sprintf("question_%s.mp3", uuid.New().String())
	audioPath := s.storage.AudioPath(filename)

	if err := os.WriteFile(audioPath, resp.Body(), 0644); err != nil {
		return "", fmt.Errorf("failed to save audio file: %w", err)
	}

	log.Printf("🔊 Audio saved to %s\n", audioPath)
	return filename, nil
}

// Transcribe returns the text for a recorded answer clip. The browser does
// the actual recognition today (Web Speech API); this acknowledges receipt
// until a server-side STT provider is wired in.
func (s *speechService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}

	log.Printf("🎙️ Audio file received: %s (size: %d bytes)\n", audioPath, info.Size())
	return "Audio received and ready for transcription.", nil
}
