package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sira-labs/voice-assessment/internal/models"
)

type AudioClipRepository interface {
	Create(clip *models.AudioClip) error
	FindByFilename(filename string) (*models.AudioClip, error)
	UpdateTranscription(filename, transcription string) error
}

type audioClipRepository struct {
	db *gorm.DB
}

func NewAudioClipRepository(db *gorm.DB) AudioClipRepository {
	return &audioClipRepository{db: db}
}

// Create implements AudioClipRepository.
func (r *audioClipRepository) Create(clip *models.AudioClip) error {
	if err := r.db.Create(clip).Error; err != nil {
		return fmt.Errorf("failed to create audio clip: %w", err)
	}

	return nil
}

// FindByFilename implements AudioClipRepository.
func (r *audioClipRepository) FindByFilename(filename string) (*models.AudioClip, error) {
	var clip models.AudioClip
	if err := r.db.Where("filename = ?", filename).First(&clip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("audio clip not found: %s", filename)
		}

		return nil, fmt.Errorf("failed to find audio clip: %w", err)
	}

	return &clip, nil
}

// UpdateTranscription implements AudioClipRepository.
func (r *audioClipRepository) UpdateTranscription(filename, transcription string) error {
	result := r.db.Model(&models.AudioClip{}).
		Where("filename = ?", filename).
		Update("transcription", transcription)

	if result.Error != nil {
		return fmt.Errorf("failed to update transcription: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("audio clip not found: %s", filename)
	}

	return nil
}
