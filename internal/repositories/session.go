package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sira-labs/voice-assessment/internal/models"
)

type SessionRepository interface {
	Create(session *models.AssessmentSession) error
	FindByToken(token string) (*models.AssessmentSession, error)
	Save(session *models.AssessmentSession) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create(session *models.AssessmentSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindByToken implements SessionRepository.
func (r *sessionRepository) FindByToken(token string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: token %s", models.ErrSessionNotFound, token)
		}

		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

// Save writes the whole record back in one statement, so an answer append,
// the counter bump and a status flip land together or not at all.
func (r *sessionRepository) Save(session *models.AssessmentSession) error {
	session.UpdatedAt = time.Now()

	result := r.db.Model(&models.AssessmentSession{}).
		Where("token = ?", session.Token).
		Updates(map[string]interface{}{
			"cv_analysis":    session.CVAnalysis,
			"qa_history":     session.QAHistory,
			"question_index": session.QuestionIndex,
			"status":         session.Status,
			"updated_at":     session.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: token %s", models.ErrSessionNotFound, session.Token)
	}

	return nil
}
