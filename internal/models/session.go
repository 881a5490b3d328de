package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusCreated    SessionStatus = "created"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// AssessmentSession is the single stateful record of the system. One row per
// assessment attempt, keyed by an opaque Token. CVAnalysis and QAHistory are
// stored as JSON text columns and only ever touched through the strict
// accessors below.
type AssessmentSession struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Token         string        `gorm:"type:text;uniqueIndex;not null" json:"token"`
	CVFileName    string        `gorm:"type:text;not null" json:"cv_filename"`
	CVText        string        `gorm:"type:text;not null" json:"-"`
	CVAnalysis    string        `gorm:"type:text" json:"-"`
	QAHistory     string        `gorm:"type:text" json:"-"`
	QuestionIndex int           `gorm:"not null;default:0" json:"question_index"`
	Status        SessionStatus `gorm:"type:text;not null;default:'created'" json:"status"`
	CreatedAt     time.Time     `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}

// QARecord is one asked question with its captured answer. Immutable once
// appended to the session history.
type QARecord struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"timestamp"`
}

// History decodes the stored Q&A list. An empty column is an empty history.
func (s *AssessmentSession) History() ([]QARecord, error) {
	if s.QAHistory == "" {
		return nil, nil
	}

	var records []QARecord
	dec := json.NewDecoder(bytes.NewReader([]byte(s.QAHistory)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode qa history: %w", err)
	}

	return records, nil
}

// AppendQA appends one record to the stored history and advances the
// question counter. The caller persists the session afterwards.
func (s *AssessmentSession) AppendQA(question, answer string, askedAt time.Time) ([]QARecord, error) {
	records, err := s.History()
	if err != nil {
		return nil, err
	}

	records = append(records, QARecord{
		Question: question,
		Answer:   answer,
		AskedAt:  askedAt,
	})

	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qa history: %w", err)
	}

	s.QAHistory = string(encoded)
	s.QuestionIndex = len(records)

	return records, nil
}

// Analysis decodes the stored CV analysis. Returns ErrValidation when no
// analysis has been stored yet; malformed stored data fails closed.
func (s *AssessmentSession) Analysis() (*CVAnalysis, error) {
	if s.CVAnalysis == "" {
		return nil, fmt.Errorf("%w: session has no cv analysis", ErrValidation)
	}

	analysis, err := DecodeCVAnalysis([]byte(s.CVAnalysis))
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// SetAnalysis stores the analysis. Set once after the first analyze call and
// read-only afterwards.
func (s *AssessmentSession) SetAnalysis(analysis *CVAnalysis) error {
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode cv analysis: %w", err)
	}

	s.CVAnalysis = string(encoded)
	return nil
}

// AudioClip tracks one synthesized or recorded audio file tied to a session.
type AudioClip struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionToken  string    `gorm:"type:text;not null" json:"session_token"`
	Filename      string    `gorm:"type:text;not null" json:"filename"`
	FilePath      string    `gorm:"type:text;not null" json:"file_path"`
	Transcription string    `gorm:"type:text" json:"transcription,omitempty"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (AudioClip) TableName() string {
	return "audio_clips"
}
