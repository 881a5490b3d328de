package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sira-labs/voice-assessment/internal/models"
	"github.com/sira-labs/voice-assessment/internal/repositories"
)

// OpenResult is the outcome of AnalyzeAndOpen. Always usable: adapter
// failures are replaced by fixed fallback values before this is built.
type OpenResult struct {
	Analysis      *models.CVAnalysis
	FirstQuestion string
}

// NextStep is the outcome of SubmitAnswer: either the assessment finished on
// this answer, or the next question with its 1-based number.
type NextStep struct {
	Completed      bool
	NextQuestion   string
	QuestionNumber int
}

// FinalizeResult carries the narrative summary and the generated artifact.
type FinalizeResult struct {
	Summary        string
	ReportFileName string
}

// AssessorService owns the session state machine:
// created -> in_progress -> completed, advanced by the operations below.
type AssessorService interface {
	StartAssessment(cvFileName, cvText string) (*models.AssessmentSession, error)
	AnalyzeAndOpen(ctx context.Context, token string) (*OpenResult, error)
	SubmitAnswer(ctx context.Context, token, question, answer string) (*NextStep, error)
	Finalize(ctx context.Context, token string) (*FinalizeResult, error)
	Status(token string) (*models.AssessmentSession, error)
}

type assessorService struct {
	sessionRepo repositories.SessionRepository
	adapter     AnalysisAdapter
	renderer    ReportRenderer
	storage     StorageService
	questionCap int

	// One mutex per session token. Operations on a single session are
	// serialized; sessions are independent of each other.
	locks sync.Map
}

func NewAssessorService(
	sessionRepo repositories.SessionRepository,
	adapter AnalysisAdapter,
	renderer ReportRenderer,
	storage StorageService,
	questionCap int,
) AssessorService {
	return &assessorService{
		sessionRepo: sessionRepo,
		adapter:     adapter,
		renderer:    renderer,
		storage:     storage,
		questionCap: questionCap,
	}
}

func (a *assessorService) lockSession(token string) func() {
	v, _ := a.locks.LoadOrStore(token, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// StartAssessment implements AssessorService.
func (a *assessorService) StartAssessment(cvFileName, cvText string) (*models.AssessmentSession, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, fmt.Errorf("%w: cv text is empty", models.ErrValidation)
	}

	session := &models.AssessmentSession{
		ID:         uuid.New(),
		Token:      uuid.New().String(),
		CVFileName: cvFileName,
		CVText:     cvText,
		Status:     models.StatusCreated,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := a.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	log.Printf("🆕 Assessment session %s created for %s\n", session.Token, cvFileName)
	return session, nil
}

// AnalyzeAndOpen implements AssessorService. Runs the CV analysis and
// produces the opening question, moving the session to in_progress. Adapter
// failures on either call degrade to fixed defaults; this operation has no
// externally visible failure mode beyond precondition checks.
func (a *assessorService) AnalyzeAndOpen(ctx context.Context, token string) (*OpenResult, error) {
	unlock := a.lockSession(token)
	defer unlock()

	session, err := a.sessionRepo.FindByToken(token)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusCreated {
		return nil, fmt.Errorf("%w: session is %s, expected %s",
			models.ErrInvalidState, session.Status, models.StatusCreated)
	}

	analysis, err := a.adapter.AnalyzeCV(ctx, session.CVText)
	if err != nil {
		log.Printf("⚠️  CV analysis failed for session %s, using fallback: %v\n", token, err)
		analysis = DefaultAnalysis()
	}

	firstQuestion, err := a.adapter.FirstQuestion(ctx, analysis)
	if err != nil {
		log.Printf("⚠️  First question generation failed for session %s, using fallback: %v\n", token, err)
		firstQuestion = defaultOpeningQuestion
	}

	if err := session.SetAnalysis(analysis); err != nil {
		return nil, err
	}
	session.Status = models.StatusInProgress

	if err := a.sessionRepo.Save(session); err != nil {
		return nil, err
	}

	return &OpenResult{
		Analysis:      analysis,
		FirstQuestion: firstQuestion,
	}, nil
}

// SubmitAnswer implements AssessorService. Appends the exchange, then either
// completes the session (question cap reached) or produces the next
// question. A followup failure degrades to the fixed fallback list, indexed
// by min(answered, len(list)-1).
func (a *assessorService) SubmitAnswer(ctx context.Context, token, question, answer string) (*NextStep, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: question and answer are required", models.ErrValidation)
	}

	unlock := a.lockSession(token)
	defer unlock()

	session, err := a.sessionRepo.FindByToken(token)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: session is %s, expected %s",
			models.ErrInvalidState, session.Status, models.StatusInProgress)
	}

	history, err := session.AppendQA(question, answer, time.Now())
	if err != nil {
		return nil, err
	}

	if len(history) >= a.questionCap {
		session.Status = models.StatusCompleted
		if err := a.sessionRepo.Save(session); err != nil {
			return nil, err
		}

		log.Printf("🏁 Session %s completed after %d questions\n", token, len(history))
		return &NextStep{Completed: true}, nil
	}

	analysis, err := session.Analysis()
	if err != nil {
		return nil, err
	}

	nextQuestion, err := a.adapter.FollowupQuestion(ctx, analysis, history)
	if err != nil {
		log.Printf("⚠️  Followup generation failed for session %s, using fallback: %v\n", token, err)
		nextQuestion = FallbackQuestion(len(history))
	}

	if err := a.sessionRepo.Save(session); err != nil {
		return nil, err
	}

	return &NextStep{
		NextQuestion:   nextQuestion,
		QuestionNumber: len(history) + 1,
	}, nil
}

// Finalize implements AssessorService. Builds the closing summary (with a
// templated fallback) and renders the report artifact. Renderer failure is
// the one step not masked: the caller is told to retry. Safe to call again;
// each call writes a fresh timestamped artifact.
func (a *assessorService) Finalize(ctx context.Context, token string) (*FinalizeResult, error) {
	unlock := a.lockSession(token)
	defer unlock()

	session, err := a.sessionRepo.FindByToken(token)
	if err != nil {
		return nil, err
	}

	if session.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: session is %s, expected %s",
			models.ErrInvalidState, session.Status, models.StatusCompleted)
	}

	analysis, err := session.Analysis()
	if err != nil {
		return nil, err
	}

	history, err := session.History()
	if err != nil {
		return nil, err
	}

	summary, err := a.adapter.FinalSummary(ctx, analysis, history)
	if err != nil {
		log.Printf("⚠️  Final summary failed for session %s, using fallback: %v\n", token, err)
		summary = FallbackSummary(len(history), time.Now())
	}

	reportFileName := reportFileName(token, time.Now())
	reportPath := a.storage.ReportPath(reportFileName)

	log.Printf("📄 Rendering report for session %s to %s\n", token, reportPath)
	if err := a.renderer.Render(analysis, history, summary, reportPath); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrReportGeneration, err)
	}

	return &FinalizeResult{
		Summary:        summary,
		ReportFileName: reportFileName,
	}, nil
}

// Status implements AssessorService.
func (a *assessorService) Status(token string) (*models.AssessmentSession, error) {
	return a.sessionRepo.FindByToken(token)
}

func reportFileName(token string, now time.Time) string {
	return fmt.Sprintf("assessment_report_%s_%s.pdf", token, now.Format("20060102_150405"))
}
