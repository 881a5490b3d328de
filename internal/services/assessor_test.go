package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/sira-labs/voice-assessment/internal/models"
)

// fakeSessionRepo is an in-memory SessionRepository. FindByToken returns a
// copy, so mutations only land through Save, matching the real store.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.AssessmentSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]models.AssessmentSession)}
}

func (f *fakeSessionRepo) Create(s *models.AssessmentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.sessions[s.Token]; exists {
		return fmt.Errorf("duplicate token %s", s.Token)
	}
	f.sessions[s.Token] = *s
	return nil
}

func (f *fakeSessionRepo) FindByToken(token string) (*models.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, fmt.Errorf("%w: token %s", models.ErrSessionNotFound, token)
	}
	copied := s
	return &copied, nil
}

func (f *fakeSessionRepo) Save(s *models.AssessmentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.Token]; !ok {
		return fmt.Errorf("%w: token %s", models.ErrSessionNotFound, s.Token)
	}
	f.sessions[s.Token] = *s
	return nil
}

// failingAdapter simulates a fully unavailable AI service.
type failingAdapter struct{}

func (failingAdapter) AnalyzeCV(context.Context, string) (*models.CVAnalysis, error) {
	return nil, errors.New("adapter unavailable")
}

func (failingAdapter) FirstQuestion(context.Context, *models.CVAnalysis) (string, error) {
	return "", errors.New("adapter unavailable")
}

func (failingAdapter) FollowupQuestion(context.Context, *models.CVAnalysis, []models.QARecord) (string, error) {
	return "", errors.New("adapter unavailable")
}

func (failingAdapter) FinalSummary(context.Context, *models.CVAnalysis, []models.QARecord) (string, error) {
	return "", errors.New("adapter unavailable")
}

// scriptedAdapter returns fixed values and counts followup calls.
type scriptedAdapter struct {
	followups int
}

func (a *scriptedAdapter) AnalyzeCV(context.Context, string) (*models.CVAnalysis, error) {
	return &models.CVAnalysis{
		Summary:         "Seasoned backend engineer",
		KeySkills:       []string{"Go", "PostgreSQL"},
		ExperienceYears: 9,
		CareerStage:     "Senior",
	}, nil
}

func (a *scriptedAdapter) FirstQuestion(context.Context, *models.CVAnalysis) (string, error) {
	return "Tell me about your current role.", nil
}

func (a *scriptedAdapter) FollowupQuestion(context.Context, *models.CVAnalysis, []models.QARecord) (string, error) {
	a.followups++
	return fmt.Sprintf("Generated question %d?", a.followups), nil
}

func (a *scriptedAdapter) FinalSummary(context.Context, *models.CVAnalysis, []models.QARecord) (string, error) {
	return "## Executive Summary\nStrong candidate.", nil
}

type stubRenderer struct {
	fail  bool
	calls int
}

func (r *stubRenderer) Render(analysis *models.CVAnalysis, history []models.QARecord, summary, outputPath string) error {
	r.calls++
	if r.fail {
		return errors.New("renderer down")
	}
	return os.WriteFile(outputPath, []byte("%PDF-1.4 stub"), 0644)
}

func newTestAssessor(t *testing.T, repo *fakeSessionRepo, adapter AnalysisAdapter, renderer ReportRenderer) AssessorService {
	t.Helper()
	dir := t.TempDir()
	storage := NewStorageService(dir, dir, dir)
	if err := storage.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return NewAssessorService(repo, adapter, renderer, storage, 8)
}

func startOpenSession(t *testing.T, a AssessorService) string {
	t.Helper()
	session, err := a.StartAssessment("cv_test.pdf", "Jane Doe\n10 years of Go.")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	if _, err := a.AnalyzeAndOpen(context.Background(), session.Token); err != nil {
		t.Fatalf("AnalyzeAndOpen: %v", err)
	}
	return session.Token
}

func TestStartAssessment_RejectsEmptyCVText(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})

	if _, err := a.StartAssessment("cv.pdf", "   \n  "); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStartAssessment_UniqueTokens(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := a.StartAssessment("cv.pdf", "text")
		if err != nil {
			t.Fatalf("StartAssessment: %v", err)
		}
		if seen[session.Token] {
			t.Fatalf("duplicate token %s", session.Token)
		}
		seen[session.Token] = true
		if session.Status != models.StatusCreated {
			t.Fatalf("expected status created, got %s", session.Status)
		}
	}
}

func TestAnalyzeAndOpen_AdapterFailureNeverEscapes(t *testing.T) {
	repo := newFakeSessionRepo()
	a := newTestAssessor(t, repo, failingAdapter{}, &stubRenderer{})

	session, err := a.StartAssessment("cv.pdf", "some cv text")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}

	result, err := a.AnalyzeAndOpen(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("AnalyzeAndOpen must not fail on adapter errors, got %v", err)
	}
	if result.Analysis == nil || result.Analysis.ExperienceYears != 5 {
		t.Fatalf("expected fallback analysis, got %+v", result.Analysis)
	}
	if result.FirstQuestion != defaultOpeningQuestion {
		t.Fatalf("expected fallback opening question, got %q", result.FirstQuestion)
	}

	stored, err := repo.FindByToken(session.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if stored.Status != models.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", stored.Status)
	}
	if stored.CVAnalysis == "" {
		t.Fatalf("expected stored analysis")
	}
}

func TestAnalyzeAndOpen_WrongStateRejected(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})
	token := startOpenSession(t, a)

	if _, err := a.AnalyzeAndOpen(context.Background(), token); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on re-analysis, got %v", err)
	}
}

func TestAnalyzeAndOpen_UnknownSession(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})

	if _, err := a.AnalyzeAndOpen(context.Background(), "no-such-token"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitAnswer_EmptyAnswerRejectedWithoutMutation(t *testing.T) {
	repo := newFakeSessionRepo()
	a := newTestAssessor(t, repo, &scriptedAdapter{}, &stubRenderer{})
	token := startOpenSession(t, a)

	if _, err := a.SubmitAnswer(context.Background(), token, "Q1?", "  "); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := a.SubmitAnswer(context.Background(), token, "", "an answer"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	stored, _ := repo.FindByToken(token)
	history, err := stored.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected answers must not mutate history, got %d entries", len(history))
	}
}

func TestSubmitAnswer_BeforeAnalysisRejected(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})

	session, err := a.StartAssessment("cv.pdf", "text")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}

	if _, err := a.SubmitAnswer(context.Background(), session.Token, "Q?", "A"); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSubmitAnswer_CapCompletesExactlyOnEighth(t *testing.T) {
	repo := newFakeSessionRepo()
	a := newTestAssessor(t, repo, &scriptedAdapter{}, &stubRenderer{})
	token := startOpenSession(t, a)

	for n := 1; n <= 8; n++ {
		result, err := a.SubmitAnswer(context.Background(), token, fmt.Sprintf("Q%d?", n), fmt.Sprintf("answer %d", n))
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", n, err)
		}

		if n < 8 {
			if result.Completed {
				t.Fatalf("completed too early at answer %d", n)
			}
			if result.QuestionNumber != n+1 {
				t.Fatalf("expected question number %d, got %d", n+1, result.QuestionNumber)
			}
		} else if !result.Completed {
			t.Fatalf("expected completion on answer 8")
		}
	}

	stored, _ := repo.FindByToken(token)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	history, _ := stored.History()
	if len(history) != 8 {
		t.Fatalf("expected 8 history entries, got %d", len(history))
	}

	// The terminal state admits no further answers
	if _, err := a.SubmitAnswer(context.Background(), token, "Q9?", "answer 9"); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after completion, got %v", err)
	}
	stored, _ = repo.FindByToken(token)
	history, _ = stored.History()
	if len(history) != 8 {
		t.Fatalf("history mutated after completion: %d entries", len(history))
	}
}

func TestSubmitAnswer_DeterministicFallbackSequence(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), failingAdapter{}, &stubRenderer{})
	session, err := a.StartAssessment("cv.pdf", "text")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	token := session.Token
	if _, err := a.AnalyzeAndOpen(context.Background(), token); err != nil {
		t.Fatalf("AnalyzeAndOpen: %v", err)
	}

	for n := 1; n <= 7; n++ {
		result, err := a.SubmitAnswer(context.Background(), token, fmt.Sprintf("Q%d?", n), "answer")
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", n, err)
		}
		want := FallbackQuestion(n)
		if result.NextQuestion != want {
			t.Fatalf("answer %d: expected fallback %q, got %q", n, want, result.NextQuestion)
		}
	}

	result, err := a.SubmitAnswer(context.Background(), token, "Q8?", "answer")
	if err != nil {
		t.Fatalf("SubmitAnswer 8: %v", err)
	}
	if !result.Completed {
		t.Fatalf("expected completion on answer 8")
	}
}

func TestFinalize_BeforeCompletedRejected(t *testing.T) {
	a := newTestAssessor(t, newFakeSessionRepo(), &scriptedAdapter{}, &stubRenderer{})

	session, err := a.StartAssessment("cv.pdf", "text")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	if _, err := a.Finalize(context.Background(), session.Token); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for created session, got %v", err)
	}

	if _, err := a.AnalyzeAndOpen(context.Background(), session.Token); err != nil {
		t.Fatalf("AnalyzeAndOpen: %v", err)
	}
	if _, err := a.Finalize(context.Background(), session.Token); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for in_progress session, got %v", err)
	}
}

func TestFinalize_RendererFailureSurfacesAndIsRetryable(t *testing.T) {
	repo := newFakeSessionRepo()
	renderer := &stubRenderer{fail: true}
	a := newTestAssessor(t, repo, &scriptedAdapter{}, renderer)
	token := startOpenSession(t, a)
	completeSession(t, a, token)

	if _, err := a.Finalize(context.Background(), token); !errors.Is(err, models.ErrReportGeneration) {
		t.Fatalf("expected ErrReportGeneration, got %v", err)
	}

	// Q&A data survives the failure and the retry succeeds
	renderer.fail = false
	result, err := a.Finalize(context.Background(), token)
	if err != nil {
		t.Fatalf("Finalize retry: %v", err)
	}
	if result.ReportFileName == "" {
		t.Fatalf("expected a report filename")
	}

	stored, _ := repo.FindByToken(token)
	history, _ := stored.History()
	if len(history) != 8 {
		t.Fatalf("history changed across finalize calls: %d entries", len(history))
	}
}

func TestFinalize_IdempotentOverSessionData(t *testing.T) {
	repo := newFakeSessionRepo()
	a := newTestAssessor(t, repo, &scriptedAdapter{}, &stubRenderer{})
	token := startOpenSession(t, a)
	completeSession(t, a, token)

	before, _ := repo.FindByToken(token)

	first, err := a.Finalize(context.Background(), token)
	if err != nil {
		t.Fatalf("Finalize 1: %v", err)
	}
	second, err := a.Finalize(context.Background(), token)
	if err != nil {
		t.Fatalf("Finalize 2: %v", err)
	}

	if first.ReportFileName == "" || second.ReportFileName == "" {
		t.Fatalf("expected artifact handles from both calls")
	}

	after, _ := repo.FindByToken(token)
	if before.QAHistory != after.QAHistory {
		t.Fatalf("qa history changed across finalize calls")
	}
	if before.CVAnalysis != after.CVAnalysis {
		t.Fatalf("cv analysis changed across finalize calls")
	}
}

func TestEndToEnd_AllAdapterCallsFail(t *testing.T) {
	repo := newFakeSessionRepo()
	renderer := &stubRenderer{}
	dir := t.TempDir()
	storage := NewStorageService(dir, dir, dir)
	if err := storage.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	a := NewAssessorService(repo, failingAdapter{}, renderer, storage, 8)

	session, err := a.StartAssessment("cv.pdf", "cv text")
	if err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	token := session.Token

	open, err := a.AnalyzeAndOpen(context.Background(), token)
	if err != nil {
		t.Fatalf("AnalyzeAndOpen: %v", err)
	}

	question := open.FirstQuestion
	for n := 1; n <= 8; n++ {
		result, err := a.SubmitAnswer(context.Background(), token, question, fmt.Sprintf("answer %d", n))
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", n, err)
		}
		if result.Completed {
			if n != 8 {
				t.Fatalf("completed early at %d", n)
			}
			break
		}
		question = result.NextQuestion
	}

	final, err := a.Finalize(context.Background(), token)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !strings.Contains(final.Summary, "8 interview questions") {
		t.Fatalf("expected templated fallback summary, got %q", final.Summary)
	}

	if _, err := os.Stat(storage.ReportPath(final.ReportFileName)); err != nil {
		t.Fatalf("expected report artifact on disk: %v", err)
	}

	stored, _ := repo.FindByToken(token)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}

func TestConcurrentSubmitAnswer_LastSlot(t *testing.T) {
	repo := newFakeSessionRepo()
	a := newTestAssessor(t, repo, &scriptedAdapter{}, &stubRenderer{})
	token := startOpenSession(t, a)

	for n := 1; n <= 7; n++ {
		if _, err := a.SubmitAnswer(context.Background(), token, fmt.Sprintf("Q%d?", n), "answer"); err != nil {
			t.Fatalf("SubmitAnswer %d: %v", n, err)
		}
	}

	type outcome struct {
		result *NextStep
		err    error
	}
	outcomes := make(chan outcome, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := a.SubmitAnswer(context.Background(), token, "Q8?", fmt.Sprintf("racing answer %d", i))
			outcomes <- outcome{result, err}
		}(i)
	}
	wg.Wait()
	close(outcomes)

	var finished, rejected int
	for o := range outcomes {
		switch {
		case o.err == nil && o.result.Completed:
			finished++
		case errors.Is(o.err, models.ErrInvalidState):
			rejected++
		default:
			t.Fatalf("unexpected outcome: result=%+v err=%v", o.result, o.err)
		}
	}
	if finished != 1 || rejected != 1 {
		t.Fatalf("expected exactly one completion and one rejection, got %d/%d", finished, rejected)
	}

	stored, _ := repo.FindByToken(token)
	history, _ := stored.History()
	if len(history) != 8 {
		t.Fatalf("expected 8 history entries after the race, got %d", len(history))
	}
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
}

func completeSession(t *testing.T, a AssessorService, token string) {
	t.Helper()
	for n := 1; n <= 8; n++ {
		result, err := a.SubmitAnswer(context.Background(), token, fmt.Sprintf("Q%d?", n), "answer")
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", n, err)
		}
		if result.Completed && n != 8 {
			t.Fatalf("completed early at %d", n)
		}
	}
}
