package services

import (
	"strings"
	"testing"
	"time"
)

func TestFallbackQuestion_ClampsIndex(t *testing.T) {
	last := fallbackQuestions[len(fallbackQuestions)-1]

	for n := 1; n <= 8; n++ {
		got := FallbackQuestion(n)
		wantIdx := n
		if wantIdx > len(fallbackQuestions)-1 {
			wantIdx = len(fallbackQuestions) - 1
		}
		if got != fallbackQuestions[wantIdx] {
			t.Fatalf("n=%d: expected %q, got %q", n, fallbackQuestions[wantIdx], got)
		}
	}

	// Past the list end the clamp holds
	if got := FallbackQuestion(100); got != last {
		t.Fatalf("expected last fallback question, got %q", got)
	}
	if got := FallbackQuestion(-3); got != fallbackQuestions[0] {
		t.Fatalf("expected first fallback question, got %q", got)
	}
}

func TestFallbackQuestion_Deterministic(t *testing.T) {
	for n := 0; n < len(fallbackQuestions); n++ {
		if FallbackQuestion(n) != FallbackQuestion(n) {
			t.Fatalf("fallback question %d is not stable", n)
		}
	}
}

func TestDefaultAnalysis_Shape(t *testing.T) {
	analysis := DefaultAnalysis()

	if analysis.Summary == "" || analysis.CareerStage == "" {
		t.Fatalf("default analysis missing text fields: %+v", analysis)
	}
	if analysis.ExperienceYears != 5 {
		t.Fatalf("expected default experience years 5, got %d", analysis.ExperienceYears)
	}
	if len(analysis.KeySkills) == 0 || len(analysis.NotableAchievements) == 0 || len(analysis.PotentialAreasForGrowth) == 0 {
		t.Fatalf("default analysis missing list fields: %+v", analysis)
	}
}

func TestFallbackSummary_ReportsCountAndTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	summary := FallbackSummary(8, at)

	if !strings.Contains(summary, "8 interview questions") {
		t.Fatalf("summary missing question count: %q", summary)
	}
	if !strings.Contains(summary, "14 March 2026 at 09:26") {
		t.Fatalf("summary missing timestamp: %q", summary)
	}
	if !strings.Contains(summary, "## Professional Assessment Summary") {
		t.Fatalf("summary missing heading markup: %q", summary)
	}
}
