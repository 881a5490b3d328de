package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sira-labs/voice-assessment/internal/models"
)

func TestPDFReportRenderer_WritesArtifact(t *testing.T) {
	renderer := NewPDFReportRenderer()
	outputPath := filepath.Join(t.TempDir(), "assessment_report_test.pdf")

	analysis := &models.CVAnalysis{
		Summary:         "Backend engineer with platform experience",
		KeySkills:       []string{"Go", "PostgreSQL", "Kubernetes"},
		ExperienceYears: 7,
		CareerStage:     "Senior",
	}
	history := []models.QARecord{
		{Question: "What drives you?", Answer: "Building reliable systems.", AskedAt: time.Now()},
		{Question: "Biggest challenge?", Answer: "A **painful** migration.", AskedAt: time.Now()},
	}
	summary := "## Executive Summary\nStrong candidate with **clear** strengths.\n\n### Highlights\n* Communicates well\n* Owns outcomes\n---\nClosing *remarks* here."

	if err := renderer.Render(analysis, history, summary, outputPath); err != nil {
		t.Fatalf("Render: %v", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		t.Fatalf("expected artifact file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("artifact file is empty")
	}
}

func TestPDFReportRenderer_EmptyHistoryAndSummary(t *testing.T) {
	renderer := NewPDFReportRenderer()
	outputPath := filepath.Join(t.TempDir(), "report.pdf")

	analysis := &models.CVAnalysis{Summary: "Generalist"}

	if err := renderer.Render(analysis, nil, "", outputPath); err != nil {
		t.Fatalf("Render with empty inputs: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected artifact file: %v", err)
	}
}

func TestParseInline_BoldAndItalic(t *testing.T) {
	runs := parseInline("plain **bold** and *italic* end")

	want := []inlineRun{
		{text: "plain ", style: ""},
		{text: "bold", style: "B"},
		{text: " and ", style: ""},
		{text: "italic", style: "I"},
		{text: " end", style: ""},
	}

	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(runs), runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("run %d: expected %+v, got %+v", i, want[i], runs[i])
		}
	}
}

func TestParseInline_NoMarkers(t *testing.T) {
	runs := parseInline("just text")
	if len(runs) != 1 || runs[0].text != "just text" || runs[0].style != "" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestParseInline_UnbalancedMarkerStylesRest(t *testing.T) {
	runs := parseInline("before **after")
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %+v", runs)
	}
	if runs[1].style != "B" || runs[1].text != "after" {
		t.Fatalf("expected trailing bold run, got %+v", runs[1])
	}
}
