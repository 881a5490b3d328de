package services

import (
	"strings"
	"testing"
	"time"

	"github.com/sira-labs/voice-assessment/internal/models"
)

func testAnalysis() *models.CVAnalysis {
	return &models.CVAnalysis{
		Summary:         "Platform engineer",
		KeySkills:       []string{"Go", "Terraform"},
		ExperienceYears: 6,
		CareerStage:     "Senior",
	}
}

func TestBuildAnalysisPrompt_IncludesCVText(t *testing.T) {
	pb := NewPromptBuilder()
	prompt := pb.BuildAnalysisPrompt("John Smith, SRE at Example Corp")

	if !strings.Contains(prompt, "John Smith, SRE at Example Corp") {
		t.Fatalf("prompt missing cv text")
	}
	for _, field := range []string{"summary", "key_skills", "experience_years", "career_stage", "notable_achievements", "potential_areas_for_growth"} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("prompt missing field name %q", field)
		}
	}
}

func TestBuildFollowupPrompt_ThreadsHistory(t *testing.T) {
	pb := NewPromptBuilder()
	history := []models.QARecord{
		{Question: "First question?", Answer: "First answer.", AskedAt: time.Now()},
		{Question: "Second question?", Answer: "Second answer.", AskedAt: time.Now()},
	}

	prompt := pb.BuildFollowupPrompt(testAnalysis(), history)

	// The last exchange anchors the prompt and the full transcript follows
	if !strings.Contains(prompt, "Q: Second question?\nA: Second answer.") {
		t.Fatalf("prompt missing most recent exchange")
	}
	if !strings.Contains(prompt, "First question?") {
		t.Fatalf("prompt missing earlier transcript entries")
	}
	if !strings.Contains(prompt, "Platform engineer") {
		t.Fatalf("prompt missing candidate profile")
	}
}

func TestBuildFinalSummaryPrompt_IncludesAnalysisAndTranscript(t *testing.T) {
	pb := NewPromptBuilder()
	history := []models.QARecord{
		{Question: "Only question?", Answer: "Only answer.", AskedAt: time.Now()},
	}

	prompt := pb.BuildFinalSummaryPrompt(testAnalysis(), history)

	if !strings.Contains(prompt, "Go, Terraform") {
		t.Fatalf("prompt missing key skills")
	}
	if !strings.Contains(prompt, "Q: Only question?\nA: Only answer.") {
		t.Fatalf("prompt missing transcript")
	}
}

func TestFormatTranscript_Empty(t *testing.T) {
	if got := FormatTranscript(nil); got != "No questions asked yet." {
		t.Fatalf("unexpected empty transcript rendering: %q", got)
	}
}
