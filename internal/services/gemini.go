package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sira-labs/voice-assessment/internal/models"
)

// AnalysisAdapter is the contract against the generative AI service. All
// four operations may fail; the orchestrator substitutes fixed fallback
// values and never lets an adapter error escape.
type AnalysisAdapter interface {
	AnalyzeCV(ctx context.Context, cvText string) (*models.CVAnalysis, error)
	FirstQuestion(ctx context.Context, analysis *models.CVAnalysis) (string, error)
	FollowupQuestion(ctx context.Context, analysis *models.CVAnalysis, history []models.QARecord) (string, error)
	FinalSummary(ctx context.Context, analysis *models.CVAnalysis, history []models.QARecord) (string, error)
}

type geminiAdapter struct {
	client        *genai.Client
	modelName     string
	promptBuilder *PromptBuilder
	timeout       time.Duration
}

func NewGeminiAdapter(apiKey string, timeout time.Duration) (AnalysisAdapter, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAdapter{
		client:        client,
		modelName:     "gemini-2.5-flash",
		promptBuilder: NewPromptBuilder(),
		timeout:       timeout,
	}, nil
}

// analysisSchema constrains the AnalyzeCV response to the CVAnalysis shape.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":          {Type: genai.TypeString},
		"key_skills":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"experience_years": {Type: genai.TypeInteger},
		"career_stage":     {Type: genai.TypeString},
		"notable_achievements": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"potential_areas_for_growth": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{
		"summary", "key_skills", "experience_years",
		"career_stage", "notable_achievements", "potential_areas_for_growth",
	},
}

// AnalyzeCV implements AnalysisAdapter.
func (g *geminiAdapter) AnalyzeCV(ctx context.Context, cvText string) (*models.CVAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := g.promptBuilder.BuildAnalysisPrompt(cvText)

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze cv: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	analysis, err := models.DecodeCVAnalysis([]byte(extractJSON(text)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	return analysis, nil
}

// FirstQuestion implements AnalysisAdapter.
func (g *geminiAdapter) FirstQuestion(ctx context.Context, analysis *models.CVAnalysis) (string, error) {
	prompt := g.promptBuilder.BuildFirstQuestionPrompt(analysis)
	return g.generateQuestion(ctx, prompt, 0.7)
}

// FollowupQuestion implements AnalysisAdapter.
func (g *geminiAdapter) FollowupQuestion(ctx context.Context, analysis *models.CVAnalysis, history []models.QARecord) (string, error) {
	prompt := g.promptBuilder.BuildFollowupPrompt(analysis, history)
	return g.generateQuestion(ctx, prompt, 0.7)
}

// FinalSummary implements AnalysisAdapter.
func (g *geminiAdapter) FinalSummary(ctx context.Context, analysis *models.CVAnalysis, history []models.QARecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := g.promptBuilder.BuildFinalSummaryPrompt(analysis, history)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.3)),
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate final summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty summary response")
	}

	return text, nil
}

func (g *geminiAdapter) generateQuestion(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: 1024,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate question: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty question response")
	}

	return text, nil
}

// extractJSON strips markdown fences the model sometimes wraps around a
// JSON payload and slices out the outermost object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
