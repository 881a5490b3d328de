package services

import (
	"fmt"
	"strings"

	"github.com/sira-labs/voice-assessment/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the prompt for structured CV analysis
func (pb *PromptBuilder) BuildAnalysisPrompt(cvText string) string {
	return fmt.Sprintf(`You are an expert career assessment professional. Analyze the CV content provided and deliver a complete analysis.

Extract and assess:
1. Professional summary
2. Key skills and competencies
3. Years of experience (estimate if not explicit)
4. Career stage (entry-level, mid-level, senior, executive)
5. Notable achievements and accomplishments
6. Potential areas of professional growth

Return your analysis as valid JSON with the following fields:
- summary: A concise professional summary
- key_skills: List of primary skills
- experience_years: Estimated years of experience
- career_stage: Career level assessment
- notable_achievements: Key accomplishments
- potential_areas_for_growth: Areas to develop

CV CONTENT:
%s`, cvText)
}

// BuildFirstQuestionPrompt creates the prompt for the opening question
func (pb *PromptBuilder) BuildFirstQuestionPrompt(analysis *models.CVAnalysis) string {
	return fmt.Sprintf(`Based on this CV analysis, generate an engaging opening question for a professional assessment interview.

CV ANALYSIS:
Summary: %s
Career stage: %s
Key skills: %s

Generate a thoughtful, personalized question that:
1. Acknowledges their current professional situation
2. Explores their career aspirations or motivations
3. Has a conversational, engaging tone
4. Encourages a detailed reflection

Return ONLY the question text, no extra formatting.`,
		analysis.Summary,
		analysis.CareerStage,
		strings.Join(analysis.KeySkills, ", "))
}

// BuildFollowupPrompt creates the prompt for the next interview question.
// The most recent exchange anchors the question; the full transcript is
// included so coverage stays balanced across topics instead of drilling
// into a single thread.
func (pb *PromptBuilder) BuildFollowupPrompt(analysis *models.CVAnalysis, history []models.QARecord) string {
	var lastExchange string
	if len(history) > 0 {
		last := history[len(history)-1]
		lastExchange = fmt.Sprintf("Q: %s\nA: %s", last.Question, last.Answer)
	}

	return fmt.Sprintf(`You are conducting a structured professional assessment interview. You ask one question at a time, building on:
- The last question asked
- The answer received
- The thread of the interview so far

Your goal is to cover all key professional dimensions, not only to deepen a single topic. Keep a balance between:
1. Following up on something the candidate mentioned, when relevant
2. Opening a dimension not yet covered (career progression, skills, leadership, motivation, working style, goals)

Criteria for your next question:
- Useful for the final assessment report
- Not redundant with earlier questions
- Surfaces a key fact about how the candidate works or what they aim for
- Phrased naturally and conversationally

CANDIDATE PROFILE:
Summary: %s
Career stage: %s

MOST RECENT EXCHANGE:
%s

FULL TRANSCRIPT SO FAR:
%s

What is the next relevant, balanced question you ask? Return ONLY the question text.`,
		analysis.Summary,
		analysis.CareerStage,
		lastExchange,
		FormatTranscript(history))
}

// BuildFinalSummaryPrompt creates the prompt for the closing assessment report
func (pb *PromptBuilder) BuildFinalSummaryPrompt(analysis *models.CVAnalysis, history []models.QARecord) string {
	return fmt.Sprintf(`You are an expert career development consultant. You have just conducted a structured assessment interview. Based on the candidate's CV analysis and their complete answers, generate a personalized assessment report.

The report must:
- Identify the candidate's strengths and areas to develop
- Offer concrete, realistic recommendations for professional growth
- Be structured in clear sections: 1. Executive Summary 2. Assessment 3. Recommendations 4. Priority Actions
- Use markdown headings (##, ###) and bullet lists (* )
- Keep a professional, encouraging, results-oriented tone
- Rely only on the answers given, with no unsupported speculation

CV ANALYSIS:
Summary: %s
Career stage: %s
Years of experience: %d
Key skills: %s

COMPLETE INTERVIEW TRANSCRIPT:
%s

Generate the structured report now, following the guidelines above.`,
		analysis.Summary,
		analysis.CareerStage,
		analysis.ExperienceYears,
		strings.Join(analysis.KeySkills, ", "),
		FormatTranscript(history))
}

// FormatTranscript renders the ordered Q&A history as plain text
func FormatTranscript(history []models.QARecord) string {
	if len(history) == 0 {
		return "No questions asked yet."
	}

	var parts []string
	for _, qa := range history {
		parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", qa.Question, qa.Answer))
	}

	return strings.Join(parts, "\n\n")
}
