package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sira-labs/voice-assessment/internal/models"
	"github.com/sira-labs/voice-assessment/internal/services"
)

type AssessmentHandler struct {
	assessor services.AssessorService
}

func NewAssessmentHandler(assessor services.AssessorService) *AssessmentHandler {
	return &AssessmentHandler{assessor: assessor}
}

// HandleAnalyze handles POST /sessions/:token/analyze: runs the CV analysis
// and returns it together with the opening question.
func (h *AssessmentHandler) HandleAnalyze(c *fiber.Ctx) error {
	token := c.Params("token")

	result, err := h.assessor.AnalyzeAndOpen(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.AnalyzeResponse{
		CVAnalysis:    result.Analysis,
		FirstQuestion: result.FirstQuestion,
		Status:        string(models.StatusInProgress),
	})
}

// HandleSubmitAnswer handles POST /sessions/:token/answers: records one
// answer and returns either the next question or completion.
func (h *AssessmentHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	token := c.Params("token")

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	result, err := h.assessor.SubmitAnswer(c.Context(), token, req.Question, req.Answer)
	if err != nil {
		return respondError(c, err)
	}

	if result.Completed {
		return c.JSON(models.AnswerResponse{
			Completed: true,
			Message:   "Assessment completed successfully!",
		})
	}

	return c.JSON(models.AnswerResponse{
		NextQuestion:   result.NextQuestion,
		QuestionNumber: result.QuestionNumber,
	})
}

// HandleStatus handles GET /sessions/:token
func (h *AssessmentHandler) HandleStatus(c *fiber.Ctx) error {
	token := c.Params("token")

	session, err := h.assessor.Status(token)
	if err != nil {
		return respondError(c, err)
	}

	history, err := session.History()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SessionStatusResponse{
		SessionToken:   session.Token,
		Status:         string(session.Status),
		CVFilename:     session.CVFileName,
		TotalQuestions: len(history),
		HasCVAnalysis:  session.CVAnalysis != "",
	})
}
