package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"prepmate/api/internal/interview"
	"prepmate/api/internal/llm"
	"prepmate/api/internal/middleware"
	"prepmate/api/internal/models"
	"prepmate/api/internal/utils"
)

// GenerationHandler serves the standalone question-generation and
// answer-evaluation endpoints. These do not touch session state; the
// client records results on a session via the interview endpoints.
type GenerationHandler struct {
	generator *interview.Generator
	logger    *zap.Logger
}

func NewGenerationHandler(generator *interview.Generator, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generator: generator, logger: logger}
}

func (h *GenerationHandler) GenerateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateQuestionRequest](r)

	question, err := h.generator.GenerateQuestion(r.Context(), req.JobRole, req.Difficulty, req.Context)
	if err != nil {
		h.writeError(w, err, "failed to generate question")
		return
	}
	utils.JSON(w, http.StatusOK, question)
}

func (h *GenerationHandler) EvaluateAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.EvaluateAnswerRequest](r)

	evaluation, err := h.generator.EvaluateAnswer(r.Context(), req.Question, req.Answer, req.JobRole)
	if err != nil {
		h.writeError(w, err, "failed to evaluate answer")
		return
	}
	utils.JSON(w, http.StatusOK, evaluation)
}

func (h *GenerationHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		h.logger.Error(logMsg, zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "generation_failed",
			Message: "Failed to generate AI content",
		})
		return
	}

	h.logger.Error(logMsg, zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "internal_error",
		Message: "Something went wrong",
	})
}
