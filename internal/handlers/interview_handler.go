package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"prepmate/api/internal/interview"
	"prepmate/api/internal/llm"
	"prepmate/api/internal/middleware"
	"prepmate/api/internal/models"
	"prepmate/api/internal/utils"
)

type InterviewHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewInterviewHandler(service *interview.Service, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{service: service, logger: logger}
}

func (h *InterviewHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateSessionRequest](r)
	userID := middleware.GetAuthUserID(r)

	session, err := h.service.CreateSession(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to create session")
		return
	}
	utils.JSON(w, http.StatusCreated, session)
}

func (h *InterviewHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r)

	sessions, err := h.service.GetUserSessions(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "failed to list sessions")
		return
	}
	utils.JSON(w, http.StatusOK, sessions)
}

func (h *InterviewHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r)
	sessionID := chi.URLParam(r, "id")

	session, err := h.service.GetSession(r.Context(), sessionID, userID)
	if err != nil {
		h.writeError(w, r, err, "failed to load session")
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *InterviewHandler) AppendQAHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AppendQARequest](r)
	userID := middleware.GetAuthUserID(r)
	sessionID := chi.URLParam(r, "id")

	session, err := h.service.AppendQuestionAnswer(r.Context(), sessionID, userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to record question and answer")
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *InterviewHandler) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateSessionRequest](r)
	userID := middleware.GetAuthUserID(r)
	sessionID := chi.URLParam(r, "id")

	session, err := h.service.UpdateSession(r.Context(), sessionID, userID, req)
	if err != nil {
		h.writeError(w, r, err, "failed to update session")
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *InterviewHandler) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r)
	sessionID := chi.URLParam(r, "id")

	result, err := h.service.EndSession(r.Context(), sessionID, userID)
	if err != nil {
		h.writeError(w, r, err, "failed to end session")
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) GenerateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r)
	sessionID := chi.URLParam(r, "id")

	summary, err := h.service.GenerateSummary(r.Context(), sessionID, userID)
	if err != nil {
		h.writeError(w, r, err, "failed to generate summary")
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *InterviewHandler) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetAuthUserID(r)

	progress, err := h.service.ComputeProgress(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "failed to compute progress")
		return
	}
	utils.JSON(w, http.StatusOK, progress)
}

// writeError maps service errors to responses: validation errors to 400,
// unavailable sessions to 404 (ownership mismatches included, so existence
// is never confirmed to non-owners), provider failures to 502, the rest
// to 500.
func (h *InterviewHandler) writeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var validationErr *models.ErrorResponse
	if errors.As(err, &validationErr) {
		utils.JSON(w, http.StatusBadRequest, *validationErr)
		return
	}

	if errors.Is(err, interview.ErrSessionUnavailable) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "Session not found",
		})
		return
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		h.logger.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "generation_failed",
			Message: "Failed to generate AI content",
		})
		return
	}

	h.logger.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Code:    "internal_error",
		Message: "Something went wrong",
	})
}
