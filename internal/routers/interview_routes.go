package routers

import (
	"prepmate/api/internal/handlers"
	"prepmate/api/internal/middleware"
	"prepmate/api/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, generationHandler *handlers.GenerationHandler, jwtSecret string) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		// standalone generation endpoints, no session state involved
		r.With(middleware.ValidateRequest[*models.GenerateQuestionRequest]()).Post("/generate-question", generationHandler.GenerateQuestionHandler)
		r.With(middleware.ValidateRequest[*models.EvaluateAnswerRequest]()).Post("/evaluate-answer", generationHandler.EvaluateAnswerHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtSecret))

			r.With(middleware.ValidateRequest[*models.CreateSessionRequest]()).Post("/sessions", interviewHandler.CreateSessionHandler)
			r.Get("/sessions", interviewHandler.ListSessionsHandler)
			r.Get("/sessions/{id}", interviewHandler.GetSessionHandler)
			r.With(middleware.ValidateRequest[*models.AppendQARequest]()).Post("/sessions/{id}/qa", interviewHandler.AppendQAHandler)
			r.With(middleware.ValidateRequest[*models.UpdateSessionRequest]()).Post("/sessions/{id}/update", interviewHandler.UpdateSessionHandler)
			r.Post("/sessions/{id}/end", interviewHandler.EndSessionHandler)
			r.Post("/sessions/{id}/summary", interviewHandler.GenerateSummaryHandler)
			r.Get("/progress", interviewHandler.ProgressHandler)
		})
	})
}
