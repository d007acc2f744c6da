package routers

import (
	"prepmate/api/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler)       // User registration
		r.Get("/verify-email", authHandler.VerifyEmailHandler) // Email verification
		r.Post("/login", authHandler.LoginHandler)             // User login
		r.Post("/logout", authHandler.LogoutHandler)
		r.Get("/me", authHandler.MeHandler) // Current user
		r.Post("/forgot-password", authHandler.ForgotPasswordHandler)
		r.Post("/reset-password", authHandler.ResetPasswordHandler)
	})
}
