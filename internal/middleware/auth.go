package middleware

import (
	"context"
	"net/http"

	"prepmate/api/internal/models"
	"prepmate/api/internal/utils"
)

const authUserIDKey contextKey = "auth_user_id"

// RequireAuth validates the bearer token and stores the authenticated
// user id in the request context. Every interview endpoint sits behind
// this; the standalone generation endpoints do not.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: "Missing or invalid access token",
				})
				return
			}

			userID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Code:    "unauthorized",
					Message: "Missing or invalid access token",
				})
				return
			}

			ctx := context.WithValue(r.Context(), authUserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthUserID returns the authenticated user id stored by RequireAuth.
func GetAuthUserID(r *http.Request) string {
	if id, ok := r.Context().Value(authUserIDKey).(string); ok {
		return id
	}
	return ""
}
