package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"prepmate/api/internal/models"
	"prepmate/api/internal/utils"
)

const (
	verificationTokenTTL = 24 * time.Hour
	passwordResetTTL     = time.Hour
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Users     UserRepository
	Tokens    TokenRepository
	JWTSecret string
	BaseURL   string
	logger    *zap.Logger

	// sendEmail is swapped out in tests
	sendVerification  func(to, token, baseURL string) error
	sendPasswordReset func(to, token, baseURL string) error
}

func NewAuthHandler(users UserRepository, tokens TokenRepository, logger *zap.Logger) *AuthHandler {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev"
	}
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}
	return &AuthHandler{
		Users:             users,
		Tokens:            tokens,
		JWTSecret:         secret,
		BaseURL:           baseURL,
		logger:            logger,
		sendVerification:  utils.SendVerificationEmail,
		sendPasswordReset: utils.SendPasswordResetEmail,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	if existing, _ := h.Users.GetUserByUsername(req.Username); existing != nil {
		http.Error(w, "username taken", http.StatusConflict)
		return
	}
	if existing, _ := h.Users.GetUserByEmail(req.Email); existing != nil {
		http.Error(w, "email taken", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: string(hash)}
	if err := h.Users.CreateUser(user); err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	token := &models.Token{
		UserID:    user.ID,
		Token:     randomToken(),
		Purpose:   models.TokenPurposeAccountVerification,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := h.Tokens.Create(token); err != nil {
		http.Error(w, "failed to create verification token", http.StatusInternalServerError)
		return
	}
	if err := h.sendVerification(user.Email, token.Token, h.BaseURL); err != nil {
		// registration still succeeds; the user can request a resend
		h.logger.Warn("failed to send verification email", zap.Error(err), zap.String("email", user.Email))
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"message":  "Check your inbox to verify your account",
	})
}

func (h *AuthHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	token, err := h.Tokens.GetByToken(tokenStr)
	if err != nil || token.Purpose != models.TokenPurposeAccountVerification {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}
	if time.Now().After(token.ExpiresAt) {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}

	if err := h.Users.MarkVerified(token.UserID); err != nil {
		http.Error(w, "failed to verify account", http.StatusInternalServerError)
		return
	}
	_ = h.Tokens.DeleteByID(token.ID)

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Email verified, you can log in now"})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	user, err := h.Users.GetUserByUsername(req.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Verified {
		http.Error(w, "account not verified", http.StatusForbidden)
		return
	}

	signed, err := utils.IssueToken(user.ID, user.Username, h.JWTSecret)
	if err != nil {
		http.Error(w, "failed to sign token", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, authResponse{Token: signed})
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.VerifyToken(r, h.JWTSecret)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := utils.GetUserIDFromClaims(claims)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetUserByID(parseUserID(userID))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// The response is identical whether or not the email exists.
	user, err := h.Users.GetUserByEmail(req.Email)
	if err == nil {
		_ = h.Tokens.DeleteByUserAndPurpose(user.ID, models.TokenPurposePasswordReset)
		token := &models.Token{
			UserID:    user.ID,
			Token:     randomToken(),
			Purpose:   models.TokenPurposePasswordReset,
			ExpiresAt: time.Now().Add(passwordResetTTL),
		}
		if err := h.Tokens.Create(token); err == nil {
			if err := h.sendPasswordReset(user.Email, token.Token, h.BaseURL); err != nil {
				h.logger.Warn("failed to send reset email", zap.Error(err), zap.String("email", user.Email))
			}
		}
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "If that email is registered, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	token, err := h.Tokens.GetByToken(req.Token)
	if err != nil || token.Purpose != models.TokenPurposePasswordReset {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}
	if time.Now().After(token.ExpiresAt) {
		http.Error(w, "invalid or expired token", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}
	if err := h.Users.UpdatePassword(token.UserID, string(hash)); err != nil {
		http.Error(w, "failed to reset password", http.StatusInternalServerError)
		return
	}
	_ = h.Tokens.DeleteByID(token.ID)

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password updated, you can log in now"})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

func parseUserID(s string) uint {
	var id uint
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
		id = id*10 + uint(ch-'0')
	}
	return id
}
