package handlers

import (
	"time"

	"prepmate/api/internal/models"
)

// UserRepository captures the persistence operations required by handlers.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	MarkVerified(userID uint) error
	UpdatePassword(userID uint, passwordHash string) error
	DeleteUser(userID uint) error
}

// TokenRepository captures the token persistence operations required by handlers.
type TokenRepository interface {
	Create(token *models.Token) error
	GetByToken(tokenStr string) (*models.Token, error)
	GetByUserAndPurpose(userID uint, purpose models.TokenPurpose) (*models.Token, error)
	DeleteByID(id uint) error
	DeleteByUserAndPurpose(userID uint, purpose models.TokenPurpose) error
	DeleteExpired(before time.Time) (int64, error)
}
