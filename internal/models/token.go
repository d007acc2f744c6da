package models

import (
	"time"

	"gorm.io/gorm"
)

type TokenPurpose string

const (
	TokenPurposeAccountVerification TokenPurpose = "account_verification"
	TokenPurposePasswordReset       TokenPurpose = "password_reset"
)

// Token is a single-use, purpose-scoped token emailed to a user for
// account verification or password reset.
type Token struct {
	gorm.Model
	UserID    uint         `gorm:"not null;index" json:"userId"`
	Token     string       `gorm:"unique;not null" json:"-"`
	Purpose   TokenPurpose `gorm:"not null;index" json:"purpose"`
	ExpiresAt time.Time    `gorm:"not null" json:"expiresAt"`
}
