package repositories

import (
	"errors"

	"prepmate/api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrVersionConflict means a concurrent writer updated the session
	// between our read and write. Callers reload and retry.
	ErrVersionConflict = errors.New("session version conflict")
)

type SessionRepository struct {
	DB *gorm.DB
}

func (r *SessionRepository) Create(session *models.InterviewSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) GetByID(sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.DB.First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetByUserID(userID string) ([]models.InterviewSession, error) {
	// non-nil so an empty result serializes as [] rather than null
	sessions := []models.InterviewSession{}
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// CompareAndSave writes the session only if no other writer bumped its
// version since it was read. The caller passes the version observed at
// read time; on success the stored version is expectedVersion+1.
func (r *SessionRepository) CompareAndSave(session *models.InterviewSession, expectedVersion int) error {
	session.Version = expectedVersion + 1

	result := r.DB.Model(&models.InterviewSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
