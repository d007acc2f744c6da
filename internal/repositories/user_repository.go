package repositories

import (
	"errors"

	"prepmate/api/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUnverified() ([]models.User, error) {
	var users []models.User
	err := r.DB.Where("verified = ?", false).Find(&users).Error
	return users, err
}

func (r *UserRepository) MarkVerified(userID uint) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("verified", true).Error
}

func (r *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

func (r *UserRepository) DeleteUser(userID uint) error {
	result := r.DB.Delete(&models.User{}, userID)
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return result.Error
}
