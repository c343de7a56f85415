package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
)

const minPasswordLength = 6

// userService handles the local credential store.
type userService struct {
	m *database.Manager
}

// NewUserService creates a new UserServicer.
func NewUserService(m *database.Manager) UserServicer {
	return &userService{m: m}
}

func (s *userService) db() *gorm.DB { return s.m.DB() }

// HasAnyUser reports whether the credential store has been initialized.
func (s *userService) HasAnyUser() (bool, error) {
	var count int64
	if err := s.db().Model(&models.User{}).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required")
	}
	if len(password) < minPasswordLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Password must be at least 6 characters")
	}
	return nil
}

// CreateUser hashes the password and inserts a new user.
func (s *userService) CreateUser(username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
	}
	if err := s.db().Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// SetupInitialUser creates the first user. It refuses to run once any user
// exists so the setup endpoint cannot be replayed.
func (s *userService) SetupInitialUser(username, password string) (*models.User, error) {
	exists, err := s.HasAnyUser()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrUserAlreadySetUp
	}
	return s.CreateUser(username, password)
}

// AttemptLogin verifies the username/password pair against the stored hash.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	var user models.User
	err := s.db().Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *userService) ChangePassword(username, oldPassword, newPassword string) error {
	user, err := s.AttemptLogin(username, oldPassword)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := s.db().Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", string(hash))
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return nil
}
