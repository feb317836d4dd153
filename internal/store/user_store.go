package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserStore is the persistence adapter for accounts. The token transitions
// are conditional single-statement updates; a false result means the
// condition did not match any row.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetProfile loads a user without the credential and token columns.
func (s *UserStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Select("id", "name", "phone", "email", "role", "is_verified", "created_at", "updated_at").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ConsumeVerificationToken marks the owner of token verified and clears the
// token in the same statement.
func (s *UserStore) ConsumeVerificationToken(ctx context.Context, token string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_token = ?", token).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *UserStore) SetPasswordReset(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_reset_token":   token,
			"password_reset_expires": expires,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ConsumePasswordReset replaces the password hash of the user holding token,
// provided the token has not expired at now, and clears both reset columns.
func (s *UserStore) ConsumePasswordReset(ctx context.Context, token, passwordHash string, now time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("password_reset_token = ? AND password_reset_expires > ?", token, now).
		Updates(map[string]interface{}{
			"password":               passwordHash,
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
