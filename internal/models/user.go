package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the only account record. Token columns are nullable and unique so
// a consumed token (NULL) never collides and a live one can never be shared.
type User struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string     `gorm:"size:255;not null" json:"name"`
	Email                string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone                string     `gorm:"size:50;not null" json:"phone"`
	Password             string     `gorm:"not null" json:"-"`
	Role                 string     `gorm:"size:20;not null;default:'user'" json:"role"`
	IsVerified           bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken    *string    `gorm:"size:64;uniqueIndex" json:"-"`
	PasswordResetToken   *string    `gorm:"size:64;uniqueIndex" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
