package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a Gatherly member account
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`

	// Display fields. FullName is preferred for display, Name is the short
	// handle some accounts set instead. Both may be empty on old accounts.
	FullName string `json:"full_name"`
	Name     string `json:"name"`

	Bio       string `gorm:"type:text" json:"bio"`
	Location  string `gorm:"type:text" json:"location"`
	AvatarURL string `json:"avatar_url"`

	PasswordHash *string `gorm:"type:text" json:"-"`
	IsAdmin      bool    `gorm:"default:false" json:"is_admin"`

	LastActiveAt *time.Time `json:"last_active_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the caller didn't supply one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}
