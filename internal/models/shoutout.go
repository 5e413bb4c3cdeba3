package models

import (
	"time"

	"gorm.io/gorm"
)

// Shoutout is a public thank-you tied to a completed resource exchange
type Shoutout struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	FromUserID  string `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID    string `gorm:"type:uuid;not null;index" json:"to_user_id"`
	ResourceID  string `gorm:"type:uuid;not null;index" json:"resource_id"`
	CommunityID string `gorm:"type:uuid;index" json:"community_id"`

	FromUser User     `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   User     `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
	Resource Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`

	Message string `gorm:"type:text" json:"message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shoutout) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}
