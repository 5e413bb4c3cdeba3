package models

import (
	"time"

	"gorm.io/gorm"
)

// DirectMessage is a private message between two users. Messages are
// soft-deleted; ReadAt stays nil until the recipient opens the thread.
type DirectMessage struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	SenderID    string `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID string `gorm:"type:uuid;not null;index" json:"recipient_id"`

	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`

	Content string     `gorm:"type:text;not null" json:"content"`
	ReadAt  *time.Time `gorm:"index" json:"read_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *DirectMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}
