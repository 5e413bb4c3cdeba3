package models

import (
	"time"

	"gorm.io/gorm"
)

// Resource kinds
const (
	ResourceOffer   = "offer"
	ResourceRequest = "request"
)

// Resource response statuses
const (
	ResponsePending   = "pending"
	ResponseAccepted  = "accepted"
	ResponseCompleted = "completed"
	ResponseDeclined  = "declined"
)

// Resource represents an offer of, or request for, help within a community
type Resource struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	CommunityID string `gorm:"type:uuid;not null;index" json:"community_id"`
	OwnerID     string `gorm:"type:uuid;not null;index" json:"owner_id"`

	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Kind        string `gorm:"not null;default:offer" json:"kind"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"default:open" json:"status"` // open, fulfilled, closed

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	return nil
}

// ResourceResponse records a user answering an offer or request
type ResourceResponse struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	ResourceID  string `gorm:"type:uuid;not null;index" json:"resource_id"`
	ResponderID string `gorm:"type:uuid;not null;index" json:"responder_id"`

	Resource  Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Responder User     `gorm:"foreignKey:ResponderID" json:"responder,omitempty"`

	Status  string `gorm:"not null;default:pending;index" json:"status"`
	Message string `gorm:"type:text" json:"message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ResourceResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = generateUUID()
	}
	return nil
}
