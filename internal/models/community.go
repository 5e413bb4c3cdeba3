package models

import (
	"time"

	"gorm.io/gorm"
)

// Member roles within a community
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Community represents a neighborhood or interest group
type Community struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:text" json:"location"`
	AvatarURL   string `json:"avatar_url"`

	CreatedBy string `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User  `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	MemberCount int `gorm:"default:0" json:"member_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

// CommunityMember joins users to communities
type CommunityMember struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	CommunityID string `gorm:"type:uuid;not null;uniqueIndex:idx_community_members_unique" json:"community_id"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_community_members_unique" json:"user_id"`

	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Role string `gorm:"default:member" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *CommunityMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}
