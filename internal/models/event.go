package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance statuses
const (
	AttendanceAttending = "attending"
	AttendanceMaybe     = "maybe"
	AttendanceDeclined  = "declined"
)

// Event represents a community-scoped gathering
type Event struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	CommunityID string `gorm:"type:uuid;not null;index" json:"community_id"`
	CreatedBy   string `gorm:"type:uuid;index" json:"created_by"`

	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Organizer *User     `gorm:"foreignKey:CreatedBy" json:"organizer,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:text" json:"location"`

	StartTime time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = generateUUID()
	}
	return nil
}

// EventAttendance records a user's RSVP for an event
type EventAttendance struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	EventID string `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendances_unique" json:"event_id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendances_unique" json:"user_id"`

	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status string `gorm:"not null;default:attending;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *EventAttendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = generateUUID()
	}
	return nil
}
