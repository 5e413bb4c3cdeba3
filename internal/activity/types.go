package activity

import (
	"time"
)

// Type identifies which source family an activity item came from
type Type string

const (
	// Personal feed types
	TypeEventUpcoming    Type = "event_upcoming"
	TypeResourcePending  Type = "resource_pending"
	TypeResourceAccepted Type = "resource_accepted"
	TypeShoutoutPending  Type = "shoutout_pending"
	TypeMessageUnread    Type = "message_unread"

	// Community feed types
	TypeResourceCreated Type = "resource_created"
	TypeEventCreated    Type = "event_created"
	TypeThanksGiven     Type = "thanks_given"
	TypeUserJoined      Type = "user_joined"
)

// Urgency is a coarse time-decay tier. Each source family classifies
// against its own time window; see urgency.go.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencySoon   Urgency = "soon"
	UrgencyNormal Urgency = "normal"
)

// rank orders urgencies for sorting: urgent < soon < normal
func (u Urgency) rank() int {
	switch u {
	case UrgencyUrgent:
		return 0
	case UrgencySoon:
		return 1
	default:
		return 2
	}
}

// Section is a named partition of the personal feed, computed by
// predicate at request time, never stored.
type Section string

const (
	SectionAttention  Section = "attention"
	SectionInProgress Section = "in_progress"
	SectionUpcoming   Section = "upcoming"
	SectionHistory    Section = "history"
)

// ValidSection reports whether s names a known section
func ValidSection(s Section) bool {
	switch s {
	case SectionAttention, SectionInProgress, SectionUpcoming, SectionHistory:
		return true
	}
	return false
}

// Item is a single unit of feed content. It is a read-time projection
// merged from several tables and is never persisted.
//
// Exactly one of the metadata pointers is set, matching Type.
type Item struct {
	ID          string     `json:"id"` // always "{type}_{entity_id}"
	Type        Type       `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Urgency     Urgency    `json:"urgency_level"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	EntityID    string     `json:"entity_id"`
	CommunityID string     `json:"community_id"` // empty for direct messages
	CreatedAt   time.Time  `json:"created_at"`

	Event    *EventMetadata    `json:"event,omitempty"`
	Resource *ResourceMetadata `json:"resource,omitempty"`
	Shoutout *ShoutoutMetadata `json:"shoutout,omitempty"`
	Message  *MessageMetadata  `json:"message,omitempty"`
	Member   *MemberMetadata   `json:"member,omitempty"`
}

// itemID builds the composite feed id, unique within one feed generation
func itemID(t Type, entityID string) string {
	return string(t) + "_" + entityID
}

// EventMetadata carries event-specific fields
type EventMetadata struct {
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Location      string     `json:"location"`
	OrganizerID   string     `json:"organizer_id,omitempty"`
	OrganizerName string     `json:"organizer_name,omitempty"`
}

// ResourceMetadata carries resource-specific fields
type ResourceMetadata struct {
	OwnerID        string `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
	Kind           string `json:"kind"`
	ResponseStatus string `json:"response_status,omitempty"`
}

// ShoutoutMetadata carries shoutout-specific fields. The Owner fields
// are set for shoutout_pending items; the From/To pairs for
// thanks_given items in the community feed.
type ShoutoutMetadata struct {
	OwnerID       string    `json:"owner_id,omitempty"`
	OwnerName     string    `json:"owner_name,omitempty"`
	ResourceTitle string    `json:"resource_title,omitempty"`
	CompletedAt   time.Time `json:"completed_at,omitzero"`
	FromUserID    string    `json:"from_user_id,omitempty"`
	FromUserName  string    `json:"from_user_name,omitempty"`
	ToUserID      string    `json:"to_user_id,omitempty"`
	ToUserName    string    `json:"to_user_name,omitempty"`
}

// MessageMetadata carries direct-message fields
type MessageMetadata struct {
	SenderID      string `json:"sender_id"`
	SenderName    string `json:"sender_name"`
	RecipientID   string `json:"recipient_id,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}

// MemberMetadata carries community-membership fields
type MemberMetadata struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Role     string `json:"role,omitempty"`
}

// FeedFilter selects a user's personal feed
type FeedFilter struct {
	UserID       string   `json:"user_id"`
	Section      Section  `json:"section,omitempty"`
	CommunityIDs []string `json:"community_ids,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// CommunityFeedFilter selects the community-wide feed.
// Page is 1-based; pagination is applied after sorting.
type CommunityFeedFilter struct {
	CommunityID string     `json:"community_id,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
	Types       []Type     `json:"types,omitempty"`
	Page        int        `json:"page,omitempty"`
	PageSize    int        `json:"page_size,omitempty"`
	Since       *time.Time `json:"since,omitempty"`
}
