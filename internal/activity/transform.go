package activity

import (
	"time"

	"github.com/gatherly/backend/internal/models"
)

// maxDescriptionLength caps message previews in the feed
const maxDescriptionLength = 100

// unknownUser is shown when no display field resolves
const unknownUser = "Unknown User"

// Transformers map raw joined rows into feed items. They are pure: the
// clock is passed in, and rows whose joined parent entity failed to
// resolve are dropped rather than emitted with blank fields.

// transformEventRows shapes a user's RSVPs into event_upcoming items
func transformEventRows(rows []models.EventAttendance, now time.Time) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		event := row.Event
		if event.ID == "" {
			// attendance whose event didn't resolve
			continue
		}

		start := event.StartTime
		items = append(items, Item{
			ID:          itemID(TypeEventUpcoming, event.ID),
			Type:        TypeEventUpcoming,
			Title:       event.Title,
			Description: "Event at " + event.Location,
			Urgency:     EventUrgency(now, start),
			DueDate:     &start,
			EntityID:    event.ID,
			CommunityID: event.CommunityID,
			CreatedAt:   row.CreatedAt,
			Event: &EventMetadata{
				StartTime: event.StartTime,
				EndTime:   event.EndTime,
				Location:  event.Location,
			},
		})
	}
	return items
}

// transformResourceRows shapes a user's resource responses into
// resource_pending / resource_accepted items
func transformResourceRows(rows []models.ResourceResponse, now time.Time) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		resource := row.Resource
		if resource.ID == "" {
			continue
		}

		pending := row.Status == models.ResponsePending

		itemType := TypeResourceAccepted
		title := "Helping with: " + resource.Title
		if pending {
			itemType = TypeResourcePending
			title = "Response needed: " + resource.Title
		}

		items = append(items, Item{
			ID:          itemID(itemType, resource.ID),
			Type:        itemType,
			Title:       title,
			Description: resource.Description,
			Urgency:     ResourceUrgency(now, row.CreatedAt, pending),
			EntityID:    resource.ID,
			CommunityID: resource.CommunityID,
			CreatedAt:   row.CreatedAt,
			Resource: &ResourceMetadata{
				OwnerID:        resource.OwnerID,
				OwnerName:      DisplayName(&resource.Owner),
				Kind:           resource.Kind,
				ResponseStatus: row.Status,
			},
		})
	}
	return items
}

// transformShoutoutRows shapes completed exchanges the user hasn't
// thanked yet into shoutout_pending items. Rows where the resource or
// its owner failed to resolve are dropped.
func transformShoutoutRows(rows []models.ResourceResponse, now time.Time) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		resource := row.Resource
		if resource.ID == "" || resource.Owner.ID == "" {
			continue
		}

		completedAt := row.UpdatedAt
		ownerName := DisplayName(&resource.Owner)

		items = append(items, Item{
			ID:          itemID(TypeShoutoutPending, resource.ID),
			Type:        TypeShoutoutPending,
			Title:       resource.Title,
			Description: "Thank " + ownerName + " for their help",
			Urgency:     ShoutoutUrgency(now, completedAt),
			EntityID:    resource.ID,
			CommunityID: resource.CommunityID,
			CreatedAt:   completedAt,
			Shoutout: &ShoutoutMetadata{
				OwnerID:       resource.OwnerID,
				OwnerName:     ownerName,
				ResourceTitle: resource.Title,
				CompletedAt:   completedAt,
			},
		})
	}
	return items
}

// transformMessageRows shapes unread direct messages into
// message_unread items. CommunityID is always empty: messages have no
// community scope.
func transformMessageRows(rows []models.DirectMessage, now time.Time) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		var sender *models.User
		if row.Sender.ID != "" {
			sender = &row.Sender
		}
		senderName := DisplayName(sender)

		items = append(items, Item{
			ID:          itemID(TypeMessageUnread, row.ID),
			Type:        TypeMessageUnread,
			Title:       "New message from " + senderName,
			Description: truncateText(row.Content, maxDescriptionLength),
			Urgency:     MessageUrgency(now, row.CreatedAt),
			EntityID:    row.ID,
			CommunityID: "",
			CreatedAt:   row.CreatedAt,
			Message: &MessageMetadata{
				SenderID:    row.SenderID,
				SenderName:  senderName,
				RecipientID: row.RecipientID,
			},
		})
	}
	return items
}

// DisplayName resolves the best display string for a user record:
// full name, then name, then email, then a placeholder when the record
// itself is absent or blank.
func DisplayName(u *models.User) string {
	if u == nil {
		return unknownUser
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return unknownUser
}

// truncateText shortens s to max runes, marking the cut with an
// ellipsis. A string at or under the cap is returned verbatim.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
