package activity

import (
	"context"

	"github.com/gatherly/backend/internal/models"
)

// Per-source fetchers for the personal feed. Each one returns raw
// joined rows for a single source family; empty results are empty
// slices, never errors. Community scoping is pushed into the query as
// an IN filter rather than applied after the fact.

// fetchEventRows returns the user's attending/maybe RSVPs joined with
// their events
func (s *Service) fetchEventRows(ctx context.Context, userID string, communityIDs []string) ([]models.EventAttendance, error) {
	q := s.db.WithContext(ctx).
		Preload("Event").
		Where("event_attendances.user_id = ? AND event_attendances.status IN ?",
			userID, []string{models.AttendanceAttending, models.AttendanceMaybe})

	if len(communityIDs) > 0 {
		q = q.Joins("JOIN events ON events.id = event_attendances.event_id").
			Where("events.community_id IN ?", communityIDs)
	}

	var rows []models.EventAttendance
	err := q.Find(&rows).Error
	return rows, err
}

// fetchResourceRows returns the user's resource responses (any status)
// joined with their resources and resource owners
func (s *Service) fetchResourceRows(ctx context.Context, userID string, communityIDs []string) ([]models.ResourceResponse, error) {
	q := s.db.WithContext(ctx).
		Preload("Resource").
		Preload("Resource.Owner").
		Where("resource_responses.responder_id = ?", userID)

	if len(communityIDs) > 0 {
		q = q.Joins("JOIN resources ON resources.id = resource_responses.resource_id").
			Where("resources.community_id IN ?", communityIDs)
	}

	var rows []models.ResourceResponse
	err := q.Find(&rows).Error
	return rows, err
}

// fetchShoutoutRows returns completed exchanges the user took part in
// but has not thanked yet: completed responses on resources the user
// doesn't own, minus resources already covered by one of the user's
// shoutouts.
func (s *Service) fetchShoutoutRows(ctx context.Context, userID string, communityIDs []string) ([]models.ResourceResponse, error) {
	var thankedIDs []string
	err := s.db.WithContext(ctx).
		Model(&models.Shoutout{}).
		Where("from_user_id = ?", userID).
		Pluck("resource_id", &thankedIDs).Error
	if err != nil {
		return nil, err
	}

	thanked := make(map[string]bool, len(thankedIDs))
	for _, id := range thankedIDs {
		thanked[id] = true
	}

	q := s.db.WithContext(ctx).
		Preload("Resource").
		Preload("Resource.Owner").
		Joins("JOIN resources ON resources.id = resource_responses.resource_id").
		Where("resource_responses.responder_id = ? AND resource_responses.status = ?",
			userID, models.ResponseCompleted).
		Where("resources.owner_id <> ?", userID)

	if len(communityIDs) > 0 {
		q = q.Where("resources.community_id IN ?", communityIDs)
	}

	var rows []models.ResourceResponse
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	unthanked := make([]models.ResourceResponse, 0, len(rows))
	for _, row := range rows {
		if !thanked[row.ResourceID] {
			unthanked = append(unthanked, row)
		}
	}
	return unthanked, nil
}

// fetchMessageRows returns the user's unread direct messages, newest
// first. Soft-deleted messages are excluded by the gorm soft-delete
// scope.
func (s *Service) fetchMessageRows(ctx context.Context, userID string) ([]models.DirectMessage, error) {
	var rows []models.DirectMessage
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
