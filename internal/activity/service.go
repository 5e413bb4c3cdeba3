package activity

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repository"
	"github.com/gatherly/backend/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMissingUserID is returned when a personal feed is requested
// without a user
var ErrMissingUserID = errors.New("user id is required")

// Service builds activity feeds. It has no state of its own: every
// request assembles a fresh projection over the source tables.
type Service struct {
	db          *gorm.DB
	users       repository.UserRepository
	communities repository.CommunityRepository
	events      *telemetry.FeedEvents

	// now is swappable so tests can pin the clock
	now func() time.Time
}

// NewService creates an activity feed service
func NewService(db *gorm.DB, users repository.UserRepository, communities repository.CommunityRepository) *Service {
	return &Service{
		db:          db,
		users:       users,
		communities: communities,
		events:      telemetry.NewFeedEvents(),
		now:         time.Now,
	}
}

// sourceResult carries one source family's contribution out of its
// goroutine
type sourceResult struct {
	items  []Item
	source string
	err    error
}

// FetchActivities returns the user's personal feed: the four source
// families fetched concurrently, transformed, merged, section-filtered,
// sorted and truncated.
//
// A failing source is logged and contributes nothing; the other sources
// still feed the result.
func (s *Service) FetchActivities(ctx context.Context, filter FeedFilter) ([]Item, error) {
	if filter.UserID == "" {
		return nil, ErrMissingUserID
	}

	logger.Log.Debug("Fetching activity feed",
		logger.WithUserID(filter.UserID),
		zap.String("section", string(filter.Section)),
		zap.Int("limit", filter.Limit),
		zap.Int("community_count", len(filter.CommunityIDs)))

	ctx, span := s.events.TraceBuildFeed(ctx, filter.UserID, string(filter.Section))

	now := s.now()
	resultsChan := make(chan sourceResult, 4)

	go func() {
		rows, err := s.fetchEventRows(ctx, filter.UserID, filter.CommunityIDs)
		resultsChan <- sourceResult{items: transformEventRows(rows, now), source: "events", err: err}
	}()

	go func() {
		rows, err := s.fetchResourceRows(ctx, filter.UserID, filter.CommunityIDs)
		resultsChan <- sourceResult{items: transformResourceRows(rows, now), source: "resources", err: err}
	}()

	go func() {
		rows, err := s.fetchShoutoutRows(ctx, filter.UserID, filter.CommunityIDs)
		resultsChan <- sourceResult{items: transformShoutoutRows(rows, now), source: "shoutouts", err: err}
	}()

	go func() {
		rows, err := s.fetchMessageRows(ctx, filter.UserID)
		resultsChan <- sourceResult{items: transformMessageRows(rows, now), source: "messages", err: err}
	}()

	items := make([]Item, 0, 32)
	failedSources := 0
	for i := 0; i < 4; i++ {
		result := <-resultsChan
		if result.err != nil {
			logger.Log.Warn("Activity source failed",
				logger.WithSource(result.source),
				logger.WithUserID(filter.UserID),
				zap.Error(result.err))
			metrics.Get().FeedSourceFailures.WithLabelValues(result.source).Inc()
			failedSources++
			continue
		}
		items = append(items, result.items...)
	}

	if filter.Section != "" {
		items = filterSection(items, filter.Section, now)
	}

	sortItems(items)

	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}

	telemetry.EndFeedSpan(span, len(items), failedSources, nil)

	logger.Log.Debug("Activity feed assembled",
		logger.WithUserID(filter.UserID),
		logger.WithCount(len(items)))

	return items, nil
}

// sortItems applies the composite feed ordering: urgency tier first;
// within a tier, items with a due date come before items without one
// and sort ascending by due date; everything else falls back to
// recency, newest first.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if a.Urgency.rank() != b.Urgency.rank() {
			return a.Urgency.rank() < b.Urgency.rank()
		}

		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		}

		return a.CreatedAt.After(b.CreatedAt)
	})
}

// filterSection keeps items matching the named feed partition.
// Sections are predicates over the already-assembled items, nothing is
// stored.
func filterSection(items []Item, section Section, now time.Time) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if inSection(item, section, now) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func inSection(item Item, section Section, now time.Time) bool {
	switch section {
	case SectionAttention:
		if item.Urgency == UrgencyUrgent {
			return true
		}
		return item.DueDate != nil && item.DueDate.Before(now) && item.Type != TypeEventUpcoming

	case SectionInProgress:
		if item.Type == TypeResourceAccepted {
			return true
		}
		if item.Type == TypeEventUpcoming && item.DueDate != nil {
			until := item.DueDate.Sub(now)
			return until > 0 && until <= 24*time.Hour
		}
		return false

	case SectionUpcoming:
		return item.Type == TypeEventUpcoming && item.DueDate != nil &&
			item.DueDate.Sub(now) > 24*time.Hour

	case SectionHistory:
		if now.Sub(item.CreatedAt) > 7*24*time.Hour {
			return false
		}
		if item.Type == TypeEventUpcoming && item.DueDate != nil && item.DueDate.Before(now) {
			return true
		}
		return item.Type == TypeResourceAccepted &&
			item.Resource != nil && item.Resource.ResponseStatus == models.ResponseCompleted
	}

	return false
}
