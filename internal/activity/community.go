package activity

import (
	"context"
	"sort"
	"time"

	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/telemetry"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// communityRows carries one community-feed source's raw rows out of its
// goroutine. Exactly one row slice is populated per result.
type communityRows struct {
	source    string
	resources []models.Resource
	events    []models.Event
	shoutouts []models.Shoutout
	members   []models.CommunityMember
	err       error
}

// AggregateCommunityFeed returns the community-wide feed: recently
// created resources and events, thanks given, and new members.
//
// Referenced users and communities are resolved with one batched IN
// query per entity family for the whole run; any activity whose
// referenced user or community fails to resolve is dropped rather than
// emitted with blank fields. Pagination is offset-based and applied
// after sorting.
func (s *Service) AggregateCommunityFeed(ctx context.Context, filter CommunityFeedFilter) ([]Item, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logger.Log.Debug("Aggregating community feed",
		logger.WithCommunityID(filter.CommunityID),
		logger.WithUserID(filter.UserID),
		zap.Int("page", filter.Page),
		zap.Int("page_size", filter.PageSize))

	ctx, span := s.events.TraceCommunityFeed(ctx, filter.CommunityID, filter.Page)

	enabled := enabledTypes(filter.Types)

	// Overfetch so dropped rows and offset pagination still leave a
	// full page after the merge.
	fetchLimit := filter.Page * filter.PageSize * 3

	resultsChan := make(chan communityRows, 4)
	launched := 0

	if enabled[TypeResourceCreated] {
		launched++
		go func() {
			rows, err := s.fetchRecentResources(ctx, filter, fetchLimit)
			resultsChan <- communityRows{source: "resources", resources: rows, err: err}
		}()
	}
	if enabled[TypeEventCreated] {
		launched++
		go func() {
			rows, err := s.fetchRecentEvents(ctx, filter, fetchLimit)
			resultsChan <- communityRows{source: "events", events: rows, err: err}
		}()
	}
	if enabled[TypeThanksGiven] {
		launched++
		go func() {
			rows, err := s.fetchRecentShoutouts(ctx, filter, fetchLimit)
			resultsChan <- communityRows{source: "shoutouts", shoutouts: rows, err: err}
		}()
	}
	if enabled[TypeUserJoined] {
		launched++
		go func() {
			rows, err := s.fetchNewMembers(ctx, filter, fetchLimit)
			resultsChan <- communityRows{source: "members", members: rows, err: err}
		}()
	}

	var resources []models.Resource
	var events []models.Event
	var shoutouts []models.Shoutout
	var members []models.CommunityMember

	failedSources := 0
	for i := 0; i < launched; i++ {
		result := <-resultsChan
		if result.err != nil {
			logger.Log.Warn("Community feed source failed",
				logger.WithSource(result.source),
				logger.WithCommunityID(filter.CommunityID),
				zap.Error(result.err))
			metrics.Get().FeedSourceFailures.WithLabelValues(result.source).Inc()
			failedSources++
			continue
		}
		resources = append(resources, result.resources...)
		events = append(events, result.events...)
		shoutouts = append(shoutouts, result.shoutouts...)
		members = append(members, result.members...)
	}

	usersByID, communitiesByID, err := s.resolveReferences(ctx, resources, events, shoutouts, members)
	if err != nil {
		logger.Log.Error("Community feed reference resolution failed",
			logger.WithCommunityID(filter.CommunityID),
			zap.Error(err))
		telemetry.EndFeedSpan(span, 0, failedSources, err)
		return nil, err
	}

	now := s.now()
	items := make([]Item, 0, len(resources)+len(events)+len(shoutouts)+len(members))
	items = append(items, transformCreatedResources(resources, usersByID, communitiesByID)...)
	items = append(items, transformCreatedEvents(events, usersByID, communitiesByID, now)...)
	items = append(items, transformGivenShoutouts(shoutouts, usersByID, communitiesByID)...)
	items = append(items, transformNewMembers(members, usersByID, communitiesByID)...)

	sortByRecency(items)

	items = paginate(items, filter.Page, filter.PageSize)

	telemetry.EndFeedSpan(span, len(items), failedSources, nil)

	logger.Log.Debug("Community feed assembled",
		logger.WithCommunityID(filter.CommunityID),
		logger.WithCount(len(items)))

	return items, nil
}

// sortByRecency orders community feed items newest first. Urgency
// still annotates each item but does not reorder a what's-happening
// stream, unlike the personal feed's composite ordering.
func sortByRecency(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// enabledTypes expands an optional type filter into a lookup set; an
// empty filter enables every community feed type
func enabledTypes(types []Type) map[Type]bool {
	if len(types) == 0 {
		return map[Type]bool{
			TypeResourceCreated: true,
			TypeEventCreated:    true,
			TypeThanksGiven:     true,
			TypeUserJoined:      true,
		}
	}
	enabled := make(map[Type]bool, len(types))
	for _, t := range types {
		enabled[t] = true
	}
	return enabled
}

// paginate slices one page out of the sorted item list
func paginate(items []Item, page, pageSize int) []Item {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Item{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// resolveReferences batch-loads every distinct user and community id
// referenced by the fetched rows: one IN query per entity family
func (s *Service) resolveReferences(
	ctx context.Context,
	resources []models.Resource,
	events []models.Event,
	shoutouts []models.Shoutout,
	members []models.CommunityMember,
) (map[string]*models.User, map[string]*models.Community, error) {
	userIDs := make(map[string]bool)
	communityIDs := make(map[string]bool)

	for _, r := range resources {
		userIDs[r.OwnerID] = true
		communityIDs[r.CommunityID] = true
	}
	for _, e := range events {
		userIDs[e.CreatedBy] = true
		communityIDs[e.CommunityID] = true
	}
	for _, sh := range shoutouts {
		userIDs[sh.FromUserID] = true
		userIDs[sh.ToUserID] = true
		if sh.CommunityID != "" {
			communityIDs[sh.CommunityID] = true
		}
	}
	for _, m := range members {
		userIDs[m.UserID] = true
		communityIDs[m.CommunityID] = true
	}

	users, err := s.users.GetUsersByIDs(ctx, setToSlice(userIDs))
	if err != nil {
		return nil, nil, err
	}

	communities, err := s.communities.GetCommunitiesByIDs(ctx, setToSlice(communityIDs))
	if err != nil {
		return nil, nil, err
	}

	return users, communities, nil
}

func setToSlice(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Community feed fetchers. Rows come back without their user joins;
// the aggregator resolves those in batch afterwards.

func (s *Service) fetchRecentResources(ctx context.Context, filter CommunityFeedFilter, limit int) ([]models.Resource, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.CommunityID != "" {
		q = q.Where("community_id = ?", filter.CommunityID)
	}
	if filter.UserID != "" {
		q = q.Where("owner_id = ?", filter.UserID)
	}
	if filter.Since != nil {
		q = q.Where("created_at > ?", *filter.Since)
	}

	var rows []models.Resource
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) fetchRecentEvents(ctx context.Context, filter CommunityFeedFilter, limit int) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.CommunityID != "" {
		q = q.Where("community_id = ?", filter.CommunityID)
	}
	if filter.UserID != "" {
		q = q.Where("created_by = ?", filter.UserID)
	}
	if filter.Since != nil {
		q = q.Where("created_at > ?", *filter.Since)
	}

	var rows []models.Event
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) fetchRecentShoutouts(ctx context.Context, filter CommunityFeedFilter, limit int) ([]models.Shoutout, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.CommunityID != "" {
		q = q.Where("community_id = ?", filter.CommunityID)
	}
	if filter.UserID != "" {
		q = q.Where("from_user_id = ?", filter.UserID)
	}
	if filter.Since != nil {
		q = q.Where("created_at > ?", *filter.Since)
	}

	var rows []models.Shoutout
	err := q.Find(&rows).Error
	return rows, err
}

func (s *Service) fetchNewMembers(ctx context.Context, filter CommunityFeedFilter, limit int) ([]models.CommunityMember, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if filter.CommunityID != "" {
		q = q.Where("community_id = ?", filter.CommunityID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Since != nil {
		q = q.Where("created_at > ?", *filter.Since)
	}

	var rows []models.CommunityMember
	err := q.Find(&rows).Error
	return rows, err
}

// Community feed transformers. Rows referencing a user or community
// that didn't resolve are dropped.

func transformCreatedResources(rows []models.Resource, users map[string]*models.User, communities map[string]*models.Community) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		owner, ok := users[row.OwnerID]
		if !ok {
			continue
		}
		if _, ok := communities[row.CommunityID]; !ok {
			continue
		}

		title := "New offer: " + row.Title
		if row.Kind == models.ResourceRequest {
			title = "New request: " + row.Title
		}

		items = append(items, Item{
			ID:          itemID(TypeResourceCreated, row.ID),
			Type:        TypeResourceCreated,
			Title:       title,
			Description: truncateText(row.Description, maxDescriptionLength),
			Urgency:     UrgencyNormal,
			EntityID:    row.ID,
			CommunityID: row.CommunityID,
			CreatedAt:   row.CreatedAt,
			Resource: &ResourceMetadata{
				OwnerID:   row.OwnerID,
				OwnerName: DisplayName(owner),
				Kind:      row.Kind,
			},
		})
	}
	return items
}

func transformCreatedEvents(rows []models.Event, users map[string]*models.User, communities map[string]*models.Community, now time.Time) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		organizer, ok := users[row.CreatedBy]
		if !ok {
			continue
		}
		if _, ok := communities[row.CommunityID]; !ok {
			continue
		}

		start := row.StartTime
		items = append(items, Item{
			ID:          itemID(TypeEventCreated, row.ID),
			Type:        TypeEventCreated,
			Title:       "New event: " + row.Title,
			Description: "Event at " + row.Location,
			Urgency:     EventUrgency(now, start),
			DueDate:     &start,
			EntityID:    row.ID,
			CommunityID: row.CommunityID,
			CreatedAt:   row.CreatedAt,
			Event: &EventMetadata{
				StartTime:     row.StartTime,
				EndTime:       row.EndTime,
				Location:      row.Location,
				OrganizerID:   row.CreatedBy,
				OrganizerName: DisplayName(organizer),
			},
		})
	}
	return items
}

func transformGivenShoutouts(rows []models.Shoutout, users map[string]*models.User, communities map[string]*models.Community) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		from, ok := users[row.FromUserID]
		if !ok {
			continue
		}
		to, ok := users[row.ToUserID]
		if !ok {
			continue
		}
		if row.CommunityID != "" {
			if _, ok := communities[row.CommunityID]; !ok {
				continue
			}
		}

		items = append(items, Item{
			ID:          itemID(TypeThanksGiven, row.ID),
			Type:        TypeThanksGiven,
			Title:       DisplayName(from) + " thanked " + DisplayName(to),
			Description: truncateText(row.Message, maxDescriptionLength),
			Urgency:     UrgencyNormal,
			EntityID:    row.ID,
			CommunityID: row.CommunityID,
			CreatedAt:   row.CreatedAt,
			Shoutout: &ShoutoutMetadata{
				FromUserID:   row.FromUserID,
				FromUserName: DisplayName(from),
				ToUserID:     row.ToUserID,
				ToUserName:   DisplayName(to),
			},
		})
	}
	return items
}

func transformNewMembers(rows []models.CommunityMember, users map[string]*models.User, communities map[string]*models.Community) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		user, ok := users[row.UserID]
		if !ok {
			continue
		}
		community, ok := communities[row.CommunityID]
		if !ok {
			continue
		}

		items = append(items, Item{
			ID:          itemID(TypeUserJoined, row.ID),
			Type:        TypeUserJoined,
			Title:       DisplayName(user) + " joined " + community.Name,
			Description: "Welcome them to the community",
			Urgency:     UrgencyNormal,
			EntityID:    row.ID,
			CommunityID: row.CommunityID,
			CreatedAt:   row.CreatedAt,
			Member: &MemberMetadata{
				UserID:   row.UserID,
				UserName: DisplayName(user),
				Role:     row.Role,
			},
		})
	}
	return items
}
