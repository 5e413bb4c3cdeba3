package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(60)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating communities...")
	communities, err := s.seedCommunities(users, 8)
	if err != nil {
		return fmt.Errorf("failed to seed communities: %w", err)
	}

	log("Creating events and RSVPs...")
	if err := s.seedEvents(users, communities, 40); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	log("Creating resource offers and requests...")
	if err := s.seedResources(users, communities, 80); err != nil {
		return fmt.Errorf("failed to seed resources: %w", err)
	}

	log("Creating shoutouts...")
	if err := s.seedShoutouts(users, 30); err != nil {
		return fmt.Errorf("failed to seed shoutouts: %w", err)
	}

	log("Creating direct messages...")
	if err := s.seedMessages(users, 150); err != nil {
		return fmt.Errorf("failed to seed messages: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with a small, predictable data set
func (s *Seeder) SeedTest() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating test users...")
	testUserSpecs := []struct {
		username string
		email    string
		fullName string
	}{
		{"alice", "alice@example.com", "Alice Smith"},
		{"bob", "bob@example.com", "Bob Johnson"},
		{"charlie", "charlie@example.com", "Charlie Brown"},
		{"diana", "diana@example.com", "Diana Prince"},
	}

	var users []models.User
	for _, spec := range testUserSpecs {
		var user models.User
		err := s.db.Where("username = ? OR email = ?", spec.username, spec.email).First(&user).Error
		if err == nil {
			users = append(users, user)
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashedPasswordStr := string(hashedPassword)

		user = models.User{
			Email:        spec.email,
			Username:     spec.username,
			FullName:     spec.fullName,
			PasswordHash: &hashedPasswordStr,
			AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", spec.username),
			Location:     "Testville",
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create test user %s: %w", spec.username, err)
		}
		users = append(users, user)
	}

	log("Creating test community...")
	communities, err := s.seedCommunities(users, 1)
	if err != nil {
		return fmt.Errorf("failed to seed test community: %w", err)
	}

	log("Creating test events...")
	if err := s.seedEvents(users, communities, 3); err != nil {
		return fmt.Errorf("failed to seed test events: %w", err)
	}

	log("Creating test resources...")
	if err := s.seedResources(users, communities, 5); err != nil {
		return fmt.Errorf("failed to seed test resources: %w", err)
	}

	log("Creating test messages...")
	if err := s.seedMessages(users, 6); err != nil {
		return fmt.Errorf("failed to seed test messages: %w", err)
	}

	return nil
}

// Clean removes all seeded data. Intended for development databases only.
func (s *Seeder) Clean() error {
	tables := []string{
		"direct_messages",
		"shoutouts",
		"resource_responses",
		"resources",
		"event_attendances",
		"events",
		"community_members",
		"communities",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean table %s: %w", table, err)
		}
	}
	logger.Log.Info("Removed all seed data")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedPasswordStr := string(hashedPassword)

	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		lastActiveAt := gofakeit.DateRange(time.Now().Add(-30*24*time.Hour), time.Now())
		user := models.User{
			Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Username:     username,
			FullName:     gofakeit.Name(),
			Bio:          gofakeit.Sentence(10),
			Location:     fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
			AvatarURL:    fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
			PasswordHash: &hashedPasswordStr,
			LastActiveAt: &lastActiveAt,
		}

		if err := s.db.Create(&user).Error; err != nil {
			logger.Log.Warn("Failed to create seed user",
				zap.String("username", username),
				zap.Error(err))
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func (s *Seeder) seedCommunities(users []models.User, count int) ([]models.Community, error) {
	communityNames := []string{
		"Oak Street Neighbors", "Riverside Mutual Aid", "Downtown Tool Library",
		"Maple Grove Families", "Eastside Garden Collective", "Harbor District Helpers",
		"Sunset Hill Community", "Cedar Park Exchange",
	}

	communities := make([]models.Community, 0, count)
	for i := 0; i < count; i++ {
		creator := users[rand.Intn(len(users))]
		name := gofakeit.City() + " Neighbors"
		if i < len(communityNames) {
			name = communityNames[i]
		}

		community := models.Community{
			Name:        name,
			Description: gofakeit.Sentence(12),
			Location:    fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
			CreatedBy:   creator.ID,
		}
		if err := s.db.Create(&community).Error; err != nil {
			return nil, fmt.Errorf("failed to create community: %w", err)
		}

		// Every community gets the creator as admin plus a random slice of members.
		members := []models.CommunityMember{{
			CommunityID: community.ID,
			UserID:      creator.ID,
			Role:        models.RoleAdmin,
		}}
		memberCount := 3 + rand.Intn(len(users)/2)
		for _, idx := range rand.Perm(len(users))[:memberCount] {
			if users[idx].ID == creator.ID {
				continue
			}
			role := models.RoleMember
			if rand.Float32() < 0.1 {
				role = models.RoleModerator
			}
			members = append(members, models.CommunityMember{
				CommunityID: community.ID,
				UserID:      users[idx].ID,
				Role:        role,
			})
		}
		if err := s.db.Create(&members).Error; err != nil {
			return nil, fmt.Errorf("failed to create community members: %w", err)
		}
		if err := s.db.Model(&community).Update("member_count", len(members)).Error; err != nil {
			return nil, fmt.Errorf("failed to update member count: %w", err)
		}

		communities = append(communities, community)
	}
	return communities, nil
}

func (s *Seeder) seedEvents(users []models.User, communities []models.Community, count int) error {
	eventTitles := []string{
		"Community Potluck", "Tool Swap Meet", "Garden Work Day", "Skill Share Night",
		"Neighborhood Cleanup", "Repair Cafe", "Seed Exchange", "Block Party Planning",
	}

	for i := 0; i < count; i++ {
		community := communities[rand.Intn(len(communities))]
		creator := users[rand.Intn(len(users))]

		// Mix of upcoming (some within the urgent/soon windows) and past events.
		var startTime time.Time
		switch rand.Intn(4) {
		case 0:
			startTime = time.Now().Add(time.Duration(1+rand.Intn(23)) * time.Hour)
		case 1:
			startTime = time.Now().Add(time.Duration(25+rand.Intn(47)) * time.Hour)
		case 2:
			startTime = time.Now().Add(time.Duration(4+rand.Intn(20)) * 24 * time.Hour)
		default:
			startTime = time.Now().Add(-time.Duration(1+rand.Intn(14)) * 24 * time.Hour)
		}
		endTime := startTime.Add(2 * time.Hour)

		event := models.Event{
			CommunityID: community.ID,
			CreatedBy:   creator.ID,
			Title:       eventTitles[rand.Intn(len(eventTitles))],
			Description: gofakeit.Sentence(15),
			Location:    gofakeit.Street(),
			StartTime:   startTime,
			EndTime:     &endTime,
		}
		if err := s.db.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		rsvpCount := 2 + rand.Intn(8)
		for _, idx := range rand.Perm(len(users))[:rsvpCount] {
			status := models.AttendanceAttending
			switch rand.Intn(5) {
			case 0:
				status = models.AttendanceMaybe
			case 1:
				status = models.AttendanceDeclined
			}
			attendance := models.EventAttendance{
				EventID: event.ID,
				UserID:  users[idx].ID,
				Status:  status,
			}
			if err := s.db.Create(&attendance).Error; err != nil {
				logger.Log.Warn("Failed to create RSVP", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Seeder) seedResources(users []models.User, communities []models.Community, count int) error {
	offerTitles := []string{
		"Ladder to borrow", "Extra garden tomatoes", "Moving boxes", "Power drill",
		"Childcare on weekends", "Homemade bread", "Bike repair help", "Sewing machine",
	}
	requestTitles := []string{
		"Need a ride to the airport", "Looking for a tall ladder", "Help moving a couch",
		"Anyone have a car seat?", "Need help with yard work", "Borrow a pressure washer",
	}

	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		community := communities[rand.Intn(len(communities))]

		kind := models.ResourceOffer
		title := offerTitles[rand.Intn(len(offerTitles))]
		if rand.Intn(2) == 0 {
			kind = models.ResourceRequest
			title = requestTitles[rand.Intn(len(requestTitles))]
		}

		createdAt := gofakeit.DateRange(time.Now().Add(-21*24*time.Hour), time.Now())
		resource := models.Resource{
			Kind:        kind,
			OwnerID:     owner.ID,
			CommunityID: community.ID,
			Title:       title,
			Description: gofakeit.Sentence(12),
			Status:      "open",
		}
		if err := s.db.Create(&resource).Error; err != nil {
			return fmt.Errorf("failed to create resource: %w", err)
		}
		if err := s.db.Model(&resource).Update("created_at", createdAt).Error; err != nil {
			return fmt.Errorf("failed to backdate resource: %w", err)
		}

		// Roughly two thirds of resources attract at least one response.
		if rand.Intn(3) == 0 {
			continue
		}
		responseCount := 1 + rand.Intn(3)
		for _, idx := range rand.Perm(len(users))[:responseCount] {
			if users[idx].ID == owner.ID {
				continue
			}
			status := models.ResponsePending
			switch rand.Intn(4) {
			case 0:
				status = models.ResponseAccepted
			case 1:
				status = models.ResponseCompleted
			case 2:
				status = models.ResponseDeclined
			}
			response := models.ResourceResponse{
				ResourceID:  resource.ID,
				ResponderID: users[idx].ID,
				Status:      status,
				Message:     gofakeit.Sentence(8),
			}
			if err := s.db.Create(&response).Error; err != nil {
				logger.Log.Warn("Failed to create resource response", zap.Error(err))
				continue
			}
			respondedAt := gofakeit.DateRange(createdAt, time.Now())
			if err := s.db.Model(&response).Updates(map[string]interface{}{
				"created_at": respondedAt,
				"updated_at": respondedAt,
			}).Error; err != nil {
				logger.Log.Warn("Failed to backdate resource response", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Seeder) seedShoutouts(users []models.User, count int) error {
	// Shoutouts reference completed resource exchanges.
	var completed []models.ResourceResponse
	if err := s.db.Where("status = ?", models.ResponseCompleted).
		Preload("Resource").
		Limit(count).
		Find(&completed).Error; err != nil {
		return fmt.Errorf("failed to load completed responses: %w", err)
	}

	thanksMessages := []string{
		"Thank you so much for your help!",
		"You saved my weekend, really appreciate it.",
		"So glad to have neighbors like you.",
		"This community is the best. Thanks!",
	}

	// Thank roughly half of the completed exchanges so the rest surface
	// as pending shoutout prompts in the feed.
	for i, response := range completed {
		if i%2 == 0 {
			continue
		}
		if response.Resource.ID == "" {
			continue
		}
		shoutout := models.Shoutout{
			FromUserID:  response.Resource.OwnerID,
			ToUserID:    response.ResponderID,
			ResourceID:  response.ResourceID,
			CommunityID: response.Resource.CommunityID,
			Message:     thanksMessages[rand.Intn(len(thanksMessages))],
		}
		if err := s.db.Create(&shoutout).Error; err != nil {
			logger.Log.Warn("Failed to create shoutout", zap.Error(err))
		}
	}
	return nil
}

func (s *Seeder) seedMessages(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		sender := users[rand.Intn(len(users))]
		recipient := users[rand.Intn(len(users))]
		if sender.ID == recipient.ID {
			continue
		}

		message := models.DirectMessage{
			SenderID:    sender.ID,
			RecipientID: recipient.ID,
			Content:     gofakeit.Sentence(5 + rand.Intn(30)),
		}
		// Most messages get read. Unread ones drive the feed.
		if rand.Intn(3) != 0 {
			readAt := time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour)
			message.ReadAt = &readAt
		}
		if err := s.db.Create(&message).Error; err != nil {
			logger.Log.Warn("Failed to create message", zap.Error(err))
			continue
		}
		sentAt := gofakeit.DateRange(time.Now().Add(-4*24*time.Hour), time.Now())
		if err := s.db.Model(&message).Update("created_at", sentAt).Error; err != nil {
			logger.Log.Warn("Failed to backdate message", zap.Error(err))
		}
	}
	return nil
}
