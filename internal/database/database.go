package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gatherly/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize creates and configures the database connection
func Initialize() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "gatherly")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	gormLogger := logger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	log.Println("✅ Database connected successfully")

	return nil
}

// Migrate runs auto-migration for all models
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
	if err != nil {
		log.Printf("Warning: Could not create uuid-ossp extension: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Event{},
		&models.EventAttendance{},
		&models.Resource{},
		&models.ResourceResponse{},
		&models.Shoutout{},
		&models.DirectMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	err = createIndexes()
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes creates performance indexes for feed queries
func createIndexes() error {
	// User lookups
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))")

	// Event feed: a user's upcoming events by RSVP
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_event_attendances_user_status ON event_attendances (user_id, status)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_events_community_start ON events (community_id, start_time)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_events_created ON events (created_at DESC)")

	// Resource feed: a user's responses and recently posted resources
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_resource_responses_responder ON resource_responses (responder_id, created_at DESC)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_resource_responses_status ON resource_responses (resource_id, status)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_resources_community_created ON resources (community_id, created_at DESC)")

	// Shoutout feed: set-difference against already-thanked resources
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_shoutouts_from_resource ON shoutouts (from_user_id, resource_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_shoutouts_community_created ON shoutouts (community_id, created_at DESC)")

	// Message feed: unread messages per recipient
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_direct_messages_recipient_unread ON direct_messages (recipient_id, created_at DESC) WHERE read_at IS NULL AND deleted_at IS NULL")

	// Community membership feed
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_community_members_community_created ON community_members (community_id, created_at DESC)")

	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
