package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gatherly/backend/internal/config"
	"github.com/gatherly/backend/internal/database"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/seed"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Log.Sync()

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		run(func(s *seed.Seeder) error { return s.SeedDev() }, "Development database seeded")
	case "test":
		run(func(s *seed.Seeder) error { return s.SeedTest() }, "Test database seeded")
	case "clean":
		run(func(s *seed.Seeder) error { return s.Clean() }, "Seed data removed")
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}
}

func run(fn func(*seed.Seeder) error, doneMsg string) {
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	seeder := seed.NewSeeder(database.DB)
	if err := fn(seeder); err != nil {
		logger.Log.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Log.Info(doneMsg)
}
