package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gatherly/backend/internal/activity"
	"github.com/gatherly/backend/internal/auth"
	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/config"
	"github.com/gatherly/backend/internal/database"
	"github.com/gatherly/backend/internal/handlers"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gatherly/backend/internal/repository"
	"github.com/gatherly/backend/internal/telemetry"
)

func main() {
	// Load environment variables before anything reads them
	if err := godotenv.Load(); err != nil {
		// Not fatal, production reads from the real environment
		os.Stderr.WriteString("warning: .env file not found, using system environment variables\n")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Log.Sync()

	logger.Log.Info("Gatherly backend starting",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	metrics.Initialize()

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Tracing is opt-in
	if cfg.TracingEnabled {
		tp, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:  "gatherly-backend",
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTLPEndpoint,
			Enabled:      true,
			SamplingRate: cfg.TraceSampleRate,
		})
		if err != nil {
			logger.Log.Warn("Failed to initialize tracing, continuing without it", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				telemetry.Shutdown(ctx, tp)
			}()
			if err := database.DB.Use(telemetry.GORMTracingPlugin()); err != nil {
				logger.Log.Warn("Failed to register database tracing plugin", zap.Error(err))
			}
		}
	}

	// Redis backs the feed cache. The cache degrades to a no-op when
	// Redis is unreachable so the API stays up without it.
	var feedCache *cache.FeedCache
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Log.Warn("Redis unavailable, feed responses will not be cached", zap.Error(err))
		feedCache = cache.NewFeedCache(nil, 0)
	} else {
		defer redisClient.Close()
		feedCache = cache.NewFeedCache(redisClient, time.Duration(cfg.FeedCacheTTLSeconds)*time.Second)
	}

	// Initialize auth service
	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService(database.DB, []byte(cfg.JWTSecret))

	// Repositories and the feed service
	userRepo := repository.NewUserRepository(database.DB)
	communityRepo := repository.NewCommunityRepository(database.DB)
	activityService := activity.NewService(database.DB, userRepo, communityRepo)

	h := handlers.NewHandlers(activityService, authService, feedCache)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.TracingEnabled {
		r.Use(middleware.TracingMiddleware("gatherly-backend"))
	}

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "gatherly-backend",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", middleware.RateLimitAuth(), h.Login)
			authGroup.GET("/me", authService.Middleware(), h.Me)
		}

		feed := api.Group("/feed")
		{
			feed.Use(middleware.RateLimitFeed())
			feed.Use(authService.Middleware())
			feed.GET("/activities", h.GetActivityFeed)
			feed.GET("/community", h.GetCommunityFeed)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
