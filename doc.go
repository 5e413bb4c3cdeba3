// Package backend provides the Gatherly API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/activity: Activity feed aggregation (personal and community)
// - internal/handlers: HTTP request handlers for the API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication services and JWT middleware
// - internal/repository: Batch user and community lookups
// - internal/database: Database connection and migrations
// - internal/cache: Redis-backed feed response cache
// - internal/middleware: HTTP middleware (rate limiting, metrics, etc.)
// - internal/telemetry: OpenTelemetry tracing
// - internal/seed: Demo and test data seeding

// See the individual package documentation for detailed API reference.
package backend
