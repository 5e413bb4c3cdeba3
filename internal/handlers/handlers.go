package handlers

import (
	"github.com/gatherly/backend/internal/activity"
	"github.com/gatherly/backend/internal/auth"
	"github.com/gatherly/backend/internal/cache"
	apierrors "github.com/gatherly/backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	activity  *activity.Service
	auth      *auth.Service
	feedCache *cache.FeedCache
}

// NewHandlers creates a new handlers instance. feedCache may be nil
// when Redis is unavailable; feed responses are then always rebuilt.
func NewHandlers(activityService *activity.Service, authService *auth.Service, feedCache *cache.FeedCache) *Handlers {
	return &Handlers{
		activity:  activityService,
		auth:      authService,
		feedCache: feedCache,
	}
}

// respondError writes the standard error body with the status implied
// by the error's code.
func respondError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.Code.HTTPStatus(), apiErr)
}
