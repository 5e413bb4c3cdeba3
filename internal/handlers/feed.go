package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/backend/internal/activity"
	"github.com/gatherly/backend/internal/cache"
	apierrors "github.com/gatherly/backend/internal/errors"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetActivityFeed returns the authenticated user's personal feed.
// GET /api/v1/feed/activities?section=&community_ids=&limit=
func (h *Handlers) GetActivityFeed(c *gin.Context) {
	userID := c.GetString("user_id")

	filter := activity.FeedFilter{UserID: userID}

	sectionParam := c.Query("section")
	if sectionParam != "" {
		section := activity.Section(sectionParam)
		if !activity.ValidSection(section) {
			respondError(c, apierrors.BadRequest("unknown section"))
			return
		}
		filter.Section = section
	}

	communityParam := c.Query("community_ids")
	if communityParam != "" {
		filter.CommunityIDs = strings.Split(communityParam, ",")
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 || limit > 100 {
		limit = 0
	}
	filter.Limit = limit

	cacheKey := cache.Key("feed:personal", userID, sectionParam, communityParam, strconv.Itoa(limit))
	if payload, ok := h.feedCache.Get(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json", []byte(payload))
		return
	}

	start := time.Now()
	items, err := h.activity.FetchActivities(c.Request.Context(), filter)
	middleware.RecordFeedRequest("personal", len(items), time.Since(start), err)
	if err != nil {
		logger.Log.Error("Failed to build activity feed",
			logger.WithUserID(userID),
			zap.Error(err))
		respondError(c, apierrors.Internal("failed to load activity feed"))
		return
	}

	response := gin.H{
		"items": items,
		"meta": gin.H{
			"count": len(items),
			"limit": limit,
		},
	}

	if body, err := json.Marshal(response); err == nil {
		h.feedCache.Set(c.Request.Context(), cacheKey, string(body))
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCommunityFeed returns the community-wide feed.
// GET /api/v1/feed/community?community_id=&types=&page=&page_size=&since=
func (h *Handlers) GetCommunityFeed(c *gin.Context) {
	filter := activity.CommunityFeedFilter{
		CommunityID: c.Query("community_id"),
		UserID:      c.Query("user_id"),
	}

	typesParam := c.Query("types")
	if typesParam != "" {
		for _, t := range strings.Split(typesParam, ",") {
			filter.Types = append(filter.Types, activity.Type(t))
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	filter.Page = page
	filter.PageSize = pageSize

	sinceParam := c.Query("since")
	if sinceParam != "" {
		since, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			respondError(c, apierrors.BadRequest("since must be RFC3339"))
			return
		}
		filter.Since = &since
	}

	cacheKey := cache.Key("feed:community", filter.CommunityID, filter.UserID, typesParam,
		strconv.Itoa(page), strconv.Itoa(pageSize), sinceParam)
	if payload, ok := h.feedCache.Get(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json", []byte(payload))
		return
	}

	start := time.Now()
	items, err := h.activity.AggregateCommunityFeed(c.Request.Context(), filter)
	middleware.RecordFeedRequest("community", len(items), time.Since(start), err)
	if err != nil {
		logger.Log.Error("Failed to build community feed",
			logger.WithCommunityID(filter.CommunityID),
			zap.Error(err))
		respondError(c, apierrors.Internal("failed to load community feed"))
		return
	}

	response := gin.H{
		"items": items,
		"meta": gin.H{
			"count":     len(items),
			"page":      page,
			"page_size": pageSize,
		},
	}

	if body, err := json.Marshal(response); err == nil {
		h.feedCache.Set(c.Request.Context(), cacheKey, string(body))
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	c.JSON(http.StatusOK, response)
}
