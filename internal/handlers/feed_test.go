package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gatherly/backend/internal/activity"
	"github.com/gatherly/backend/internal/auth"
	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeForTests()
	metrics.Initialize()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Event{},
		&models.EventAttendance{},
		&models.Resource{},
		&models.ResourceResponse{},
		&models.Shoutout{},
		&models.DirectMessage{},
	))
	return db
}

// setUserID stands in for the auth middleware in feed tests
func setUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func setupFeedRouter(t *testing.T, db *gorm.DB, userID string) *gin.Engine {
	t.Helper()

	activityService := activity.NewService(db,
		repository.NewUserRepository(db),
		repository.NewCommunityRepository(db))
	authService := auth.NewService(db, []byte("test-secret"))
	h := NewHandlers(activityService, authService, cache.NewFeedCache(nil, 0))

	r := gin.New()
	r.GET("/api/v1/feed/activities", setUserID(userID), h.GetActivityFeed)
	r.GET("/api/v1/feed/community", setUserID(userID), h.GetCommunityFeed)
	return r
}

type feedResponse struct {
	Items []activity.Item `json:"items"`
	Meta  struct {
		Count    int `json:"count"`
		Limit    int `json:"limit"`
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	} `json:"meta"`
}

func doFeedRequest(t *testing.T, r *gin.Engine, url string) (*httptest.ResponseRecorder, feedResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	var resp feedResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestGetActivityFeed(t *testing.T) {
	db := setupTestDB(t)

	me := models.User{ID: "user-me", Email: "me@example.com", Username: "me", FullName: "Me"}
	sender := models.User{ID: "user-sender", Email: "s@example.com", Username: "sender", FullName: "Sam Sender"}
	require.NoError(t, db.Create(&me).Error)
	require.NoError(t, db.Create(&sender).Error)

	require.NoError(t, db.Create(&models.DirectMessage{
		ID: "msg-1", SenderID: sender.ID, RecipientID: me.ID, Content: "hello",
	}).Error)

	community := models.Community{ID: "comm-1", Name: "Oak Street", CreatedBy: sender.ID}
	require.NoError(t, db.Create(&community).Error)
	event := models.Event{
		ID: "event-1", CommunityID: community.ID, CreatedBy: sender.ID,
		Title: "Potluck", StartTime: time.Now().Add(3 * time.Hour),
	}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&models.EventAttendance{
		ID: "att-1", EventID: event.ID, UserID: me.ID, Status: models.AttendanceAttending,
	}).Error)

	r := setupFeedRouter(t, db, me.ID)

	w, resp := doFeedRequest(t, r, "/api/v1/feed/activities")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Meta.Count)

	// The urgent event sorts ahead of the fresh message
	assert.Equal(t, activity.TypeEventUpcoming, resp.Items[0].Type)
	assert.Equal(t, activity.TypeMessageUnread, resp.Items[1].Type)
}

func TestGetActivityFeedSectionFilter(t *testing.T) {
	db := setupTestDB(t)

	me := models.User{ID: "user-me", Email: "me@example.com", Username: "me"}
	require.NoError(t, db.Create(&me).Error)

	community := models.Community{ID: "comm-1", Name: "Oak Street"}
	require.NoError(t, db.Create(&community).Error)
	event := models.Event{
		ID: "event-1", CommunityID: community.ID,
		Title: "Far Future", StartTime: time.Now().Add(5 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&event).Error)
	require.NoError(t, db.Create(&models.EventAttendance{
		ID: "att-1", EventID: event.ID, UserID: me.ID, Status: models.AttendanceAttending,
	}).Error)

	r := setupFeedRouter(t, db, me.ID)

	w, resp := doFeedRequest(t, r, "/api/v1/feed/activities?section=upcoming")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "event-1", resp.Items[0].EntityID)

	w, resp = doFeedRequest(t, r, "/api/v1/feed/activities?section=attention")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Items)
}

func TestGetActivityFeedRejectsUnknownSection(t *testing.T) {
	r := setupFeedRouter(t, setupTestDB(t), "user-me")

	w, _ := doFeedRequest(t, r, "/api/v1/feed/activities?section=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivityFeedLimit(t *testing.T) {
	db := setupTestDB(t)

	me := models.User{ID: "user-me", Email: "me@example.com", Username: "me"}
	other := models.User{ID: "user-other", Email: "o@example.com", Username: "other"}
	require.NoError(t, db.Create(&me).Error)
	require.NoError(t, db.Create(&other).Error)

	for _, id := range []string{"msg-1", "msg-2", "msg-3"} {
		require.NoError(t, db.Create(&models.DirectMessage{
			ID: id, SenderID: other.ID, RecipientID: me.ID, Content: "hi",
		}).Error)
	}

	r := setupFeedRouter(t, db, me.ID)

	w, resp := doFeedRequest(t, r, "/api/v1/feed/activities?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Meta.Limit)
}

func TestGetCommunityFeed(t *testing.T) {
	db := setupTestDB(t)

	alice := models.User{ID: "user-alice", Email: "a@example.com", Username: "alice", FullName: "Alice Smith"}
	require.NoError(t, db.Create(&alice).Error)
	community := models.Community{ID: "comm-1", Name: "Oak Street", CreatedBy: alice.ID}
	require.NoError(t, db.Create(&community).Error)
	require.NoError(t, db.Create(&models.Resource{
		ID: "res-1", CommunityID: community.ID, OwnerID: alice.ID,
		Kind: models.ResourceOffer, Title: "Ladder",
	}).Error)

	r := setupFeedRouter(t, db, alice.ID)

	w, resp := doFeedRequest(t, r, "/api/v1/feed/community?community_id=comm-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, activity.TypeResourceCreated, resp.Items[0].Type)
	assert.Equal(t, "New offer: Ladder", resp.Items[0].Title)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

func TestGetCommunityFeedRejectsBadSince(t *testing.T) {
	r := setupFeedRouter(t, setupTestDB(t), "user-me")

	w, _ := doFeedRequest(t, r, "/api/v1/feed/community?community_id=comm-1&since=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
