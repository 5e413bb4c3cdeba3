package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gatherly/backend/internal/activity"
	"github.com/gatherly/backend/internal/auth"
	"github.com/gatherly/backend/internal/cache"
	"github.com/gatherly/backend/internal/models"
	"github.com/gatherly/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	activityService := activity.NewService(db,
		repository.NewUserRepository(db),
		repository.NewCommunityRepository(db))
	authService := auth.NewService(db, []byte("test-secret"))
	h := NewHandlers(activityService, authService, cache.NewFeedCache(nil, 0))

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.GET("/api/v1/auth/me", authService.Middleware(), h.Me)
	return r
}

func createLoginUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := models.User{
		Email:        email,
		Username:     "ada",
		FullName:     "Ada Lovelace",
		PasswordHash: &hashStr,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func postLogin(t *testing.T, r *gin.Engine, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createLoginUser(t, db, "ada@example.com", "correct-horse")
	r := setupAuthRouter(t, db)

	w := postLogin(t, r, gin.H{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLoginHandlerRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	createLoginUser(t, db, "ada@example.com", "correct-horse")
	r := setupAuthRouter(t, db)

	// Wrong password
	w := postLogin(t, r, gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing password fails binding
	w = postLogin(t, r, gin.H{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not an email
	w = postLogin(t, r, gin.H{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeHandler(t *testing.T) {
	db := setupTestDB(t)
	user := createLoginUser(t, db, "ada@example.com", "correct-horse")
	r := setupAuthRouter(t, db)

	w := postLogin(t, r, gin.H{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	w = httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	// No token
	w = httptest.NewRecorder()
	req, err = http.NewRequest("GET", "/api/v1/auth/me", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
