package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeForTests()
	os.Exit(m.Run())
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return NewService(db, []byte("test-secret")), db
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := models.User{
		Email:        email,
		Username:     "testuser",
		FullName:     "Test User",
		PasswordHash: &hashStr,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestLogin(t *testing.T) {
	svc, db := setupService(t)
	user := createTestUser(t, db, "ada@example.com", "correct-horse")

	resp, err := svc.Login(LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.False(t, resp.ExpiresAt.IsZero())

	// Email matching is case-insensitive
	_, err = svc.Login(LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupService(t)
	createTestUser(t, db, "ada@example.com", "correct-horse")

	_, err := svc.Login(LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	svc, db := setupService(t)

	require.NoError(t, db.Create(&models.User{
		Email: "sso@example.com", Username: "sso",
	}).Error)

	_, err := svc.Login(LoginRequest{Email: "sso@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc, db := setupService(t)
	user := createTestUser(t, db, "ada@example.com", "correct-horse")

	resp, err := svc.GenerateTokenForUser(&user)
	require.NoError(t, err)

	got, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, db := setupService(t)
	user := createTestUser(t, db, "ada@example.com", "correct-horse")

	other := NewService(db, []byte("different-secret"))
	resp, err := other.GenerateTokenForUser(&user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	svc, db := setupService(t)
	user := createTestUser(t, db, "ada@example.com", "correct-horse")

	resp, err := svc.GenerateTokenForUser(&user)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", svc.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	// Valid token
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)

	// Missing header
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
