package repository

import (
	"context"
	"errors"

	"github.com/gatherly/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// UserRepository handles all database operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Batch lookup used by the activity aggregator: one IN query per run
	// instead of one lookup per row. Missing ids are absent from the map.
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]*models.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser creates a new user
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(user).Error
}

// GetUser gets a user by ID
func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// GetUserByEmail gets a user by email (case-insensitive)
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return &user, err
}

// UpdateUser updates a user
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Save(user).Error
}

// GetUsersByIDs gets multiple users by ID, keyed by ID
func (r *userRepository) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]*models.User, error) {
	result := make(map[string]*models.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
