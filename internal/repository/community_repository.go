package repository

import (
	"context"
	"errors"

	"github.com/gatherly/backend/internal/models"
	"gorm.io/gorm"
)

var ErrCommunityNotFound = errors.New("community not found")

// CommunityRepository handles all database operations for communities
type CommunityRepository interface {
	CreateCommunity(ctx context.Context, community *models.Community) error
	GetCommunity(ctx context.Context, communityID string) (*models.Community, error)

	// Batch lookup used by the activity aggregator, keyed by ID
	GetCommunitiesByIDs(ctx context.Context, communityIDs []string) (map[string]*models.Community, error)

	// Membership
	GetMemberCommunityIDs(ctx context.Context, userID string) ([]string, error)
	AddMember(ctx context.Context, member *models.CommunityMember) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// CreateCommunity creates a new community
func (r *communityRepository) CreateCommunity(ctx context.Context, community *models.Community) error {
	if community == nil {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(community).Error
}

// GetCommunity gets a community by ID
func (r *communityRepository) GetCommunity(ctx context.Context, communityID string) (*models.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).Where("id = ?", communityID).First(&community).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommunityNotFound
	}

	return &community, err
}

// GetCommunitiesByIDs gets multiple communities by ID, keyed by ID
func (r *communityRepository) GetCommunitiesByIDs(ctx context.Context, communityIDs []string) (map[string]*models.Community, error) {
	result := make(map[string]*models.Community, len(communityIDs))
	if len(communityIDs) == 0 {
		return result, nil
	}

	var communities []*models.Community
	err := r.db.WithContext(ctx).
		Where("id IN ?", communityIDs).
		Find(&communities).Error
	if err != nil {
		return nil, err
	}

	for _, c := range communities {
		result[c.ID] = c
	}
	return result, nil
}

// GetMemberCommunityIDs returns the ids of every community the user belongs to
func (r *communityRepository) GetMemberCommunityIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error
	return ids, err
}

// AddMember adds a user to a community
func (r *communityRepository) AddMember(ctx context.Context, member *models.CommunityMember) error {
	if member == nil || member.UserID == "" || member.CommunityID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(member).Error
}
