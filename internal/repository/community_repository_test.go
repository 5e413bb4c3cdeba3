package repository

import (
	"context"
	"testing"

	"github.com/gatherly/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	community := &models.Community{Name: "Oak Street", CreatedBy: "user-1"}
	require.NoError(t, repo.CreateCommunity(ctx, community))
	require.NotEmpty(t, community.ID)

	got, err := repo.GetCommunity(ctx, community.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oak Street", got.Name)

	_, err = repo.GetCommunity(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestGetCommunitiesByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	first := &models.Community{Name: "First"}
	second := &models.Community{Name: "Second"}
	require.NoError(t, repo.CreateCommunity(ctx, first))
	require.NoError(t, repo.CreateCommunity(ctx, second))

	result, err := repo.GetCommunitiesByIDs(ctx, []string{first.ID, second.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "First", result[first.ID].Name)

	empty, err := repo.GetCommunitiesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMembership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	first := &models.Community{Name: "First"}
	second := &models.Community{Name: "Second"}
	require.NoError(t, repo.CreateCommunity(ctx, first))
	require.NoError(t, repo.CreateCommunity(ctx, second))

	require.NoError(t, repo.AddMember(ctx, &models.CommunityMember{
		CommunityID: first.ID, UserID: "user-1", Role: models.RoleMember,
	}))
	require.NoError(t, repo.AddMember(ctx, &models.CommunityMember{
		CommunityID: second.ID, UserID: "user-1", Role: models.RoleAdmin,
	}))
	require.NoError(t, repo.AddMember(ctx, &models.CommunityMember{
		CommunityID: first.ID, UserID: "user-2", Role: models.RoleMember,
	}))

	ids, err := repo.GetMemberCommunityIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	none, err := repo.GetMemberCommunityIDs(ctx, "user-none")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.ErrorIs(t, repo.AddMember(ctx, &models.CommunityMember{UserID: "u"}), ErrInvalidInput)
}
