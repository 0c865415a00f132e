package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/utils"
)

func TestUserService_SeedAdmin(t *testing.T) {
	users := &userStore{}
	svc := NewUserService(users, nil)
	ctx := context.Background()

	created, err := svc.SeedAdmin(ctx, " Admin@Example.com ", "s3cret-pass", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, users.users, 1)
	seeded := users.users[0]
	assert.Equal(t, "admin@example.com", seeded.Email)
	assert.Equal(t, models.RoleAdmin, seeded.Role)
	assert.Equal(t, models.UserStatusApproved, seeded.Status)
	assert.NoError(t, utils.CheckPassword(seeded.Password, "s3cret-pass"))

	created, err = svc.SeedAdmin(ctx, "admin@example.com", "other", "Again")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, users.users, 1)
}

func TestUserService_SeedAdminSkipsWithoutCredentials(t *testing.T) {
	users := &userStore{}
	created, err := NewUserService(users, nil).SeedAdmin(context.Background(), "", "", "")

	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, users.users)
}

func TestUserService_ApproveReject(t *testing.T) {
	pending := &models.User{ID: primitive.NewObjectID(), Email: "p@example.com", Status: models.UserStatusPending}
	users := &userStore{users: []*models.User{pending}}
	svc := NewUserService(users, nil)
	ctx := context.Background()

	u, err := svc.Approve(ctx, pending.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusApproved, u.Status)

	u, err = svc.Reject(ctx, pending.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusRejected, u.Status)

	_, err = svc.Approve(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ListFilters(t *testing.T) {
	users := &userStore{users: []*models.User{
		{ID: primitive.NewObjectID(), Role: models.RoleUser, Status: models.UserStatusPending},
		{ID: primitive.NewObjectID(), Role: models.RoleUser, Status: models.UserStatusApproved},
		{ID: primitive.NewObjectID(), Role: models.RoleTeamLeader, Status: models.UserStatusApproved},
	}}

	got, err := NewUserService(users, nil).List(context.Background(), models.UserFilter{Role: models.RoleUser})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = NewUserService(users, nil).List(context.Background(), models.UserFilter{Status: models.UserStatusApproved})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
