package services

import (
	"context"
	"testing"

	"udinder-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture() (*AdminService, *memUsers, *memAdmins) {
	users := newMemUsers()
	users.add(rootUser, "root@example.com")
	users.add(modUser, "mod@example.com")
	users.add(plainUser, "user@example.com")
	admins := &memAdmins{admins: map[string]*models.Admin{
		rootUser: {ID: "a1", UserID: rootUser},
	}}
	return NewAdminService(admins, users), users, admins
}

func TestIsActiveAdmin(t *testing.T) {
	svc, _, admins := newAdminFixture()
	ctx := context.Background()

	ok, err := svc.IsActiveAdmin(ctx, rootUser)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsActiveAdmin(ctx, plainUser)
	require.NoError(t, err)
	assert.False(t, ok)

	admins.admins[rootUser].IsBlocked = true
	ok, err = svc.IsActiveAdmin(ctx, rootUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantAndBlock(t *testing.T) {
	svc, _, _ := newAdminFixture()
	ctx := context.Background()

	require.NoError(t, svc.Grant(ctx, rootUser, modUser))
	ok, err := svc.IsActiveAdmin(ctx, modUser)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.SetBlocked(ctx, rootUser, modUser, true))
	ok, err = svc.IsActiveAdmin(ctx, modUser)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.SetBlocked(ctx, rootUser, rootUser, true), ErrSelfAction)
	assert.ErrorIs(t, svc.SetBlocked(ctx, rootUser, plainUser, true), ErrNotFound)
	assert.ErrorIs(t, svc.Grant(ctx, rootUser, ghost), ErrNotFound)
}

func TestListAndDeleteUsers(t *testing.T) {
	svc, _, _ := newAdminFixture()
	ctx := context.Background()

	page, err := svc.ListUsers(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.Equal(t, 3, page.Total)

	assert.ErrorIs(t, svc.DeleteUser(ctx, rootUser, rootUser), ErrSelfAction)
	require.NoError(t, svc.DeleteUser(ctx, rootUser, plainUser))
	assert.ErrorIs(t, svc.DeleteUser(ctx, rootUser, plainUser), ErrNotFound)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Users)
}
