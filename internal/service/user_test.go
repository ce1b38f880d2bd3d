package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/userfiles/internal/model"
)

func TestEnsure_CreatesThenRenames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.users.Ensure(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", created.ExternalID)
	assert.Equal(t, "Alice", created.Name)

	users, err := f.users.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	renamed, err := f.users.Ensure(ctx, identity("abc123", "Alicia"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "abc123", renamed.ExternalID)
	assert.Equal(t, "Alicia", renamed.Name)

	users, err = f.users.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alicia", users[0].Name)
}

func TestEnsure_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.users.Ensure(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)
	second, err := f.users.Ensure(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)

	users, err := f.users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsure_DefaultsToAnonymous(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Ensure(ctx, identity("nameless", ""))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserName, user.Name)

	// A name appearing later replaces the default
	user, err = f.users.Ensure(ctx, identity("nameless", "Nia"))
	require.NoError(t, err)
	assert.Equal(t, "Nia", user.Name)

	// And disappearing again reverts to the default
	user, err = f.users.Ensure(ctx, identity("nameless", "  "))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserName, user.Name)
}

func TestEnsure_Anonymous(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Ensure(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	users, err := f.users.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestByExternalID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.users.ByExternalID(ctx, "abc123")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.Ensure(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)

	user, err := f.users.ByExternalID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.users.Current(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = f.users.Current(ctx, identity("abc123", "Alice"))
	assert.ErrorIs(t, err, ErrMissingUserRecord)

	_, err = f.users.RequireCurrent(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = f.users.Ensure(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)

	user, err = f.users.RequireCurrent(ctx, identity("abc123", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", user.ExternalID)
}
