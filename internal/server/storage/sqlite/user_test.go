package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testUser(username string) *models.User {
	return &models.User{
		ID:          "user-" + username,
		Username:    username,
		AuthKeyHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		PublicSalt:  "c2FsdA==",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := testUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.AuthKeyHash, got.AuthKeyHash)
	assert.Equal(t, user.PublicSalt, got.PublicSalt)
	assert.Equal(t, user.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("alice")))

	dup := testUser("alice")
	dup.ID = "user-other"
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestGetUserByID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := testUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = s.GetUserByID(ctx, "user-missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	user := testUser("alice")
	require.NoError(t, s.CreateUser(ctx, user))

	loginTime := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpdateLastLogin(ctx, user.ID, loginTime))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, loginTime.Unix(), got.LastLogin.Unix())

	err = s.UpdateLastLogin(ctx, "user-missing", loginTime)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
