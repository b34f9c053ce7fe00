package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
)

func TestSaveAndGetAuth(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	auth := &storage.AuthData{
		Username:    "forecaster",
		UserID:      "user-123",
		AccessToken: "token-abc",
		PublicSalt:  "c2FsdA==",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}

	require.NoError(t, store.SaveAuth(ctx, auth))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.Username, got.Username)
	assert.Equal(t, auth.AccessToken, got.AccessToken)
}

func TestGetAuth_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetAuth(context.Background())
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestDeleteAuth(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAuth(ctx, &storage.AuthData{Username: "forecaster"}))
	require.NoError(t, store.DeleteAuth(ctx))

	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)

	// Deleting again is not an error
	require.NoError(t, store.DeleteAuth(ctx))
}
