package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/crypto"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

const (
	testUsername = "forecaster"
	testPassword = "correct-horse-battery"
)

// fakeAPI implements apiClient with canned responses and records the
// hashes it saw.
type fakeAPI struct {
	salt          string
	registerCalls []api.RegisterRequest
	loginCalls    []api.LoginRequest
	loginErr      error
}

func (f *fakeAPI) Register(_ context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	f.registerCalls = append(f.registerCalls, req)
	f.salt = req.PublicSalt
	return &api.RegisterResponse{UserID: "user-1"}, nil
}

func (f *fakeAPI) GetSalt(_ context.Context, _ string) (*api.SaltResponse, error) {
	return &api.SaltResponse{PublicSalt: f.salt}, nil
}

func (f *fakeAPI) Login(_ context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	f.loginCalls = append(f.loginCalls, req)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.TokenResponse{AccessToken: "jwt-token", ExpiresIn: 900}, nil
}

func memAuthStorage() storage.AuthStorage {
	var saved *storage.AuthData
	return &storage.AuthStorageMock{
		SaveAuthFunc: func(_ context.Context, auth *storage.AuthData) error {
			saved = auth
			return nil
		},
		GetAuthFunc: func(_ context.Context) (*storage.AuthData, error) {
			if saved == nil {
				return nil, storage.ErrAuthNotFound
			}
			return saved, nil
		},
		DeleteAuthFunc: func(_ context.Context) error {
			if saved == nil {
				return storage.ErrAuthNotFound
			}
			saved = nil
			return nil
		},
	}
}

func newTestService(client apiClient) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(client, memAuthStorage(), logger)
}

func TestService_RegisterLogsIn(t *testing.T) {
	client := &fakeAPI{}
	s := newTestService(client)

	ctx := context.Background()
	require.NoError(t, s.Register(ctx, testUsername, testPassword))

	require.Len(t, client.registerCalls, 1)
	require.Len(t, client.loginCalls, 1)

	// The password never travels; only the derived hash does
	assert.NotContains(t, client.registerCalls[0].AuthKeyHash, testPassword)
	assert.Equal(t, client.registerCalls[0].AuthKeyHash, client.loginCalls[0].AuthKeyHash)

	assert.True(t, s.IsAuthenticated(ctx))
}

func TestService_LoginDerivesSameHash(t *testing.T) {
	salt, err := crypto.GenerateSaltBase64()
	require.NoError(t, err)

	client := &fakeAPI{salt: salt}
	s := newTestService(client)

	ctx := context.Background()
	require.NoError(t, s.Login(ctx, testUsername, testPassword))
	require.NoError(t, s.Login(ctx, testUsername, testPassword))

	require.Len(t, client.loginCalls, 2)
	assert.Equal(t, client.loginCalls[0].AuthKeyHash, client.loginCalls[1].AuthKeyHash)
}

func TestService_ValidatesInput(t *testing.T) {
	s := newTestService(&fakeAPI{})
	ctx := context.Background()

	assert.Error(t, s.Login(ctx, "x", testPassword))            // username too short
	assert.Error(t, s.Login(ctx, testUsername, "short"))        // password too short
	assert.Error(t, s.Register(ctx, "bad name!", testPassword)) // illegal characters
}

func TestService_AccessToken(t *testing.T) {
	client := &fakeAPI{}
	s := newTestService(client)
	ctx := context.Background()

	_, err := s.AccessToken(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, s.Register(ctx, testUsername, testPassword))

	token, err := s.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestService_AccessTokenExpired(t *testing.T) {
	client := &fakeAPI{}
	s := newTestService(client)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, testUsername, testPassword))

	// Jump past the 900s token lifetime
	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	_, err := s.AccessToken(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, s.IsAuthenticated(ctx))
}

func TestService_Logout(t *testing.T) {
	client := &fakeAPI{}
	s := newTestService(client)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, testUsername, testPassword))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated(ctx))

	// Logging out twice is fine
	require.NoError(t, s.Logout(ctx))
}
