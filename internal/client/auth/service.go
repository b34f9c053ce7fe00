// Package auth manages the client-side account session: registration,
// login with the argon2id auth-key flow (the password itself never
// leaves the device), and the stored access token the remote adapter
// attaches to every request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/crypto"
	"github.com/anti-elegant/Delphi-sub000/internal/validation"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

// ErrSessionExpired means the stored access token is past its expiry;
// the user has to log in again.
var ErrSessionExpired = errors.New("session expired, please login again")

// ErrNotAuthenticated means no session is stored at all.
var ErrNotAuthenticated = errors.New("not logged in")

// apiClient is the slice of the auth HTTP client the service needs.
type apiClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	GetSalt(ctx context.Context, username string) (*api.SaltResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
}

// Service handles registration, login and the persisted session.
// It implements the remote adapter's TokenProvider.
type Service struct {
	client apiClient
	store  storage.AuthStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the auth service.
func NewService(client apiClient, store storage.AuthStorage, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a new account and logs it in. The server receives
// only the SHA256 of the derived auth key, never the password.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	publicSalt, err := crypto.GenerateSaltBase64()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	authKeyHash, err := s.deriveHash(username, password, publicSalt)
	if err != nil {
		return err
	}

	resp, err := s.client.Register(ctx, api.RegisterRequest{
		Username:    username,
		AuthKeyHash: authKeyHash,
		PublicSalt:  publicSalt,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("account registered", "username", username, "user_id", resp.UserID)

	return s.login(ctx, username, authKeyHash, resp.UserID, publicSalt)
}

// Login authenticates an existing account and persists the session.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	saltResp, err := s.client.GetSalt(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get salt: %w", err)
	}

	authKeyHash, err := s.deriveHash(username, password, saltResp.PublicSalt)
	if err != nil {
		return err
	}

	return s.login(ctx, username, authKeyHash, "", saltResp.PublicSalt)
}

func (s *Service) login(ctx context.Context, username, authKeyHash, userID, publicSalt string) error {
	resp, err := s.client.Login(ctx, api.LoginRequest{
		Username:    username,
		AuthKeyHash: authKeyHash,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	session := &storage.AuthData{
		Username:    username,
		UserID:      userID,
		AccessToken: resp.AccessToken,
		PublicSalt:  publicSalt,
		ExpiresAt:   s.now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}
	if err := s.store.SaveAuth(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "username", username)

	return nil
}

// Logout drops the local session. The server keeps no session state to
// invalidate; the token simply expires.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session returns the stored session, expired or not.
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	session, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// IsAuthenticated reports whether a non-expired session exists.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	_, err := s.AccessToken(ctx)
	return err == nil
}

// AccessToken returns the current bearer token, implementing the
// remote adapter's TokenProvider.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	if s.now().Unix() >= session.ExpiresAt {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}

func (s *Service) deriveHash(username, password, publicSalt string) (string, error) {
	authKey, err := crypto.DeriveAuthKeyFromBase64Salt(password, username, publicSalt)
	if err != nil {
		return "", fmt.Errorf("failed to derive auth key: %w", err)
	}
	hash, err := crypto.HashAuthKey(authKey)
	if err != nil {
		return "", fmt.Errorf("failed to hash auth key: %w", err)
	}
	return hash, nil
}
