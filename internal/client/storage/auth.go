package storage

import "context"

//go:generate moq -out auth_mock.go . AuthStorage

// AuthStorage persists the login session on the client.
type AuthStorage interface {
	// SaveAuth stores the current session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthData is the stored session: who is logged in and the bearer token
// the remote adapter attaches to every call.
type AuthData struct {
	Username    string `json:"username"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	PublicSalt  string `json:"public_salt"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds
}
