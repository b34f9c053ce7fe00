package handlers

import "context"

// contextKey is the private type for request context keys.
type contextKey string

const (
	// UserIDKey stores the authenticated user's ID in the request context
	UserIDKey contextKey = "user_id"
	// UsernameKey stores the authenticated username in the request context
	UsernameKey contextKey = "username"
)

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsername extracts the authenticated username from the request context.
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
