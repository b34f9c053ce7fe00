package models

import "time"

// User is a registered account on the server. AuthKeyHash is the SHA256
// of the client-derived auth key; the server never sees the password.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	AuthKeyHash string    `json:"auth_key_hash"`
	PublicSalt  string    `json:"public_salt"` // base64 encoded salt (32 bytes)
	CreatedAt   time.Time `json:"created_at"`
	LastLogin   time.Time `json:"last_login"`
}
