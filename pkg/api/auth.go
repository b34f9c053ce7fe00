package api

// RegisterRequest creates a new account. The client never sends its
// password: AuthKeyHash is the SHA256 of the argon2id-derived auth key.
type RegisterRequest struct {
	Username    string `json:"username"`
	AuthKeyHash string `json:"auth_key_hash"`
	PublicSalt  string `json:"public_salt"` // base64 encoded salt (32 bytes)
}

// RegisterResponse confirms a successful registration.
type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// SaltResponse returns the public salt needed to derive the auth key.
type SaltResponse struct {
	PublicSalt string `json:"public_salt"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username    string `json:"username"`
	AuthKeyHash string `json:"auth_key_hash"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // access token lifetime in seconds
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
