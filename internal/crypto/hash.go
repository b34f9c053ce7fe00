package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// HashAuthKey hashes the derived auth key with SHA256. The key is
// already hardened by argon2id; the hash is what gets stored and
// compared server-side, so the key itself never persists anywhere.
func HashAuthKey(authKey []byte) (string, error) {
	if len(authKey) == 0 {
		return "", fmt.Errorf("auth key cannot be empty")
	}

	hash := sha256.Sum256(authKey)
	return hex.EncodeToString(hash[:]), nil
}

// VerifyAuthKeyHash compares a client-supplied auth key hash against the
// stored one in constant time.
func VerifyAuthKeyHash(supplied, stored string) error {
	if supplied == "" || stored == "" {
		return fmt.Errorf("auth key hash cannot be empty")
	}

	if subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) != 1 {
		return fmt.Errorf("invalid auth key")
	}

	return nil
}
