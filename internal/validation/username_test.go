package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"alice",
		"ALICE",
		"forecaster_7",
		"123456",
		strings.Repeat("a", 32),
	}
	for _, username := range valid {
		assert.NoError(t, ValidateUsername(username), username)
	}

	invalid := []struct {
		username string
		errMsg   string
	}{
		{"", "username cannot be empty"},
		{"ab", "must be at least 3 characters"},
		{strings.Repeat("a", 33), "must not exceed 32 characters"},
		{"alice.smith", "can only contain letters"},
		{"alice-smith", "can only contain letters"},
		{"alice smith", "can only contain letters"},
		{"alice@example.com", "can only contain letters"},
		{"алиса", "can only contain letters"},
	}
	for _, tt := range invalid {
		err := ValidateUsername(tt.username)
		require.Error(t, err, tt.username)
		assert.Contains(t, err.Error(), tt.errMsg)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct horse battery"))
	assert.NoError(t, ValidatePassword("P@ssw0rd!@#$")) // exactly 12

	err := ValidatePassword("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")

	err = ValidatePassword("elevenchars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 12 characters")
}
