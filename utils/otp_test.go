package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = true
	}

	assert.Greater(t, len(seen), 1, "codes must not be constant")
}

func TestGenerateUserID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{32}$`)

	first, err := GenerateUserID()
	require.NoError(t, err)
	assert.Regexp(t, pattern, first)

	second, err := GenerateUserID()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, CheckPassword("secret", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}
