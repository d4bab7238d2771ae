package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestHashPassword_EmptyString(t *testing.T) {
	hash, err := HashPassword("")
	require.NoError(t, err)

	assert.True(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("something", hash))
}

func TestCheckPassword_NeverErrors(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("", ""))
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
}

func TestHashPassword_ProducesDistinctHashes(t *testing.T) {
	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}
