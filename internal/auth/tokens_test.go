package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndVerifyAccess(t *testing.T) {
	tm := newTestManager()

	token, err := tm.IssueAccess("user-123", "a@example.com")
	require.NoError(t, err)

	claims, err := tm.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	tm := newTestManager()

	token, err := tm.IssueRefresh("user-123")
	require.NoError(t, err)

	claims, err := tm.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Empty(t, claims.Email)
}

func TestVerify_WrongDomain(t *testing.T) {
	tm := newTestManager()

	access, err := tm.IssueAccess("user-123", "a@example.com")
	require.NoError(t, err)
	refresh, err := tm.IssueRefresh("user-123")
	require.NoError(t, err)

	_, err = tm.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongDomainWithSharedSecret(t *testing.T) {
	// Even with one secret for both domains the token-use claim keeps the
	// domains apart.
	tm := NewTokenManager("same-secret", "same-secret", time.Hour, time.Hour)

	access, err := tm.IssueAccess("user-123", "a@example.com")
	require.NoError(t, err)

	_, err = tm.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("different-access", "different-refresh", time.Hour, time.Hour)

	token, err := tm.IssueAccess("user-123", "a@example.com")
	require.NoError(t, err)

	_, err = other.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -1*time.Second, -1*time.Second)

	token, err := tm.IssueAccess("user-123", "a@example.com")
	require.NoError(t, err)

	_, err = tm.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	tm := newTestManager()

	for _, input := range []string{"", "   ", "garbage", "not.a.token", "a.b.c"} {
		_, err := tm.VerifyAccess(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
		_, err = tm.VerifyRefresh(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
	}
}
