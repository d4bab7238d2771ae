// Package auth implements password hashing and the two JWT signing domains
// (access and refresh). Each domain has its own secret and lifetime; claims
// additionally carry a token-use marker so a token can never be accepted by
// the other domain's verifier.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Email    string `json:"email,omitempty"`
	TokenUse string `json:"tokenUse"`
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (tm *TokenManager) IssueAccess(userID, email string) (string, error) {
	return issue(tm.accessSecret, tm.accessTTL, Claims{
		UserID:   userID,
		Email:    email,
		TokenUse: tokenUseAccess,
	})
}

func (tm *TokenManager) IssueRefresh(userID string) (string, error) {
	return issue(tm.refreshSecret, tm.refreshTTL, Claims{
		UserID:   userID,
		TokenUse: tokenUseRefresh,
	})
}

func (tm *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return verify(token, tm.accessSecret, tokenUseAccess)
}

func (tm *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, tm.refreshSecret, tokenUseRefresh)
}

func issue(secret []byte, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func verify(tokenStr string, secret []byte, use string) (*Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.TokenUse != use {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
