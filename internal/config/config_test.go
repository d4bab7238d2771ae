package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"0s", 0},
		{"5y", defaultExpiry},
		{"abc", defaultExpiry},
		{"", defaultExpiry},
		{"m", defaultExpiry},
		{"-5m", defaultExpiry},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseExpiry(tt.in), "input %q", tt.in)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "")

	cfg := Load()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessExpiresIn)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshExpiresIn)
	assert.NotEmpty(t, cfg.DatabaseURL)
}
