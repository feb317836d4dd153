package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("BASE_URL", "https://accounts.example.com/")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "no-reply@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://accounts.example.com", cfg.BaseURL)
	assert.Equal(t, cfg.BaseURL, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestValidateRequiresSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestValidateRejectsShortSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "short")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := &Config{SessionTTL: time.Hour, ResetTokenTTL: time.Minute, BcryptCost: 10}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "DB_PASSWORD", "BASE_URL", "SMTP_HOST", "SMTP_FROM"} {
		assert.Contains(t, err.Error(), want)
	}
}
