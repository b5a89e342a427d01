package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "30m")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("PIN_MAX_ATTEMPTS", "3")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.PinMaxAttempts)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, time.Minute, cfg.PinAttemptWindow)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	t.Setenv("GIN_MODE", "release")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDebugFallsBackToDevSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.AccessTokenSecret)
	assert.NotEqual(t, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
}

func TestValidate(t *testing.T) {
	base := Config{
		AccessTokenSecret:  "a",
		RefreshTokenSecret: "b",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		DBDriver:           "memory",
	}

	cfg := base
	require.NoError(t, cfg.Validate())

	cfg = base
	cfg.RefreshTokenSecret = "a"
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.DBDriver = "mongo"
	require.Error(t, cfg.Validate())

	cfg = base
	cfg.AccessTokenTTL = 0
	require.Error(t, cfg.Validate())
}
