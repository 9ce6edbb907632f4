package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var configKeys = []string{
	"HOST", "PORT", "DATABASE_URL", "SESSION_KEY", "JWT_KEY", "SESSION_TTL",
	"SESSION_COOKIE", "COOKIE_SECURE", "BCRYPT_COST", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, "0.0.0.0:10000", cfg.Addr())
	assert.Equal(t, "goalgrid.db", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.SessionKey)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "goalgrid_session", cfg.SessionCookie)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadRequiresSessionKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_KEY")
}

func TestLoadFallsBackToJWTKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_KEY", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.SessionKey)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_KEY", "secret")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, and
	// t.Setenv("", ...) counts as set, so unset the ones the file provides.
	require.NoError(t, os.Unsetenv("SESSION_KEY"))
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Cleanup(func() {
		os.Unsetenv("SESSION_KEY")
		os.Unsetenv("DATABASE_URL")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SESSION_KEY=from-file\nDATABASE_URL=postgres://localhost/goalgrid\n"), 0o600))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SessionKey)
	assert.Equal(t, "postgres://localhost/goalgrid", cfg.DatabaseURL)
}
