package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Host          string
	Port          string
	DatabaseURL   string
	SessionKey    string
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool
	BcryptCost    int
	LogLevel      string
	LogFormat     string
}

// Load reads the environment, after merging any of the given .env files
// that exist. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return nil, err
			}
		}
	}

	sessionKey := envString("SESSION_KEY", os.Getenv("JWT_KEY"))
	if sessionKey == "" {
		return nil, errors.New("SESSION_KEY environment variable is required")
	}

	return &Config{
		Host:          envString("HOST", "0.0.0.0"),
		Port:          envString("PORT", "10000"),
		DatabaseURL:   envString("DATABASE_URL", "goalgrid.db"),
		SessionKey:    sessionKey,
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		SessionCookie: envString("SESSION_COOKIE", "goalgrid_session"),
		CookieSecure:  envBool("COOKIE_SECURE", false),
		BcryptCost:    envInt("BCRYPT_COST", bcrypt.DefaultCost),
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogFormat:     envString("LOG_FORMAT", "text"),
	}, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
