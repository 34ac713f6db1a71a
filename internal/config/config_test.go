package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		JWTSecret:      "a-sufficiently-long-secret-for-tests-0123456789",
		Port:           "8460",
		DBHost:         "localhost",
		DBPort:         "5432",
		DBUser:         "user",
		DBPassword:     "s3cure-pw",
		DBName:         "telework",
		DBSSLMode:      "require",
		RedisURL:       "localhost:6379",
		AllowedOrigins: "http://localhost:5173",
		Env:            "development",
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, cfg.Validate())

	// A short secret is tolerated outside production
	cfg.JWTSecret = "short"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := baseConfig()
	cfg.Port = ""
	assert.ErrorContains(t, cfg.Validate(), "PORT")

	cfg = baseConfig()
	cfg.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
}

func TestValidate_ProductionStrictness(t *testing.T) {
	t.Run("default JWT secret rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.ErrorContains(t, cfg.Validate(), "default value")
	})

	t.Run("short JWT secret rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "too-short"
		assert.ErrorContains(t, cfg.Validate(), "32 characters")
	})

	t.Run("weak DB password rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBPassword = "password"
		assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")
	})

	t.Run("disabled SSL rejected", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBSSLMode = "disable"
		assert.ErrorContains(t, cfg.Validate(), "DB_SSLMODE")
	})

	t.Run("prod alias enforced", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "prod"
		cfg.DBSSLMode = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("well configured production passes", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		assert.NoError(t, cfg.Validate())
	})
}
