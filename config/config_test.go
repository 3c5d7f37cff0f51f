package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWT: JWTConfig{
			SecretKey:     "test-secret-key-32-chars-long!!",
			Algorithm:     "HS256",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.SecretKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Algorithm = "RS256"
		assert.Error(t, cfg.Validate())
	})

	t.Run("access lifetime must be shorter than refresh", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.AccessExpiry = cfg.JWT.RefreshExpiry
		assert.Error(t, cfg.Validate())

		cfg.JWT.AccessExpiry = cfg.JWT.RefreshExpiry + time.Minute
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive lifetimes rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.AccessExpiry = 0
		assert.Error(t, cfg.Validate())
	})
}
