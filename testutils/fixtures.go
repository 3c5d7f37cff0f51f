package testutils

import (
	"time"

	"github.com/arman-dehghani/campushub/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "campushub-test",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			MinLength:     8,
			RequireUpper:  true,
			RequireLower:  true,
			RequireNumber: true,
			BcryptCost:    bcrypt.MinCost,
			CookieSecure:  false,
		},
		JWT: config.JWTConfig{
			SecretKey:     "test-secret-key-32-chars-long!!",
			Algorithm:     "HS256",
			Issuer:        "test-issuer",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
	}
}
