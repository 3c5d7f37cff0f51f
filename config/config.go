package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"CAMPUSHUB_APP_"`
	Server   ServerConfig   `envPrefix:"CAMPUSHUB_SERVER_"`
	Log      LogConfig      `envPrefix:"CAMPUSHUB_LOG_"`
	Database DatabaseConfig `envPrefix:"CAMPUSHUB_DB_"`
	JWT      JWTConfig      `envPrefix:"CAMPUSHUB_JWT_"`
	Auth     AuthConfig     `envPrefix:"CAMPUSHUB_AUTH_"`
	Mail     MailConfig     `envPrefix:"CAMPUSHUB_MAIL_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"campushub"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Format     string `env:"FORMAT" envDefault:"json"`
	OutputPath string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"campushub.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	SecretKey     string        `env:"SECRET_KEY,required"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
	Issuer        string        `env:"ISSUER" envDefault:"campushub"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
}

type AuthConfig struct {
	MinLength          int    `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
	RequireUpper       bool   `env:"PASSWORD_REQUIRE_UPPER" envDefault:"true"`
	RequireLower       bool   `env:"PASSWORD_REQUIRE_LOWER" envDefault:"true"`
	RequireNumber      bool   `env:"PASSWORD_REQUIRE_NUMBER" envDefault:"true"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"10"`
	SuperAdminUsername string `env:"SUPERADMIN_USERNAME" envDefault:""`
	SuperAdminPassword string `env:"SUPERADMIN_PASSWORD" envDefault:""`
	CookieSecure       bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

type MailConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME" envDefault:""`
	Password    string `env:"PASSWORD" envDefault:""`
	Encryption  string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:""`
	FromName    string `env:"FROM_NAME" envDefault:"campushub"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return cfg.Validate()
}

// Validate rejects configurations the token subsystem cannot operate under.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT algorithm: %s (supported: HS256, HS384, HS512)", c.JWT.Algorithm)
	}
	if c.JWT.AccessExpiry <= 0 || c.JWT.RefreshExpiry <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.JWT.AccessExpiry >= c.JWT.RefreshExpiry {
		return fmt.Errorf("access token lifetime (%s) must be shorter than refresh token lifetime (%s)",
			c.JWT.AccessExpiry, c.JWT.RefreshExpiry)
	}
	return nil
}
