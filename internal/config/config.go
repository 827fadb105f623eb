package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Signing keys below this length are rejected at startup.
	minSigningKeyBytes = 32

	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Config holds every value the service reads from the environment. It is
// built once at startup, validated eagerly, and passed by value into the
// components that need it. Nothing reads the environment after Load returns.
type Config struct {
	AppName     string
	Env         string
	Port        string
	DatabaseDSN string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	BcryptCost int
}

// Load reads the environment (and a .env file, if one exists) and returns a
// validated Config. Missing or malformed security-sensitive values are a
// startup failure, never a runtime surprise.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional in production, convenient in development

	accessTTL, err := durationEnv("ACCESS_TOKEN_TTL", defaultAccessTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[config.Load] ACCESS_TOKEN_TTL")
	}
	refreshTTL, err := durationEnv("REFRESH_TOKEN_TTL", defaultRefreshTokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[config.Load] REFRESH_TOKEN_TTL")
	}
	cost, err := intEnv("BCRYPT_COST", bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "[config.Load] BCRYPT_COST")
	}

	c := &Config{
		AppName:            GetEnv("APP_NAME", "Blog Auth"),
		Env:                GetEnv("ENV", "DEV"),
		Port:               port(),
		DatabaseDSN:        GetEnv("DATABASE_URL", "file::memory:?cache=shared"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		BcryptCost:         cost,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants the rest of the system relies on.
func (c *Config) Validate() error {
	if len(c.AccessTokenSecret) < minSigningKeyBytes {
		return errors.Errorf("[Config.Validate] ACCESS_TOKEN_SECRET must be at least %d bytes", minSigningKeyBytes)
	}
	if len(c.RefreshTokenSecret) < minSigningKeyBytes {
		return errors.Errorf("[Config.Validate] REFRESH_TOKEN_SECRET must be at least %d bytes", minSigningKeyBytes)
	}
	// Key separation: a leaked access key must not be able to forge refresh tokens.
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("[Config.Validate] access and refresh signing keys must differ")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("[Config.Validate] access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return errors.New("[Config.Validate] refresh token TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.Errorf("[Config.Validate] bcrypt cost %d outside %d..%d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func port() string {
	p := GetEnv("PORT", "8080")
	if p[0] != ':' {
		p = fmt.Sprintf(":%s", p)
	}
	return p
}

func durationEnv(envVar string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %q", value)
	}
	return d, nil
}

func intEnv(envVar string, defaultValue int) (int, error) {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue, nil
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, errors.Wrapf(err, "parsing %q", value)
	}
	return n, nil
}

// GetEnv returns the value of envVar, or defaultValue if it is unset.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
