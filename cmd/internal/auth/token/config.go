package token

import (
	"os"
	"time"
)

// Config defines runtime configuration for session tokens.
type Config struct {
	// Secret is the process-wide HMAC signing key. It is loaded once at
	// startup and read-only thereafter.
	Secret string

	// TTL is the fixed token lifetime applied at issuance.
	TTL time.Duration

	// ClockSkew is the allowed time skew during validation.
	ClockSkew time.Duration
}

// DefaultConfig returns defaults suitable for development.
// The secret is intentionally empty: it has no safe default.
func DefaultConfig() Config {
	return Config{
		TTL:       7 * 24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - CHIRP_JWT_SECRET
//
// Optional (durations must be valid Go duration strings):
//   - CHIRP_AUTH_TOKEN_TTL
//   - CHIRP_AUTH_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid or the secret is missing;
// callers treat that as startup-fatal.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("CHIRP_AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := os.Getenv("CHIRP_AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	cfg.Secret = os.Getenv("CHIRP_JWT_SECRET")
	if cfg.Secret == "" {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
