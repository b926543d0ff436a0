package authapi

import (
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior.
type Config struct {
	TrustProxy   bool
	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables with
// safe defaults. The body cap is generous because profile images travel
// base64-encoded inside the JSON body.
func LoadConfigFromEnv() Config {
	cfg := Config{
		TrustProxy:   envBool("CHIRP_AUTH_TRUST_PROXY", false),
		MaxBodyBytes: envInt64("CHIRP_AUTH_MAX_BODY_BYTES", 8<<20), // 8 MiB
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}

	return cfg
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
