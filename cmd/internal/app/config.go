package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, /readyz returns 503 unless the DB is configured and reachable.
	ReadinessRequireDB bool

	// Object storage for profile images. An empty bucket disables uploads;
	// the API then rejects image updates without touching the store.
	S3Region        string
	S3Endpoint      string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("CHIRP_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("CHIRP_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("CHIRP_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CHIRP_HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      EnvDuration("CHIRP_HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       EnvDuration("CHIRP_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CHIRP_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("CHIRP_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CHIRP_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("CHIRP_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("CHIRP_READINESS_REQUIRE_DB", false),

		S3Region:        EnvString("CHIRP_S3_REGION", "us-east-1"),
		S3Endpoint:      EnvString("CHIRP_S3_ENDPOINT", ""),
		S3Bucket:        EnvString("CHIRP_S3_BUCKET", ""),
		S3AccessKey:     EnvString("CHIRP_S3_ACCESS_KEY", ""),
		S3SecretKey:     EnvString("CHIRP_S3_SECRET_KEY", ""),
		S3PublicBaseURL: EnvString("CHIRP_S3_PUBLIC_BASE_URL", ""),
	}
}
