package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	DatabaseURL string

	ListenAddr string

	// AllowedOrigins is the list of origins permitted by the CORS
	// middleware. Comma-separated in APP_ALLOWED_ORIGINS.
	AllowedOrigins []string

	// SeedSampleData controls whether the sample dataset (vendors,
	// jurisdictions, records, alert configs) is created on startup
	// when the vendors table is empty.
	SeedSampleData bool

	// SnapshotIntervalHours is how often the snapshot worker recomputes
	// vendor scores and appends vendor_metrics rows.
	SnapshotIntervalHours int

	// SessionTTLHours is the lifetime of quick-comparison sessions.
	SessionTTLHours int
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:           os.Getenv("APP_DATABASE_URL"),
		ListenAddr:            getenv("APP_LISTEN_ADDR", ":8080"),
		SeedSampleData:        getenv("APP_SEED_SAMPLE_DATA", "true") == "true",
		SnapshotIntervalHours: 24,
		SessionTTLHours:       24,
	}

	origins := getenv("APP_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if v := os.Getenv("APP_SNAPSHOT_INTERVAL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SnapshotIntervalHours = hours
		}
	}
	if v := os.Getenv("APP_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTLHours = hours
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
