// Package config defines process configuration and its loading rules.
//
// The same Config serves the dashboard UI, the backend API and the seeder;
// each binary reads the keys it needs.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors logs into a rotated file when set.
	LogFile string `koanf:"log_file"`

	// LogJSON switches log output to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr is the dashboard UI listen address.
	Addr string `koanf:"addr"`

	// APIAddr is the backend API listen address.
	APIAddr string `koanf:"api_addr"`

	// APIURL is the backend base URL the dashboard client talks to.
	APIURL string `koanf:"api_url"`

	// RequestTimeoutMS bounds each backend call; 0 keeps the http.Client default (none).
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// NotificationTTLMS is how long a notification stays visible.
	NotificationTTLMS int `koanf:"notification_ttl_ms"`

	// DatabasePath is the SQLite file used by the backend; empty keeps records in memory.
	DatabasePath string `koanf:"database_path"`

	// DatabaseBusyTimeoutMS is how long SQLite waits on a locked file.
	DatabaseBusyTimeoutMS int `koanf:"database_busy_timeout_ms"`

	// AllowedOrigins lists CORS origins accepted by the backend.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// SeedCount and SeedWorkers drive cmd/seed.
	SeedCount   int `koanf:"seed_count"`
	SeedWorkers int `koanf:"seed_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		APIAddr:               ":5000",
		APIURL:                "http://localhost:5000",
		RequestTimeoutMS:      0,
		NotificationTTLMS:     3000,
		DatabasePath:          "database.db",
		DatabaseBusyTimeoutMS: 5000,
		AllowedOrigins:        []string{"*"},
		SeedCount:             50,
		SeedWorkers:           4,
	}
}
