package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "AQUAGUARD_"
	envConfig  = "AQUAGUARD_CONFIG"
	envDotFile = "AQUAGUARD_ENV_FILE"
)

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New)
//  2. dotenv file if AQUAGUARD_ENV_FILE is set (does not override real env)
//  3. YAML file if AQUAGUARD_CONFIG is set
//  4. env vars with prefix AQUAGUARD_
func Load(_ context.Context) (*Config, error) {
	base := New()

	if path := os.Getenv(envDotFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, path, err)
		}
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// AQUAGUARD_API_URL -> api_url; comma separated values become slices.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values every binary relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.APIAddr) == "" {
		return fmt.Errorf("%w: api_addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.APIURL)
	}
	if c.RequestTimeoutMS < 0 {
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.NotificationTTLMS <= 0 {
		return fmt.Errorf("%w: notification_ttl_ms must be positive", ErrInvalidConfig)
	}
	if c.DatabaseBusyTimeoutMS < 0 {
		return fmt.Errorf("%w: database_busy_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.SeedCount < 0 {
		return fmt.Errorf("%w: seed_count must not be negative", ErrInvalidConfig)
	}
	if c.SeedWorkers < 0 {
		return fmt.Errorf("%w: seed_workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
