// Package config reads process settings from the environment, loading a .env
// file first when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	HazardSourceAPI      = "api"
	HazardSourcePostgres = "postgres"

	SuggestSourceAPI      = "api"
	SuggestSourceOverpass = "overpass"
)

type Config struct {
	HTTPAddr     string
	SafePathURL  string
	HTTPTimeout  time.Duration
	HazardSource string
	PostgresURL  string
	HazardLimit  int

	SuggestSource string
	OverpassURL   string
	SearchBBox    string
	SuggestDelay  time.Duration
	SuggestLimit  int

	LogLevel    string
	LogPretty   bool
	CORSOrigins []string
}

// Load reads configuration. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		SafePathURL:   getEnv("SAFEPATH_URL", "http://127.0.0.1:5000"),
		HazardSource:  getEnv("HAZARD_SOURCE", HazardSourceAPI),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		SuggestSource: getEnv("SUGGEST_SOURCE", SuggestSourceAPI),
		OverpassURL:   getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		SearchBBox:    getEnv("SEARCH_BBOX", "43.58,-79.64,43.86,-79.11"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SuggestDelay, err = durationEnv("SUGGEST_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.HazardLimit, err = intEnv("HAZARD_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.SuggestLimit, err = intEnv("SUGGEST_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.LogPretty, err = boolEnv("LOG_PRETTY", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.HazardSource {
	case HazardSourceAPI:
	case HazardSourcePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when HAZARD_SOURCE=%s", HazardSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown HAZARD_SOURCE %q", c.HazardSource)
	}

	switch c.SuggestSource {
	case SuggestSourceAPI, SuggestSourceOverpass:
	default:
		return fmt.Errorf("unknown SUGGEST_SOURCE %q", c.SuggestSource)
	}

	if c.SuggestDelay <= 0 {
		return fmt.Errorf("SUGGEST_DELAY must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
