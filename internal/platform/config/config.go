package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Port           string
	StorageBackend string
	DatabaseURL    string

	// ScheduleLocation is the IANA zone the 09:00 day anchor is resolved
	// in. Store visits are planned in local wall-clock time.
	ScheduleLocation *time.Location

	// DefaultManager, when set, stands in for a missing X-Manager-ID
	// header. Local workflows only.
	DefaultManager string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DefaultManager: os.Getenv("DEV_MANAGER_ID"),
	}

	switch cfg.StorageBackend {
	case "memory", "postgres":
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}

	tz := getenv("SCHEDULE_TZ", "Europe/London")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("SCHEDULE_TZ must be an IANA zone name (e.g. Europe/London): %w", err)
	}
	cfg.ScheduleLocation = loc

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
