package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, assembled from the environment.
type Config struct {
	ListenAddr     string
	Username       string
	Password       string
	Collector      string
	MaxConcurrent  int
	TimeoutSeconds int
	PSLURL         string
	PSLInterval    time.Duration
	LogLevel       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

// Load reads the configuration from the environment. Credentials have
// no default: the process refuses to start without them.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr: getenv("LISTEN_ADDR", ":5000"),
		Username:   os.Getenv("AUTH_USERNAME"),
		Password:   os.Getenv("AUTH_PASSWORD"),
		Collector:  getenv("COLLECTOR", "rod"),
		PSLURL:     os.Getenv("PSL_URL"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}

	if cfg.Username == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf("AUTH_USERNAME and AUTH_PASSWORD must be set")
	}
	if cfg.Collector != "rod" && cfg.Collector != "colly" {
		return Config{}, fmt.Errorf("invalid COLLECTOR=%q, must be rod or colly", cfg.Collector)
	}

	var err error
	if cfg.MaxConcurrent, err = getenvInt("MAX_CONCURRENT", 5); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrent < 1 {
		return Config{}, fmt.Errorf("MAX_CONCURRENT must be >=1, got %d", cfg.MaxConcurrent)
	}

	if cfg.TimeoutSeconds, err = getenvInt("DEFAULT_TIMEOUT", 30); err != nil {
		return Config{}, err
	}
	if cfg.TimeoutSeconds < 1 {
		return Config{}, fmt.Errorf("DEFAULT_TIMEOUT must be >=1, got %d", cfg.TimeoutSeconds)
	}

	intervalStr := getenv("PSL_REFRESH_INTERVAL", "24h")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid PSL_REFRESH_INTERVAL=%q: %w", intervalStr, err)
	}
	if d < time.Hour {
		return Config{}, fmt.Errorf("PSL_REFRESH_INTERVAL too small (%s), must be >=1h", d)
	}
	cfg.PSLInterval = d

	return cfg, nil
}
