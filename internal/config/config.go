// Package config loads config.yaml, applies environment overrides and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fr4nk3nst1ner/jobboard/internal/cache"
	"github.com/fr4nk3nst1ner/jobboard/internal/fetcher"
)

// Config is the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Web     WebConfig     `yaml:"web"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Proxy   string        `yaml:"proxy" validate:"omitempty,url"`
}

type CacheConfig struct {
	Key      string        `yaml:"key" validate:"required"`
	Duration time.Duration `yaml:"duration" validate:"gt=0"`
}

type StorageConfig struct {
	Backend    string        `yaml:"backend" validate:"oneof=memory redis"`
	RedisURL   string        `yaml:"redis_url" validate:"required_if=Backend redis"`
	SessionTTL time.Duration `yaml:"session_ttl" validate:"gt=0"`
}

type WebConfig struct {
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	Username string `yaml:"-"` // WEB_USERNAME only
	Password string `yaml:"-"` // WEB_PASSWORD only
}

type DisplayConfig struct {
	NarrowCards bool `yaml:"narrow_cards"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:     fetcher.DefaultURL,
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Key:      cache.DefaultKey,
			Duration: cache.DefaultDuration,
		},
		Storage: StorageConfig{
			Backend:    "memory",
			SessionTTL: 30 * time.Minute,
		},
		Web: WebConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path, or the first config.yaml found in the
// usual locations when path is empty. A missing file means defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func findConfigPath() string {
	paths := []string{
		"config.yaml",
		filepath.Join("config", "config.yaml"),
	}
	if home, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(home, "jobboard", "config.yaml"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return "config.yaml"
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("JOBBOARD_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("JOBBOARD_CACHE_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JOBBOARD_CACHE_DURATION must be a duration, got %q", v)
		}
		cfg.Cache.Duration = d
	}
	if v := os.Getenv("JOBBOARD_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("JOBBOARD_REDIS_URL"); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("JOBBOARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOBBOARD_PORT must be an integer, got %q", v)
		}
		cfg.Web.Port = port
	}
	if v := os.Getenv("JOBBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	cfg.Web.Username = os.Getenv("WEB_USERNAME")
	cfg.Web.Password = os.Getenv("WEB_PASSWORD")
	return nil
}
