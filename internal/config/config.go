// Package config loads the application configuration from YAML. Every
// section has working defaults so a missing file yields a runnable
// fixture-only setup: persistence and caching disabled, provider pointed at
// the public API.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dynastyscope/dynastyscope/internal/application/sync"
	"github.com/dynastyscope/dynastyscope/internal/infrastructure/db"
	httpapi "github.com/dynastyscope/dynastyscope/internal/interfaces/http"
	"github.com/dynastyscope/dynastyscope/internal/persistence/cache"
	"github.com/dynastyscope/dynastyscope/internal/provider/sleeper"
)

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Pretty bool   `yaml:"pretty"` // console writer instead of JSON
}

// SchedulerConfig points at the scheduler's own job file.
type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Jobs    string `yaml:"jobs"` // path to the jobs YAML
}

// Config is the root configuration document.
type Config struct {
	Log       LogConfig            `yaml:"log"`
	HTTP      httpapi.ServerConfig `yaml:"http"`
	Database  db.Config            `yaml:"database"`
	Redis     cache.Config         `yaml:"redis"`
	Provider  sleeper.Config       `yaml:"provider"`
	Sync      sync.Config          `yaml:"sync"`
	Scheduler SchedulerConfig      `yaml:"scheduler"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Pretty: true},
		HTTP:     httpapi.DefaultServerConfig(),
		Database: db.DefaultConfig(),
		Redis:    cache.DefaultConfig(),
		Provider: sleeper.DefaultConfig(),
		Sync:     sync.DefaultConfig(),
		Scheduler: SchedulerConfig{
			Enabled: false,
			Jobs:    "config/jobs.yaml",
		},
	}
}

// Load reads the config file at path, layered over defaults. An empty path
// returns the defaults untouched. Secrets may come from the environment;
// DYNASTYSCOPE_DB_DSN and DYNASTYSCOPE_REDIS_PASSWORD override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DYNASTYSCOPE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DYNASTYSCOPE_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) validate() error {
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTP.Port)
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database enabled but no dsn configured")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis enabled but no addr configured")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider base_url is required")
	}
	if c.Provider.RequestTimeout <= 0 {
		c.Provider.RequestTimeout = 10 * time.Second
	}
	if c.Sync.TransactionWeeks <= 0 {
		return fmt.Errorf("sync transaction_weeks must be positive")
	}
	return nil
}
