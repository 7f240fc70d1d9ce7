package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Polling PollingConfig `toml:"polling"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	Key            string `toml:"key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout for upstream API calls.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// PollingConfig controls the recurring job intervals, in seconds.
type PollingConfig struct {
	PostsIntervalSeconds    int  `toml:"posts_interval_seconds"`
	CommentsIntervalSeconds int  `toml:"comments_interval_seconds"`
	AgentsIntervalSeconds   int  `toml:"agents_interval_seconds"`
	SubmoltsIntervalSeconds int  `toml:"submolts_interval_seconds"`
	TrendsIntervalSeconds   int  `toml:"trends_interval_seconds"`
	SnapshotIntervalSeconds int  `toml:"snapshot_interval_seconds"`
	Disabled                bool `toml:"disabled"`
}

func (c PollingConfig) PostsInterval() time.Duration {
	return time.Duration(c.PostsIntervalSeconds) * time.Second
}

func (c PollingConfig) CommentsInterval() time.Duration {
	return time.Duration(c.CommentsIntervalSeconds) * time.Second
}

func (c PollingConfig) AgentsInterval() time.Duration {
	return time.Duration(c.AgentsIntervalSeconds) * time.Second
}

func (c PollingConfig) SubmoltsInterval() time.Duration {
	return time.Duration(c.SubmoltsIntervalSeconds) * time.Second
}

func (c PollingConfig) TrendsInterval() time.Duration {
	return time.Duration(c.TrendsIntervalSeconds) * time.Second
}

func (c PollingConfig) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalSeconds) * time.Second
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://www.moltbook.com/api/v1",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Path: "./data/moltscope.db",
		},
		Polling: PollingConfig{
			PostsIntervalSeconds:    120,
			CommentsIntervalSeconds: 300,
			AgentsIntervalSeconds:   900,
			SubmoltsIntervalSeconds: 3600,
			TrendsIntervalSeconds:   600,
			SnapshotIntervalSeconds: 3600,
		},
	}
}

// Load reads config from the given path, falling back to defaults when the
// path is empty. Environment variables override file values for secrets and
// deployment-specific settings.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if key := os.Getenv("MOLTSCOPE_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	if base := os.Getenv("MOLTSCOPE_BASE_URL"); base != "" {
		cfg.API.BaseURL = base
	}
	if dbPath := os.Getenv("MOLTSCOPE_DB_PATH"); dbPath != "" {
		cfg.Store.Path = dbPath
	}

	return cfg, nil
}

// Validate checks required configuration. A missing API key is fatal at
// startup; nothing here is re-checked during steady-state operation.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("API key is required (set MOLTSCOPE_API_KEY or api.key)")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}
