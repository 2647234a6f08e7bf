// Package infra handles configuration loading and infrastructure wiring.
package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/launchdash/pkg/launch"
	"github.com/ruslano69/launchdash/pkg/resilience"
)

// EnvDataset is the fallback for dataset.path when neither the config nor
// the --data flag set it.
const EnvDataset = "LAUNCHDASH_DATASET"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the top-level configuration structure for launchdash.
type Config struct {
	Server     ServerConfig        `yaml:"server"`
	Dataset    launch.SourceConfig `yaml:"dataset"`
	Cache      CacheConfig         `yaml:"cache"`
	Log        LogConfig           `yaml:"log"`
	SiteLabels map[string]string   `yaml:"site_labels"` // dropdown labels, site -> label
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`             // default ":8050"
	Title           string        `yaml:"title"`            // page heading
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default 10s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default 30s; PNG rendering is the slow path
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default 15s
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Type       string        `yaml:"type"`        // none | memory | redis; default memory
	Addr       string        `yaml:"addr"`        // redis host:port
	Password   string        `yaml:"password"`    // empty = no auth
	DB         int           `yaml:"db"`          // 0-based
	TTL        time.Duration `yaml:"ttl"`         // default 10m
	MaxEntries int           `yaml:"max_entries"` // memory backend only

	Breaker resilience.Config `yaml:"breaker"` // redis backend only
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace..error; default info
	Format string `yaml:"format"` // console | json; default console
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8050",
			Title:           "SpaceX Launch Records Dashboard",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Type:       CacheMemory,
			Addr:       "localhost:6379",
			TTL:        10 * time.Minute,
			MaxEntries: 512,
			Breaker:    resilience.DefaultConfig("render-cache"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads the YAML config at path on top of the defaults.
// An empty path yields the defaults. The dataset env fallback is applied,
// validation is left to Validate so that flags can override first.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	// dataset.path: config file takes precedence; env var is the fallback
	if cfg.Dataset.Path == "" && cfg.Dataset.DSN == "" {
		cfg.Dataset.Path = os.Getenv(EnvDataset)
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	switch c.Dataset.Kind() {
	case launch.SourceCSV, launch.SourceXLSX:
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path is required (or --data, or set %s)", EnvDataset)
		}
	case launch.SourceSQLite, launch.SourcePostgres, launch.SourceMySQL, launch.SourceMSSQL:
		if c.Dataset.DSN == "" {
			return fmt.Errorf("config: dataset.dsn is required for type %q", c.Dataset.Kind())
		}
	default:
		return fmt.Errorf("config: unknown dataset.type %q", c.Dataset.Type)
	}

	if c.Dataset.Retry.MaxAttempts > 0 {
		if err := c.Dataset.Retry.Validate(); err != nil {
			return fmt.Errorf("config: dataset.retry: %w", err)
		}
	}

	c.Cache.Type = strings.ToLower(c.Cache.Type)
	switch c.Cache.Type {
	case "", CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("config: cache.addr is required for the redis cache")
		}
		if err := c.Cache.Breaker.Validate(); err != nil {
			return fmt.Errorf("config: cache.breaker: %w", err)
		}
	default:
		return fmt.Errorf("config: unknown cache.type %q", c.Cache.Type)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is empty")
	}
	return nil
}
