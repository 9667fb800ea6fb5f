// Package config loads service configuration from an optional YAML or TOML
// file, a .env file and environment overrides, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Environment overrides.
const (
	EnvPort        = "DEALSCOPE_PORT"
	EnvDatabaseURL = "DATABASE_URL"
	EnvSQLitePath  = "DEALSCOPE_SQLITE_PATH"
	EnvSnapshotDir = "DEALSCOPE_SNAPSHOT_DIR"
	EnvLogLevel    = "DEALSCOPE_LOG_LEVEL"
	EnvLogFormat   = "DEALSCOPE_LOG_FORMAT"
	EnvAssumptions = "DEALSCOPE_ASSUMPTIONS"
)

// Config is the full service configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Database    DatabaseConfig    `yaml:"database" toml:"database"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Assumptions AssumptionsConfig `yaml:"assumptions" toml:"assumptions"`
	Parity      ParityConfig      `yaml:"parity" toml:"parity"`
}

type ServerConfig struct {
	Port                int `yaml:"port" toml:"port"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds" toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds" toml:"write_timeout_seconds"`
	MaxBatch            int `yaml:"max_batch" toml:"max_batch"`
	BatchWorkers        int `yaml:"batch_workers" toml:"batch_workers"`
}

// DatabaseConfig selects snapshot storage: URL (Postgres), then SQLitePath,
// then SnapshotDir (JSON files). With none set snapshots are not persisted.
type DatabaseConfig struct {
	URL         string `yaml:"url" toml:"url"`
	SQLitePath  string `yaml:"sqlite_path" toml:"sqlite_path"`
	SnapshotDir string `yaml:"snapshot_dir" toml:"snapshot_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// AssumptionsConfig points at an Hjson document replacing the built-in defaults.
type AssumptionsConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type ParityConfig struct {
	Tolerance float64 `yaml:"tolerance" toml:"tolerance"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
			MaxBatch:            50,
			BatchWorkers:        4,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Parity:  ParityConfig{Tolerance: 0.01},
	}
}

// Load builds the configuration. path may be empty; a missing .env file is
// not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse toml config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv(EnvSnapshotDir); v != "" {
		cfg.Database.SnapshotDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvAssumptions); v != "" {
		cfg.Assumptions.Path = v
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
