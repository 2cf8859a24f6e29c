package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine values accepted by DatabaseConfig.Engine.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Backup   BackupConfig   `yaml:"backup"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the storage engine.
type DatabaseConfig struct {
	Engine string `yaml:"engine"`
	Path   string `yaml:"path"` // sqlite file path
	URL    string `yaml:"-"`    // postgres URL, env-only (DATABASE_URL)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BackupConfig contains S3-compatible database backup settings.
// Backup is disabled when Bucket is empty.
type BackupConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	Bucket    string   `yaml:"bucket"`
	Region    string   `yaml:"region"`
	Prefix    string   `yaml:"prefix"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	Interval  Duration `yaml:"interval"`
	UseSSL    *bool    `yaml:"use_ssl"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("MEALDIARY_CONFIG_PATH", "config/mealdiary.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Engine: EngineSQLite,
			Path:   "data/mealdiary.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backup: BackupConfig{
			Prefix:   "mealdiary",
			Interval: Duration(1 * time.Hour),
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("MEALDIARY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MEALDIARY_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("MEALDIARY_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("MEALDIARY_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Database
	if v := os.Getenv("MEALDIARY_DB_ENGINE"); v != "" {
		cfg.Database.Engine = v
	}
	if v := os.Getenv("MEALDIARY_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	// DATABASE_URL is the hosting-provider convention for managed Postgres.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	// Log
	if v := os.Getenv("MEALDIARY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MEALDIARY_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Backup
	if v := os.Getenv("MEALDIARY_BACKUP_ENDPOINT"); v != "" {
		cfg.Backup.Endpoint = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_BUCKET"); v != "" {
		cfg.Backup.Bucket = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_REGION"); v != "" {
		cfg.Backup.Region = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_PREFIX"); v != "" {
		cfg.Backup.Prefix = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_ACCESS_KEY"); v != "" {
		cfg.Backup.AccessKey = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_SECRET_KEY"); v != "" {
		cfg.Backup.SecretKey = v
	}
	if v := os.Getenv("MEALDIARY_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backup.Interval = Duration(d)
		}
	}
}

// validate checks that required configuration values are set.
func (c *Config) validate() error {
	switch c.Database.Engine {
	case EngineSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite engine")
		}
	case EnginePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres engine")
		}
	default:
		return fmt.Errorf("unknown database engine %q (use %s or %s)",
			c.Database.Engine, EngineSQLite, EnginePostgres)
	}

	if c.Backup.Bucket != "" && c.Backup.Endpoint == "" {
		return fmt.Errorf("backup.endpoint is required when backup.bucket is set")
	}

	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
