package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "LANGEXCH_"

// Config is the full process configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Logging  LoggingConfig  `yaml:"logging" envPrefix:"LOG_"`
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Index    IndexConfig    `yaml:"index" envPrefix:"INDEX_"`
}

// DatabaseConfig selects and parameterizes the storage provider
type DatabaseConfig struct {
	Provider string `yaml:"provider" env:"PROVIDER"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
	Database string `yaml:"database" env:"DATABASE"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"MAX_CONNS"`

	// Path is the database file for the sqlite provider
	Path string `yaml:"path" env:"PATH"`
}

// LoggingConfig controls log level and the rotating log file
type LoggingConfig struct {
	File       string `yaml:"file" env:"FILE"`
	Level      string `yaml:"level" env:"LEVEL"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
	Compress   bool   `yaml:"compress" env:"COMPRESS"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	IP          string `yaml:"ip" env:"IP"`
	Port        int    `yaml:"port" env:"PORT"`
	AllowSubnet string `yaml:"allow_subnet" env:"ALLOW_SUBNET"`

	// RequestTimeout bounds each API request. Default: 60s
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	// ReadTimeout is for reading the request body. Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	// IdleTimeout for keep-alive connections between requests. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// IndexConfig controls the name index kept by the route layer
type IndexConfig struct {
	// ResyncSchedule is a cron spec for rebuilding the index from storage.
	// Empty disables periodic resync.
	ResyncSchedule string `yaml:"resync_schedule" env:"RESYNC_SCHEDULE"`
}

// Default returns the configuration used when no file or env override is present
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Provider: "postgres",
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Database: "lang_exch",
			SSLMode:  "disable",
			MaxConns: 10,
			Path:     "./langexch.db",
		},
		Logging: LoggingConfig{
			File:       "langexch.log",
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 60 * time.Second,
			ReadTimeout:    15 * time.Second,
			IdleTimeout:    120 * time.Second,
		},
		Index: IndexConfig{
			ResyncSchedule: "@every 5m",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot start with
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Provider {
	case "postgres":
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required for the postgres provider"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("database.database is required for the postgres provider"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Errorf("database.port %d is out of range", c.Database.Port))
		}
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite provider"))
		}
	case "":
		errs = append(errs, errors.New("database.provider is required"))
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Server.IP != "" && net.ParseIP(c.Server.IP) == nil {
		errs = append(errs, fmt.Errorf("server.ip %q is not a valid IP address", c.Server.IP))
	}
	if c.Server.AllowSubnet != "" {
		if _, _, err := net.ParseCIDR(c.Server.AllowSubnet); err != nil {
			errs = append(errs, fmt.Errorf("server.allow_subnet %q is not a valid CIDR", c.Server.AllowSubnet))
		}
	}

	return errors.Join(errs...)
}

// AllowedNet returns the parsed allow-subnet, or nil when unrestricted
func (c *ServerConfig) AllowedNet() *net.IPNet {
	if c.AllowSubnet == "" {
		return nil
	}
	_, parsed, err := net.ParseCIDR(c.AllowSubnet)
	if err != nil {
		return nil
	}
	return parsed
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.IP, fmt.Sprintf("%d", c.Port))
}
