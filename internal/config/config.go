// Package config provides configuration management for the library
// inventory service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/library-inventory/internal/storage"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultDataFile        = storage.DefaultFileName
	DefaultCORSOrigin      = "*"
)

// Environment variable names.
const (
	EnvConfigFile      = "LIBINV_CONFIG_FILE"
	EnvServerPort      = "LIBINV_SERVER_PORT"
	EnvLogLevel        = "LIBINV_LOG_LEVEL"
	EnvShutdownTimeout = "LIBINV_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "LIBINV_METRICS_ENABLED"
	EnvDataFile        = "LIBINV_DATA_FILE"
	EnvCORSOrigins     = "LIBINV_CORS_ORIGINS"
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	// CORSOrigins lists the origins allowed to call the API. The
	// wildcard "*" admits any origin without credentials.
	CORSOrigins []string

	// DataFile is the JSON file holding the collection, relative to
	// the working directory unless absolute.
	DataFile string
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidDataFile        = errors.New("data file path cannot be empty")
)

// fileConfig mirrors Config for YAML decoding. Fields are pointers so
// keys absent from the file leave the current values untouched, and
// the timeout is a string so it reads like "30s".
type fileConfig struct {
	ServerPort      *int     `yaml:"server_port"`
	LogLevel        *string  `yaml:"log_level"`
	ShutdownTimeout *string  `yaml:"shutdown_timeout"`
	MetricsEnabled  *bool    `yaml:"metrics_enabled"`
	CORSOrigins     []string `yaml:"cors_origins"`
	DataFile        *string  `yaml:"data_file"`
}

// Load reads configuration with increasing precedence: defaults, an
// optional YAML file, then environment variables. The file path comes
// from the argument or, when that is empty, from LIBINV_CONFIG_FILE;
// no file at all is fine.
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		ServerPort:      DefaultServerPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		CORSOrigins:     []string{DefaultCORSOrigin},
		DataFile:        DefaultDataFile,
	}

	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile != "" {
		if err := cfg.loadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration values from a YAML file.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.ServerPort != nil {
		c.ServerPort = *fc.ServerPort
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.ShutdownTimeout != nil {
		timeout, err := time.ParseDuration(*fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout in %s: %w", path, err)
		}
		c.ShutdownTimeout = timeout
	}
	if fc.MetricsEnabled != nil {
		c.MetricsEnabled = *fc.MetricsEnabled
	}
	if fc.CORSOrigins != nil {
		c.CORSOrigins = fc.CORSOrigins
	}
	if fc.DataFile != nil {
		c.DataFile = *fc.DataFile
	}

	return nil
}

// loadFromEnv overlays configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvCORSOrigins); val != "" {
		var origins []string
		for _, origin := range strings.Split(val, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.CORSOrigins = origins
	}

	if val := os.Getenv(EnvDataFile); val != "" {
		c.DataFile = val
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.DataFile == "" {
		return ErrInvalidDataFile
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
