package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/ae-conditions/internal/logger"
)

// Config holds the settings shared by the ae-conditions commands.
type Config struct {
	// LogLevel is the minimum zap level: debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format,omitempty"`
	// Catalog describes the event categories, definitions and plant topology.
	Catalog Document `yaml:"catalog"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "ae-conditions.yaml"

	// DefaultLogLevel is used when the file does not set log_level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is used when the file does not set log_format.
	DefaultLogFormat = string(logger.FormatConsole)

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidLogLevel is returned for unknown log levels.
	errInvalidLogLevel = errors.New("invalid log level")
	// errInvalidLogFormat is returned for unknown log formats.
	errInvalidLogFormat = errors.New("invalid log format")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the log settings and fills in defaults.
// The catalog document is checked by BuildCatalog.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, settings.LogLevel)
	}

	if settings.LogFormat == "" {
		settings.LogFormat = DefaultLogFormat
	}

	if _, ok := logger.ParseFormat(settings.LogFormat); !ok {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, settings.LogFormat)
	}

	return nil
}
