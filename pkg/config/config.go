// Package config provides configuration loading and validation for assemblyline.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidOrder     = errors.New("display order must be one of: id, duration")
	ErrInvalidView      = errors.New("display view must be one of: tree, list, both")
	ErrInvalidFormat    = errors.New("display format must be one of: table, json, yaml, feed")
	ErrInvalidLogLevel  = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("log format must be one of: text, json")
	ErrInvalidCapacity  = errors.New("index capacity must not be negative")
)

// envPrefix namespaces environment overrides, e.g. ASSEMBLYLINE_INPUT_PATH.
const envPrefix = "ASSEMBLYLINE"

var (
	validOrders     = []string{"id", "duration"}
	validViews      = []string{"tree", "list", "both"}
	validFormats    = []string{"table", "json", "yaml", "feed"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Config holds all configuration for assemblyline.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Display   DisplayConfig   `mapstructure:"display"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Index     IndexConfig     `mapstructure:"index"`
}

// InputConfig selects the record feed loaded at startup.
type InputConfig struct {
	// Path of the feed file; ".lz4" files are decompressed.
	Path string `mapstructure:"path"`
	// Strict aborts on the first bad line instead of skipping it.
	Strict bool `mapstructure:"strict"`
}

// DisplayConfig controls how ordered records are printed.
type DisplayConfig struct {
	Order  string `mapstructure:"order"`
	View   string `mapstructure:"view"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// IndexConfig bounds the record store.
type IndexConfig struct {
	// Capacity caps live records; zero means unbounded.
	Capacity int `mapstructure:"capacity"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry and Prometheus settings.
type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// SlogLevel maps the configured level name onto slog.
func (lc LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(lc.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches the working directory, ./config and
// /etc/assemblyline for assemblyline.yaml; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("assemblyline")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/assemblyline")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Input: InputConfig{Path: DefaultInputPath, Strict: DefaultInputStrict},
		Display: DisplayConfig{
			Order:  DefaultDisplayOrder,
			View:   DefaultDisplayView,
			Format: DefaultDisplayFormat,
			Color:  DefaultDisplayColor,
		},
		Index:   IndexConfig{Capacity: DefaultIndexCapacity},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Telemetry: TelemetryConfig{
			ServiceName:  DefaultServiceName,
			OTLPInsecure: DefaultOTLPInsecure,
			MetricsAddr:  DefaultMetricsAddr,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Input defaults.
	viperCfg.SetDefault("input.path", DefaultInputPath)
	viperCfg.SetDefault("input.strict", DefaultInputStrict)

	// Display defaults.
	viperCfg.SetDefault("display.order", DefaultDisplayOrder)
	viperCfg.SetDefault("display.view", DefaultDisplayView)
	viperCfg.SetDefault("display.format", DefaultDisplayFormat)
	viperCfg.SetDefault("display.color", DefaultDisplayColor)

	// Index defaults.
	viperCfg.SetDefault("index.capacity", DefaultIndexCapacity)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.service_name", DefaultServiceName)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_addr", DefaultMetricsAddr)
}

// Validate checks enumerated settings and bounds.
func (c *Config) Validate() error {
	checks := []struct {
		err     error
		value   string
		allowed []string
	}{
		{err: ErrInvalidOrder, value: c.Display.Order, allowed: validOrders},
		{err: ErrInvalidView, value: c.Display.View, allowed: validViews},
		{err: ErrInvalidFormat, value: c.Display.Format, allowed: validFormats},
		{err: ErrInvalidLogLevel, value: c.Logging.Level, allowed: validLogLevels},
		{err: ErrInvalidLogFormat, value: c.Logging.Format, allowed: validLogFormats},
	}

	for _, check := range checks {
		if !slices.Contains(check.allowed, strings.ToLower(check.value)) {
			return fmt.Errorf("%w: %q", check.err, check.value)
		}
	}

	if c.Index.Capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c.Index.Capacity)
	}

	return nil
}
