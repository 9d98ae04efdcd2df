package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Adapter   AdapterConfig  `yaml:"adapter"`
	Timeouts  TimeoutsConfig `yaml:"timeouts"`
	Motion    MotionConfig   `yaml:"motion"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"` // "text" or "json"
	LogOutput string         `yaml:"log_output"` // "stderr" or a file path; "stdout" is rejected by the logger
}

// AdapterConfig selects the platform BLE adapter.
type AdapterConfig struct {
	// Name is shown in the startup banner only; the BLE transport
	// always uses the platform default adapter, whatever Name says.
	Name string `yaml:"name"`
}

// TimeoutsConfig holds the configured timeouts. NotifySeconds and
// RetryDelayMS configure the Session. ScanSeconds and ConnectSeconds
// are validated and shown in the startup banner only; the Tool
// Surface's defaults for an omitted timeout_seconds are fixed (10s for
// scan_devices, 30s for connect_device) and do not read them.
type TimeoutsConfig struct {
	ScanSeconds    int `yaml:"scan_seconds"`
	ConnectSeconds int `yaml:"connect_seconds"`
	NotifySeconds  int `yaml:"notify_seconds"`
	RetryDelayMS   int `yaml:"retry_delay_ms"`
}

// MotionConfig holds the fusion-engine update rate used by
// auto-configure-on-first-use.
type MotionConfig struct {
	FrequencyHz int `yaml:"frequency_hz"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "thingy-mcp")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Timeouts: TimeoutsConfig{
			ScanSeconds:    10,
			ConnectSeconds: 30,
			NotifySeconds:  5,
			RetryDelayMS:   500,
		},
		Motion: MotionConfig{
			FrequencyHz: 10,
		},
		LogLevel:  "info",
		LogFormat: "text",
		LogOutput: "stderr",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Timeouts.ScanSeconds <= 0 {
		return fmt.Errorf("timeouts.scan_seconds must be > 0")
	}
	if c.Timeouts.ConnectSeconds <= 0 {
		return fmt.Errorf("timeouts.connect_seconds must be > 0")
	}
	if c.Timeouts.NotifySeconds <= 0 {
		return fmt.Errorf("timeouts.notify_seconds must be > 0")
	}
	if c.Timeouts.RetryDelayMS < 0 {
		return fmt.Errorf("timeouts.retry_delay_ms must be >= 0")
	}
	if c.Motion.FrequencyHz <= 0 {
		return fmt.Errorf("motion.frequency_hz must be > 0")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}

	return nil
}

// NotifyTimeout returns the configured notification-read timeout.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Timeouts.NotifySeconds) * time.Second
}

// RetryDelay returns the configured single-retry delay.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Timeouts.RetryDelayMS) * time.Millisecond
}
