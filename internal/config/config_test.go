package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Timeouts.ScanSeconds != 10 {
		t.Errorf("Timeouts.ScanSeconds = %d, want 10", cfg.Timeouts.ScanSeconds)
	}
	if cfg.Timeouts.ConnectSeconds != 30 {
		t.Errorf("Timeouts.ConnectSeconds = %d, want 30", cfg.Timeouts.ConnectSeconds)
	}
	if cfg.Motion.FrequencyHz != 10 {
		t.Errorf("Motion.FrequencyHz = %d, want 10", cfg.Motion.FrequencyHz)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
}

func TestLoad(t *testing.T) {
	yamlContent := `
adapter:
  name: hci0
timeouts:
  scan_seconds: 5
  connect_seconds: 15
  notify_seconds: 3
  retry_delay_ms: 200
motion:
  frequency_hz: 20
log_level: debug
log_format: json
`
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Adapter.Name != "hci0" {
		t.Errorf("Adapter.Name = %q, want %q", cfg.Adapter.Name, "hci0")
	}
	if cfg.Timeouts.ScanSeconds != 5 {
		t.Errorf("Timeouts.ScanSeconds = %d, want 5", cfg.Timeouts.ScanSeconds)
	}
	if cfg.Motion.FrequencyHz != 20 {
		t.Errorf("Motion.FrequencyHz = %d, want 20", cfg.Motion.FrequencyHz)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"zero scan timeout", func(c *Config) { c.Timeouts.ScanSeconds = 0 }, true},
		{"zero connect timeout", func(c *Config) { c.Timeouts.ConnectSeconds = 0 }, true},
		{"zero notify timeout", func(c *Config) { c.Timeouts.NotifySeconds = 0 }, true},
		{"negative retry delay", func(c *Config) { c.Timeouts.RetryDelayMS = -1 }, true},
		{"zero motion frequency", func(c *Config) { c.Motion.FrequencyHz = 0 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotifyTimeoutAndRetryDelay(t *testing.T) {
	cfg := Default()
	if got := cfg.NotifyTimeout(); got.Seconds() != 5 {
		t.Errorf("NotifyTimeout() = %s, want 5s", got)
	}
	if got := cfg.RetryDelay(); got.Milliseconds() != 500 {
		t.Errorf("RetryDelay() = %s, want 500ms", got)
	}
}
