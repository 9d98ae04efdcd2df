package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/config"
)

func TestNewJSONLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "json.log")
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogOutput = path

	log, closer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("test message", "key", "value")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("invalid JSON: %v, output: %s", err, string(data))
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOpenOutputRejectsStdout(t *testing.T) {
	if _, _, err := openOutput("stdout"); err == nil {
		t.Error("openOutput(stdout) should fail: stdout is reserved for the MCP transport")
	}
}

func TestOpenOutputStderr(t *testing.T) {
	w, closer, err := openOutput("stderr")
	if err != nil {
		t.Fatalf("openOutput(stderr): %v", err)
	}
	defer closer()
	if w != os.Stderr {
		t.Error("expected os.Stderr")
	}
}

func TestOpenOutputEmptyDefaultsToStderr(t *testing.T) {
	w, closer, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput(''): %v", err)
	}
	defer closer()
	if w != os.Stderr {
		t.Error("expected os.Stderr for empty output")
	}
}

func TestOpenOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	w, closer, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput(file): %v", err)
	}
	if _, err := w.Write([]byte("test log line\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "test log line\n" {
		t.Errorf("file content = %q", string(data))
	}
}

func TestOpenOutputInvalidPath(t *testing.T) {
	if _, _, err := openOutput("/nonexistent/dir/log.txt"); err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	cfg := config.Default()
	cfg.LogOutput = path
	log, closer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("file output test", "key", "value")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "file output test") {
		t.Error("log file should contain the logged message")
	}
}

func TestNewRejectsStdoutOutput(t *testing.T) {
	cfg := config.Default()
	cfg.LogOutput = "stdout"
	if _, _, err := New(cfg); err == nil {
		t.Error("New() should reject log_output: stdout")
	}
}
