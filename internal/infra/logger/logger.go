// Package logger builds the process's single configured *slog.Logger.
// The MCP stdio transport requires stdout to carry only protocol
// frames, so every log call routes through this one instance rather
// than the slog package-level default.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/config"
)

// New creates a configured *slog.Logger from cfg. The returned closer
// should be deferred to flush/close file handles.
func New(cfg *config.Config) (*slog.Logger, func() error, error) {
	writer, closer, err := openOutput(cfg.LogOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: open output: %w", err)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), closer, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openOutput returns an io.Writer for the configured output target.
// "stdout" is rejected with an error: the MCP stdio transport owns
// stdout for protocol frames, so logging there would corrupt it.
func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "stdout":
		return nil, nil, fmt.Errorf("log_output must not be stdout: the MCP stdio transport owns stdout")
	case "stderr", "":
		return os.Stderr, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}
