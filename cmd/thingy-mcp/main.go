package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nrfthingy/thingy-mcp-bridge/internal/ble"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/config"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/infra/logger"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/session"
	"github.com/nrfthingy/thingy-mcp-bridge/internal/tool"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/thingy-mcp/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	slogger, logCloser, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logCloser()

	printBanner(cfg)

	transport, err := ble.NewLinuxTransport()
	if err != nil {
		slogger.Error("failed to initialize BLE adapter", "error", err)
		os.Exit(1)
	}
	slogger.Info("BLE adapter ready")

	sess := session.New(transport, session.Options{
		NotifyTimeout:            cfg.NotifyTimeout(),
		RetryDelay:               cfg.RetryDelay(),
		DefaultMotionFrequencyHz: cfg.Motion.FrequencyHz,
	})

	mcpServer := server.NewMCPServer("thingy-mcp-bridge", "1.0.0")
	tool.Register(mcpServer, sess)
	slogger.Info("tool surface registered")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slogger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sess.Disconnect(ctx); err != nil {
			slogger.Warn("disconnect during shutdown", "error", err)
		}
		logCloser()
		os.Exit(0)
	}()

	slogger.Info("serving MCP over stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		slogger.Error("mcp stdio server exited", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads the config from the specified path, or falls back
// to the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	log.Println("No config file found, using defaults")
	return config.Default(), nil
}

// printBanner writes a human-readable startup summary to stderr. It
// uses stderr directly rather than the configured logger so the
// summary appears even when log_level filters out info messages.
func printBanner(cfg *config.Config) {
	fmt.Fprintln(os.Stderr, "=== thingy-mcp-bridge ===")
	fmt.Fprintf(os.Stderr, "  Adapter:  %s\n", adapterLabel(cfg.Adapter.Name))
	fmt.Fprintf(os.Stderr, "  Timeouts: scan=%ds connect=%ds notify=%ds retry_delay=%dms\n",
		cfg.Timeouts.ScanSeconds, cfg.Timeouts.ConnectSeconds, cfg.Timeouts.NotifySeconds, cfg.Timeouts.RetryDelayMS)
	fmt.Fprintf(os.Stderr, "  Motion:   %dHz\n", cfg.Motion.FrequencyHz)
	fmt.Fprintf(os.Stderr, "  Log:      %s (%s, %s)\n", cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	fmt.Fprintln(os.Stderr, "==========================")
}

func adapterLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}
