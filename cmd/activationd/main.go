// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/activation/lib/config"
	"github.com/bureau-foundation/activation/lib/logging"
	"github.com/bureau-foundation/activation/lib/server"
	"github.com/bureau-foundation/activation/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath  string
		socketPath  string
		logLevel    string
		logFormat   string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("activationd", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "configuration file (default: $ACTIVATION_CONFIG, then built-in defaults)")
	flagSet.StringVar(&socketPath, "socket", "", "socket path (overrides socket.path)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error (overrides log.level)")
	flagSet.StringVar(&logFormat, "log-format", "", "auto, text, or json (overrides log.format)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("activationd %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if socketPath != "" {
		cfg.Socket.Path = socketPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	daemon, err := server.New(serverConfig(cfg, logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting activationd",
		"version", version.Info(),
		"environment", cfg.Environment,
		"token_ttl", cfg.Tokens.TTL,
		"max_tokens_per_client", cfg.Tokens.MaxPerClient,
		"startup_timeout", cfg.Startup.Timeout,
	)
	return daemon.Serve(ctx)
}

// loadConfig resolves the configuration: an explicit path, then
// ACTIVATION_CONFIG, then the defaults.
func loadConfig(path string) (*config.Config, error) {
	switch {
	case path != "":
		return config.LoadFile(path)
	case os.Getenv("ACTIVATION_CONFIG") != "":
		return config.Load()
	default:
		cfg := config.Default()
		cfg.ExpandVariables()
		return cfg, nil
	}
}

func serverConfig(cfg *config.Config, logger *slog.Logger) server.Config {
	return server.Config{
		SocketPath:         cfg.Socket.Path,
		HelloTimeout:       cfg.Socket.HelloTimeout,
		EventQueue:         cfg.Socket.EventQueue,
		TokenTTL:           cfg.Tokens.TTL,
		MaxTokensPerClient: cfg.Tokens.MaxPerClient,
		StartupTimeout:     cfg.Startup.Timeout,
		SerialMaxAge:       cfg.Seat.SerialMaxAge,
		SerialHistory:      cfg.Seat.History,
		Workspaces:         cfg.Desktop.Workspaces,
		Logger:             logger,
	}
}
