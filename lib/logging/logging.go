// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging constructs the structured loggers used by the
// activation daemon and command-line client.
//
// When the output is a terminal the logger uses slog.TextHandler for
// human-readable lines; when it is piped or redirected (systemd,
// journald, test harnesses) it uses slog.JSONHandler. Libraries never
// call this package: they accept a *slog.Logger from their caller.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects the slog handler.
type Format string

const (
	// FormatAuto picks text for terminals and JSON otherwise.
	FormatAuto Format = "auto"
	// FormatText always uses slog.TextHandler.
	FormatText Format = "text"
	// FormatJSON always uses slog.JSONHandler.
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Empty means info.
	Level string

	// Format selects the handler. Empty means FormatAuto.
	Format Format

	// Output is where records are written. Nil means os.Stderr.
	Output io.Writer
}

// New creates a logger from options. Returns an error for an unknown
// level or format.
func New(options Options) (*slog.Logger, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch options.Format {
	case "", FormatAuto:
		if isTerminal(output) {
			handler = slog.NewTextHandler(output, handlerOptions)
		} else {
			handler = slog.NewJSONHandler(output, handlerOptions)
		}
	case FormatText:
		handler = slog.NewTextHandler(output, handlerOptions)
	case FormatJSON:
		handler = slog.NewJSONHandler(output, handlerOptions)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected auto, text, or json)", options.Format)
	}
	return slog.New(handler), nil
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
