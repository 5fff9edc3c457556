// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.name)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", test.name, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestAutoFormatUsesJSONForNonTerminal(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := New(Options{Output: &buffer})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("token issued", "client", 3)

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buffer.String())
	}
	if record["msg"] != "token issued" {
		t.Errorf("msg = %v, want token issued", record["msg"])
	}
}

func TestLevelFiltersRecords(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: FormatText, Output: &buffer})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	output := buffer.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info record written at warn level: %q", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("warn record missing: %q", output)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
