// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/activation/lib/logging"
)

func TestLoadConfigPrefersExplicitPath(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "activation.jsonc")
	content := `{
	// Short tokens for the test.
	"tokens": {"ttl": "5s", "max_per_client": 2},
	"socket": {"path": "` + filepath.Join(directory, "a.sock") + `"}
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ACTIVATION_CONFIG", filepath.Join(directory, "missing.yaml"))

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Tokens.TTL != 5*time.Second || cfg.Tokens.MaxPerClient != 2 {
		t.Errorf("tokens = %+v, want ttl 5s and cap 2", cfg.Tokens)
	}

	server := serverConfig(cfg, logging.Discard())
	if server.TokenTTL != 5*time.Second || server.SocketPath != filepath.Join(directory, "a.sock") {
		t.Errorf("server config = %+v", server)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ACTIVATION_CONFIG", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Socket.Path != "/run/user/1000/activation.sock" {
		t.Errorf("socket path = %q, want it under XDG_RUNTIME_DIR", cfg.Socket.Path)
	}
}

func TestRunVersion(t *testing.T) {
	if err := run([]string{"--version"}); err != nil {
		t.Fatalf("run --version: %v", err)
	}
}
