// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/activation/lib/server"
	"github.com/bureau-foundation/activation/lib/testutil"
)

// startDaemon runs a real-clock daemon for the duration of the test.
func startDaemon(t *testing.T) string {
	t.Helper()
	socketPath := filepath.Join(testutil.SocketDir(t), "activation.sock")
	daemon, err := server.New(server.Config{
		SocketPath:     socketPath,
		TokenTTL:       time.Minute,
		StartupTimeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- daemon.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		testutil.RequireReceive(t, served, 5*time.Second, "waiting for Serve to return")
	})
	testutil.RequireClosed(t, daemon.Ready(), 5*time.Second, "waiting for the daemon")
	return socketPath
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out bytes.Buffer
	if err := run(ctx, args, &out); err != nil {
		t.Fatalf("activationctl %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestLaunchFlow(t *testing.T) {
	socket := startDaemon(t)

	token := strings.TrimSpace(runCommand(t, "token", "--socket", socket))
	if token == "" {
		t.Fatal("token printed nothing")
	}

	runCommand(t, "associate", "--socket", socket, "--workspace", "1", token, "org.example.App")

	output := runCommand(t, "activate", "--socket", socket, "--token", token, "--title", "app")
	if !strings.Contains(output, "activated on workspace 2") {
		t.Fatalf("activate output = %q, want activation on workspace 2", output)
	}
}

func TestActivateWithoutTokenDemandsAttention(t *testing.T) {
	socket := startDaemon(t)

	output := runCommand(t, "activate", "--socket", socket, "--title", "intruder")
	if !strings.Contains(output, "demands attention") {
		t.Fatalf("activate output = %q, want demands attention", output)
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"teleport"}, &bytes.Buffer{}); err == nil {
		t.Fatal("unknown command accepted")
	}
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"token", "associate", "set-token", "activate", "state", "watch"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("usage lacks %q:\n%s", name, out.String())
		}
	}
}
