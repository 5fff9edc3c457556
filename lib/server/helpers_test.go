// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/activation/lib/client"
	"github.com/bureau-foundation/activation/lib/clock"
	"github.com/bureau-foundation/activation/lib/protocol"
	"github.com/bureau-foundation/activation/lib/testutil"
)

var testEpoch = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// testTimeout bounds every wait on the daemon.
const testTimeout = 5 * time.Second

type testDaemon struct {
	server     *Server
	socketPath string
	clock      *clock.FakeClock
}

// startDaemon runs a Server on a fresh socket with a fake clock. The
// server is stopped when the test ends.
func startDaemon(t *testing.T, config Config) *testDaemon {
	t.Helper()
	fake := clock.Fake(testEpoch)
	config.SocketPath = filepath.Join(testutil.SocketDir(t), "activation.sock")
	config.Clock = fake

	server, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, served, testTimeout, "waiting for Serve to return"); err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	testutil.RequireClosed(t, server.Ready(), testTimeout, "waiting for the daemon to listen")

	return &testDaemon{server: server, socketPath: config.SocketPath, clock: fake}
}

func (d *testDaemon) dial(t *testing.T, name string) *client.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	session, err := client.Dial(ctx, d.socketPath, name)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// mappedSurface creates a surface with a window on session and returns
// both ids.
func mappedSurface(t *testing.T, session *client.Client, title string) (uint32, uint64) {
	t.Helper()
	ctx := testContext(t)
	surface, err := session.CreateSurface(ctx)
	if err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	window, err := session.MapWindow(ctx, surface, title, nil)
	if err != nil {
		t.Fatalf("MapWindow: %v", err)
	}
	return surface, window
}

// issueToken performs a click on a new window of session and requests a
// token quoting its serial.
func issueToken(t *testing.T, session *client.Client) string {
	t.Helper()
	ctx := testContext(t)
	surface, _ := mappedSurface(t, session, "launcher")
	serial, err := session.Input(ctx, 0, surface, "pointer")
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	token, err := session.RequestToken(ctx, surface, serial, 0)
	if err != nil {
		t.Fatalf("RequestToken: %v", err)
	}
	return token
}

func state(t *testing.T, session *client.Client) protocol.State {
	t.Helper()
	current, err := session.State(testContext(t))
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	return current
}

func findWindow(t *testing.T, current protocol.State, id uint64) protocol.Window {
	t.Helper()
	for _, window := range current.Windows {
		if window.ID == id {
			return window
		}
	}
	t.Fatalf("window %d not in state %+v", id, current.Windows)
	return protocol.Window{}
}
