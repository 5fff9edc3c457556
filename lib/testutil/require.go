// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"
)

// RequireReceive returns the next value from ch. The test fails if ch
// is closed first or nothing arrives within timeout; what names the
// wait in the failure.
//
//	err := testutil.RequireReceive(t, served, 5*time.Second, "Serve to return")
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, what string) T {
	t.Helper()
	deadline := time.NewTimer(timeout) //nolint:realclock keeps a broken daemon from hanging the test
	defer deadline.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed with nothing sent", what)
		}
		return value
	case <-deadline.C:
		t.Fatalf("%s: nothing received after %v", what, timeout)
	}
	panic("unreachable")
}

// RequireClosed waits until ch is closed or yields a value. Readiness
// and done channels in this module signal by closing.
//
//	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "daemon listening")
func RequireClosed(t testing.TB, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	deadline := time.NewTimer(timeout) //nolint:realclock keeps a broken daemon from hanging the test
	defer deadline.Stop()
	select {
	case <-ch:
	case <-deadline.C:
		t.Fatalf("%s: still open after %v", what, timeout)
	}
}
