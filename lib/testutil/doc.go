// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the activation
// packages.
//
// [SocketDir] creates a short temporary directory for Unix domain
// sockets, whose paths are limited to 108 bytes (sun_path) and so
// cannot always live under t.TempDir().
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with a wall-clock fallback) so that socket
// tests never hang and never call time.After themselves.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
