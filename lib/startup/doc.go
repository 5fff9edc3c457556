// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package startup implements the startup-notification registry: the
// set of applications the session knows are launching and will soon
// want focus.
//
// A [Sequence] is one such launch. It carries the application id the
// launcher announced, the display timestamp of the input event that
// started it, and an optional target workspace chosen by session
// policy. A sequence completes exactly once, either because the
// launched application claimed it or because the [Registry] watchdog
// gave up waiting. Completion is broadcast to observers registered
// with [Sequence.OnComplete]; that is how the activation service learns
// that a sequence it stored was retired by someone else.
//
// The registry is keyed by sequence id, which for sequences created by
// the activation handshake is the activation token string. Other
// launch mechanisms may register sequences in the same registry.
//
// Neither type is safe for concurrent use. Both are owned by the
// session's dispatch loop. The watchdog timer hands its work back to
// that loop through [RegistryConfig].Post.
package startup
