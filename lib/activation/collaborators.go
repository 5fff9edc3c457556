// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"github.com/google/uuid"

	"github.com/bureau-foundation/activation/lib/startup"
)

// GrantChecker decides whether an input serial still authorizes an
// activation token for a surface. The seat subsystem owns this
// decision; the service treats it as an opaque predicate.
type GrantChecker interface {
	GrantCheck(seat SeatID, surface SurfaceID, serial uint32) bool
}

// EventClock reports the display's current event time.
type EventClock interface {
	CurrentTimestamp() startup.Timestamp
}

// Notifier is the startup-notification registry. It is shared with
// other launch mechanisms, so sequences may appear in it that this
// service never created, and sequences this service created may be
// completed and removed by it at any time.
type Notifier interface {
	Lookup(id string) (*startup.Sequence, bool)
	Add(sequence *startup.Sequence) error
	Remove(sequence *startup.Sequence)
}

// WindowManager is the window model.
type WindowManager interface {
	// WindowForSurface returns the window backed by surface, if any.
	WindowForSurface(surface SurfaceID) (WindowID, bool)

	// ActivateWindow raises and focuses a window.
	ActivateWindow(window WindowID, timestamp startup.Timestamp, source Source)

	// SetDemandsAttention flags a window as wanting attention without
	// focusing it.
	SetDemandsAttention(window WindowID)

	// ChangeWorkspace moves a window to the workspace with the given
	// index.
	ChangeWorkspace(window WindowID, index int)
}

// Replier delivers the two token replies. Implementations must treat a
// handle whose client is gone as "no one to reply to".
type Replier interface {
	SendDone(handle Handle, token Token)
	SendFailed(handle Handle)
}

// TokenGenerator returns a new unpredictable token string.
type TokenGenerator func() Token

// NewUUIDToken is the default TokenGenerator: a random (version 4) UUID.
func NewUUIDToken() Token {
	return Token(uuid.NewString())
}
