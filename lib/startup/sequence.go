// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package startup

import (
	"slices"
	"time"
)

// Timestamp is a display event time in milliseconds, in the same
// wrapping 32-bit domain as input event timestamps.
type Timestamp uint32

// Before reports whether t is earlier than other, treating the 32-bit
// domain as wrapping: a timestamp just past the wrap is later than one
// just before it.
func (t Timestamp) Before(other Timestamp) bool {
	return int32(t-other) < 0
}

// NoWorkspace is the workspace value meaning "no preference".
const NoWorkspace = -1

// SequenceOptions describes a new sequence.
type SequenceOptions struct {
	// ID identifies the sequence in the registry. Required.
	ID string

	// AppID is the application id supplied by the launched
	// application. Advisory only.
	AppID string

	// Timestamp is the display time the launch is attributed to.
	Timestamp Timestamp

	// CreatedAt is the wall-clock creation time, used by the watchdog.
	CreatedAt time.Time
}

// Sequence is one in-flight application launch.
type Sequence struct {
	id        string
	appID     string
	timestamp Timestamp
	createdAt time.Time
	workspace int
	completed bool

	observers    map[int]func(*Sequence)
	nextObserver int
}

// NewSequence creates an incomplete sequence with no workspace
// preference.
func NewSequence(options SequenceOptions) *Sequence {
	return &Sequence{
		id:        options.ID,
		appID:     options.AppID,
		timestamp: options.Timestamp,
		createdAt: options.CreatedAt,
		workspace: NoWorkspace,
	}
}

// ID returns the sequence id.
func (s *Sequence) ID() string { return s.id }

// AppID returns the advisory application id.
func (s *Sequence) AppID() string { return s.appID }

// Timestamp returns the display time the launch is attributed to.
func (s *Sequence) Timestamp() Timestamp { return s.timestamp }

// CreatedAt returns the wall-clock creation time.
func (s *Sequence) CreatedAt() time.Time { return s.createdAt }

// Workspace returns the target workspace index, or NoWorkspace.
func (s *Sequence) Workspace() int { return s.workspace }

// SetWorkspace records the workspace the launched window should open
// on. Negative values clear the preference. Has no effect once the
// sequence is completed.
func (s *Sequence) SetWorkspace(index int) {
	if s.completed {
		return
	}
	if index < 0 {
		index = NoWorkspace
	}
	s.workspace = index
}

// Completed reports whether the sequence has completed.
func (s *Sequence) Completed() bool { return s.completed }

// Complete marks the sequence completed and notifies observers in
// registration order. Calling Complete again does nothing.
func (s *Sequence) Complete() {
	if s.completed {
		return
	}
	s.completed = true

	// Snapshot so observers may unsubscribe while being notified.
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if observer, ok := s.observers[id]; ok {
			observer(s)
		}
	}
}

// OnComplete registers fn to run when the sequence completes. Returns a
// function that removes the registration. Registering on an already
// completed sequence never calls fn.
func (s *Sequence) OnComplete(fn func(*Sequence)) (unsubscribe func()) {
	if s.observers == nil {
		s.observers = make(map[int]func(*Sequence))
	}
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}
