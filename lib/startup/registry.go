// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package startup

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bureau-foundation/activation/lib/clock"
)

// ErrDuplicateSequence is returned by Add when a different sequence
// with the same id is already registered.
var ErrDuplicateSequence = errors.New("startup: duplicate sequence id")

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Clock drives the watchdog. Required.
	Clock clock.Clock

	// Timeout is how long a sequence may stay registered before the
	// watchdog completes and removes it. Zero disables the watchdog.
	Timeout time.Duration

	// Post hands watchdog work to the goroutine that owns the
	// registry. Nil runs it inline on the timer goroutine, which is
	// only correct when the clock is a fake driven by the owner.
	Post func(func())

	// Logger receives watchdog events. Nil discards them.
	Logger *slog.Logger
}

// Registry holds the sequences of launches in progress, keyed by id.
type Registry struct {
	clock   clock.Clock
	timeout time.Duration
	post    func(func())
	logger  *slog.Logger

	entries map[string]*registryEntry
}

type registryEntry struct {
	sequence *Sequence
	watchdog *clock.Timer
}

// NewRegistry creates an empty registry.
func NewRegistry(config RegistryConfig) *Registry {
	post := config.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		clock:   config.Clock,
		timeout: config.Timeout,
		post:    post,
		logger:  logger,
		entries: make(map[string]*registryEntry),
	}
}

// Add registers a sequence and arms its watchdog. Adding the same
// sequence twice is a no-op; adding a different sequence under an id
// already in use fails with ErrDuplicateSequence.
func (r *Registry) Add(sequence *Sequence) error {
	if existing, ok := r.entries[sequence.ID()]; ok {
		if existing.sequence == sequence {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrDuplicateSequence, sequence.ID())
	}

	entry := &registryEntry{sequence: sequence}
	if r.timeout > 0 {
		entry.watchdog = r.clock.AfterFunc(r.timeout, func() {
			r.post(func() { r.expire(entry) })
		})
	}
	r.entries[sequence.ID()] = entry
	return nil
}

// Lookup returns the registered sequence with the given id.
func (r *Registry) Lookup(id string) (*Sequence, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return entry.sequence, true
}

// Remove unregisters a sequence and disarms its watchdog. Removing a
// sequence that is not registered, or whose id now belongs to another
// sequence, does nothing.
func (r *Registry) Remove(sequence *Sequence) {
	entry, ok := r.entries[sequence.ID()]
	if !ok || entry.sequence != sequence {
		return
	}
	entry.watchdog.Stop()
	delete(r.entries, sequence.ID())
}

// expire is the watchdog action: the launch took too long, so the
// sequence is completed and forgotten. Observers learn about it
// through the completion callback.
func (r *Registry) expire(entry *registryEntry) {
	current, ok := r.entries[entry.sequence.ID()]
	if !ok || current != entry {
		return
	}
	r.logger.Debug("startup sequence timed out",
		"app_id", entry.sequence.AppID(),
		"age", r.clock.Now().Sub(entry.sequence.CreatedAt()),
	)
	delete(r.entries, entry.sequence.ID())
	entry.sequence.Complete()
}

// Len returns the number of registered sequences.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Launching returns the number of registered sequences that have not
// completed yet. A non-zero value drives "application starting"
// feedback such as a busy cursor.
func (r *Registry) Launching() int {
	count := 0
	for _, entry := range r.entries {
		if !entry.sequence.Completed() {
			count++
		}
	}
	return count
}

// Sequences returns the registered sequences ordered by id.
func (r *Registry) Sequences() []*Sequence {
	sequences := make([]*Sequence, 0, len(r.entries))
	for _, entry := range r.entries {
		sequences = append(sequences, entry.sequence)
	}
	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].ID() < sequences[j].ID()
	})
	return sequences
}
