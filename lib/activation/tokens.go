// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"time"

	"github.com/bureau-foundation/activation/lib/clock"
)

// tokenEntry is one issued, not yet associated token.
type tokenEntry struct {
	token    Token
	handle   Handle
	issuedAt time.Time
	expiry   *clock.Timer
}

// tokenRegistry maps outstanding token strings to the handle they were
// issued on. An entry is removed exactly once: by take (association),
// by expire, or never.
type tokenRegistry struct {
	entries map[Token]*tokenEntry

	// outstanding counts entries per requesting client for the
	// per-client cap. Clients are dropped on disconnect; their tokens
	// stay redeemable but no longer count against anyone.
	outstanding map[ClientID]int
}

func newTokenRegistry() *tokenRegistry {
	return &tokenRegistry{
		entries:     make(map[Token]*tokenEntry),
		outstanding: make(map[ClientID]int),
	}
}

func (r *tokenRegistry) contains(token Token) bool {
	_, ok := r.entries[token]
	return ok
}

func (r *tokenRegistry) insert(entry *tokenEntry) {
	r.entries[entry.token] = entry
	r.outstanding[entry.handle.Client]++
}

// take removes and returns the entry for token, disarming its expiry.
func (r *tokenRegistry) take(token Token) (*tokenEntry, bool) {
	entry, ok := r.entries[token]
	if !ok {
		return nil, false
	}
	r.remove(entry)
	entry.expiry.Stop()
	return entry, true
}

// expire removes entry if it is still the one registered under its
// token. Returns false if the token was associated in the meantime.
func (r *tokenRegistry) expire(entry *tokenEntry) bool {
	current, ok := r.entries[entry.token]
	if !ok || current != entry {
		return false
	}
	r.remove(entry)
	return true
}

func (r *tokenRegistry) remove(entry *tokenEntry) {
	delete(r.entries, entry.token)
	if count, ok := r.outstanding[entry.handle.Client]; ok {
		if count <= 1 {
			delete(r.outstanding, entry.handle.Client)
		} else {
			r.outstanding[entry.handle.Client] = count - 1
		}
	}
}

func (r *tokenRegistry) outstandingFor(client ClientID) int {
	return r.outstanding[client]
}

func (r *tokenRegistry) forgetClient(client ClientID) {
	delete(r.outstanding, client)
}

func (r *tokenRegistry) len() int {
	return len(r.entries)
}
