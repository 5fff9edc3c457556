// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"testing"

	"github.com/bureau-foundation/activation/lib/startup"
)

func TestHandleArena(t *testing.T) {
	arena := newHandleArena()
	a := Handle{Client: 1, Object: 1}
	b := Handle{Client: 1, Object: 2}
	c := Handle{Client: 2, Object: 1}

	for _, handle := range []Handle{a, b, c} {
		if !arena.bind(handle) {
			t.Fatalf("bind(%s) failed", handle)
		}
	}
	if arena.bind(a) {
		t.Fatal("bind of a live handle succeeded")
	}
	if arena.len() != 3 {
		t.Fatalf("len = %d, want 3", arena.len())
	}

	if dropped := arena.dropClient(1); dropped != 2 {
		t.Fatalf("dropClient(1) = %d, want 2", dropped)
	}
	if arena.live(a) || arena.live(b) || !arena.live(c) {
		t.Fatal("dropClient removed the wrong handles")
	}
	if !arena.release(c) || arena.release(c) {
		t.Fatal("release should succeed exactly once")
	}
	if arena.len() != 0 {
		t.Fatalf("len = %d, want 0", arena.len())
	}
}

func TestTokenRegistryOutstandingCounts(t *testing.T) {
	registry := newTokenRegistry()
	first := &tokenEntry{token: "a", handle: Handle{Client: 1, Object: 1}}
	second := &tokenEntry{token: "b", handle: Handle{Client: 1, Object: 2}}
	registry.insert(first)
	registry.insert(second)

	if registry.outstandingFor(1) != 2 {
		t.Fatalf("outstandingFor(1) = %d, want 2", registry.outstandingFor(1))
	}
	if _, ok := registry.take("a"); !ok {
		t.Fatal("take(a) failed")
	}
	if registry.outstandingFor(1) != 1 {
		t.Fatalf("outstandingFor(1) = %d, want 1", registry.outstandingFor(1))
	}

	// After the client is forgotten its remaining token stays, and
	// removing it does not drive the count negative.
	registry.forgetClient(1)
	if !registry.expire(second) {
		t.Fatal("expire(b) failed")
	}
	if registry.outstandingFor(1) != 0 || registry.len() != 0 {
		t.Fatalf("after expiry: outstanding=%d len=%d", registry.outstandingFor(1), registry.len())
	}
	if registry.expire(second) {
		t.Fatal("expire of a removed entry succeeded")
	}
}

func TestSequenceStoreRejectsDuplicatesAndStaleRemoval(t *testing.T) {
	store := newSequenceStore()
	original := startup.NewSequence(startup.SequenceOptions{ID: "T1"})
	impostor := startup.NewSequence(startup.SequenceOptions{ID: "T1"})

	if !store.insert("T1", &sequenceRecord{sequence: original}) {
		t.Fatal("insert failed")
	}
	if store.insert("T1", &sequenceRecord{sequence: impostor}) {
		t.Fatal("a sequence id was stored twice")
	}
	if _, ok := store.remove("T1", impostor); ok {
		t.Fatal("removal with a stale sequence succeeded")
	}
	record, ok := store.remove("T1", original)
	if !ok || record.sequence != original {
		t.Fatal("removal of the stored sequence failed")
	}
	if store.len() != 0 {
		t.Fatalf("len = %d, want 0", store.len())
	}
}

func TestPendingTable(t *testing.T) {
	table := newPendingTable()
	first := startup.NewSequence(startup.SequenceOptions{ID: "a"})
	second := startup.NewSequence(startup.SequenceOptions{ID: "b"})

	if _, replaced := table.claim(1, first); replaced {
		t.Fatal("first claim reported a replacement")
	}
	previous, replaced := table.claim(1, second)
	if !replaced || previous != first {
		t.Fatal("second claim did not report the first")
	}
	if got, ok := table.take(1); !ok || got != second {
		t.Fatal("take returned the wrong claim")
	}
	if _, ok := table.take(1); ok {
		t.Fatal("claim consumed twice")
	}
}
