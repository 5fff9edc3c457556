// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import "github.com/bureau-foundation/activation/lib/startup"

// sequenceRecord is a sequence created by Associate together with the
// handle of the token request it came from.
type sequenceRecord struct {
	sequence *startup.Sequence
	handle   Handle

	// unsubscribe removes the completion observer.
	unsubscribe func()
}

// sequenceStore holds the sequences this service created that have
// not been activated or completed yet.
type sequenceStore struct {
	records map[SequenceID]*sequenceRecord
}

func newSequenceStore() *sequenceStore {
	return &sequenceStore{records: make(map[SequenceID]*sequenceRecord)}
}

func (s *sequenceStore) contains(id SequenceID) bool {
	_, ok := s.records[id]
	return ok
}

// insert stores a record. Returns false, storing nothing, if the id is
// already present.
func (s *sequenceStore) insert(id SequenceID, record *sequenceRecord) bool {
	if _, exists := s.records[id]; exists {
		return false
	}
	s.records[id] = record
	return true
}

func (s *sequenceStore) lookup(id SequenceID) (*sequenceRecord, bool) {
	record, ok := s.records[id]
	return record, ok
}

// remove deletes a record and its completion observer. Only removes
// the record if it belongs to sequence, so a stale reference cannot
// evict a newer record under the same id.
func (s *sequenceStore) remove(id SequenceID, sequence *startup.Sequence) (*sequenceRecord, bool) {
	record, ok := s.records[id]
	if !ok || record.sequence != sequence {
		return nil, false
	}
	delete(s.records, id)
	if record.unsubscribe != nil {
		record.unsubscribe()
	}
	return record, true
}

func (s *sequenceStore) len() int {
	return len(s.records)
}
