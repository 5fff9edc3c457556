// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import "github.com/bureau-foundation/activation/lib/startup"

// pendingTable maps each client to the sequence it claimed with
// SetCurrentToken. A client holds at most one claim.
type pendingTable struct {
	claims map[ClientID]*startup.Sequence
}

func newPendingTable() *pendingTable {
	return &pendingTable{claims: make(map[ClientID]*startup.Sequence)}
}

// claim records sequence as the client's claim and returns the claim
// it replaced, if any.
func (p *pendingTable) claim(client ClientID, sequence *startup.Sequence) (previous *startup.Sequence, replaced bool) {
	previous, replaced = p.claims[client]
	p.claims[client] = sequence
	return previous, replaced
}

// take removes and returns the client's claim.
func (p *pendingTable) take(client ClientID) (*startup.Sequence, bool) {
	sequence, ok := p.claims[client]
	if ok {
		delete(p.claims, client)
	}
	return sequence, ok
}

func (p *pendingTable) len() int {
	return len(p.claims)
}
