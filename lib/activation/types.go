// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import "fmt"

// Token is an opaque activation token string.
type Token string

// SequenceID identifies a startup sequence in the sequence store. For
// sequences created by Associate it has the same text as the token,
// but the types are kept apart so one cannot be passed for the other.
type SequenceID string

// ClientID identifies a connected client for the lifetime of its
// connection. IDs are never reused within a process.
type ClientID uint64

// ObjectID is a protocol object id allocated by a client.
type ObjectID uint32

// SurfaceID identifies a surface in the window model.
type SurfaceID uint32

// SeatID identifies an input seat.
type SeatID uint32

// WindowID identifies a window in the window model.
type WindowID uint64

// Handle addresses the protocol object a token reply is sent to.
type Handle struct {
	Client ClientID
	Object ObjectID
}

func (h Handle) String() string {
	return fmt.Sprintf("%d/%d", h.Client, h.Object)
}

// Source says who asked for a window activation, for focus-stealing
// prevention in the window model.
type Source int

const (
	// SourceApplication is an activation requested by an application
	// on the strength of an activation token.
	SourceApplication Source = iota + 1
	// SourceUser is an activation caused directly by user interaction
	// with the shell (a pager, a taskbar).
	SourceUser
)

func (s Source) String() string {
	switch s {
	case SourceApplication:
		return "application"
	case SourceUser:
		return "user"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Outcome reports what an operation did.
type Outcome int

const (
	// OutcomeGranted: RequestToken issued a token and replied done.
	OutcomeGranted Outcome = iota + 1
	// OutcomeDenied: RequestToken replied failed.
	OutcomeDenied
	// OutcomeAssociated: Associate consumed the token and created a sequence.
	OutcomeAssociated
	// OutcomeClaimed: SetCurrentToken recorded a pending claim.
	OutcomeClaimed
	// OutcomeNotFound: the token or sequence was unknown, expired, or
	// already used. Nothing changed.
	OutcomeNotFound
	// OutcomeActivated: Activate activated the window.
	OutcomeActivated
	// OutcomeAttentionRequested: Activate had no claimed sequence and
	// marked the window as demanding attention.
	OutcomeAttentionRequested
	// OutcomeNoWindow: Activate named a surface without a window.
	OutcomeNoWindow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeDenied:
		return "denied"
	case OutcomeAssociated:
		return "associated"
	case OutcomeClaimed:
		return "claimed"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeActivated:
		return "activated"
	case OutcomeAttentionRequested:
		return "attention-requested"
	case OutcomeNoWindow:
		return "no-window"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats counts the entries in each table.
type Stats struct {
	// Tokens is the number of issued tokens not yet associated.
	Tokens int
	// Sequences is the number of sequences in the sequence store.
	Sequences int
	// Pending is the number of clients holding a claim.
	Pending int
	// Handles is the number of live reply handles across all clients.
	Handles int
}
