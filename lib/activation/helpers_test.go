// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"fmt"
	"testing"
	"time"

	"github.com/bureau-foundation/activation/lib/clock"
	"github.com/bureau-foundation/activation/lib/startup"
)

var testEpoch = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// fakeGrants grants every (seat, surface, serial) in allowed.
type fakeGrants struct {
	allowed map[grantKey]bool
}

type grantKey struct {
	seat    SeatID
	surface SurfaceID
	serial  uint32
}

func (g *fakeGrants) allow(seat SeatID, surface SurfaceID, serial uint32) {
	if g.allowed == nil {
		g.allowed = make(map[grantKey]bool)
	}
	g.allowed[grantKey{seat, surface, serial}] = true
}

func (g *fakeGrants) GrantCheck(seat SeatID, surface SurfaceID, serial uint32) bool {
	return g.allowed[grantKey{seat, surface, serial}]
}

// fakeEventClock returns a settable display time.
type fakeEventClock struct {
	now startup.Timestamp
}

func (c *fakeEventClock) CurrentTimestamp() startup.Timestamp { return c.now }

// windowCall is one call recorded by fakeWindows.
type windowCall struct {
	kind      string
	window    WindowID
	timestamp startup.Timestamp
	source    Source
	workspace int
}

func (c windowCall) String() string {
	return fmt.Sprintf("%s(%d)", c.kind, c.window)
}

// fakeWindows maps surfaces to windows and records every call.
type fakeWindows struct {
	surfaces map[SurfaceID]WindowID
	calls    []windowCall
}

func (w *fakeWindows) WindowForSurface(surface SurfaceID) (WindowID, bool) {
	window, ok := w.surfaces[surface]
	return window, ok
}

func (w *fakeWindows) ActivateWindow(window WindowID, timestamp startup.Timestamp, source Source) {
	w.calls = append(w.calls, windowCall{kind: "activate", window: window, timestamp: timestamp, source: source})
}

func (w *fakeWindows) SetDemandsAttention(window WindowID) {
	w.calls = append(w.calls, windowCall{kind: "attention", window: window})
}

func (w *fakeWindows) ChangeWorkspace(window WindowID, index int) {
	w.calls = append(w.calls, windowCall{kind: "workspace", window: window, workspace: index})
}

// reply is one reply recorded by fakeReplier.
type reply struct {
	done   bool
	handle Handle
	token  Token
}

type fakeReplier struct {
	replies []reply
}

func (r *fakeReplier) SendDone(handle Handle, token Token) {
	r.replies = append(r.replies, reply{done: true, handle: handle, token: token})
}

func (r *fakeReplier) SendFailed(handle Handle) {
	r.replies = append(r.replies, reply{done: false, handle: handle})
}

// sequentialTokens returns T1, T2, ... like the scenarios in the docs.
func sequentialTokens() TokenGenerator {
	next := 0
	return func() Token {
		next++
		return Token(fmt.Sprintf("T%d", next))
	}
}

// harness bundles a Service with its fakes.
type harness struct {
	service  *Service
	grants   *fakeGrants
	events   *fakeEventClock
	windows  *fakeWindows
	replier  *fakeReplier
	registry *startup.Registry
	clock    *clock.FakeClock
}

type harnessOptions struct {
	tokenTTL       time.Duration
	maxPerClient   int
	startupTimeout time.Duration
	generate       TokenGenerator
}

func newHarness(t *testing.T, options harnessOptions) *harness {
	t.Helper()
	fake := clock.Fake(testEpoch)
	h := &harness{
		grants:  &fakeGrants{},
		events:  &fakeEventClock{now: 1000},
		windows: &fakeWindows{surfaces: make(map[SurfaceID]WindowID)},
		replier: &fakeReplier{},
		registry: startup.NewRegistry(startup.RegistryConfig{
			Clock:   fake,
			Timeout: options.startupTimeout,
		}),
		clock: fake,
	}
	generate := options.generate
	if generate == nil {
		generate = sequentialTokens()
	}
	h.service = New(Config{
		Grants:             h.grants,
		Clock:              h.events,
		Notifier:           h.registry,
		Windows:            h.windows,
		Replier:            h.replier,
		Generate:           generate,
		Timers:             fake,
		TokenTTL:           options.tokenTTL,
		MaxTokensPerClient: options.maxPerClient,
	})
	return h
}

// issue requests a token that the grant check accepts and fails the
// test if it is not granted.
func (h *harness) issue(t *testing.T, client ClientID, object ObjectID) Token {
	t.Helper()
	const seat, surface = SeatID(0), SurfaceID(100)
	serial := uint32(object) + 500
	h.grants.allow(seat, surface, serial)
	token, outcome, err := h.service.RequestToken(client, object, surface, serial, seat)
	if err != nil || outcome != OutcomeGranted {
		t.Fatalf("RequestToken: outcome=%v err=%v", outcome, err)
	}
	return token
}

func (h *harness) lastReply(t *testing.T) reply {
	t.Helper()
	if len(h.replier.replies) == 0 {
		t.Fatal("no reply was sent")
	}
	return h.replier.replies[len(h.replier.replies)-1]
}
