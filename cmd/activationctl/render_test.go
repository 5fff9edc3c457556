// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/activation/lib/protocol"
)

func testState() protocol.State {
	return protocol.State{
		Windows: []protocol.Window{
			{ID: 1, Surface: 1, Title: "terminal", Workspace: 0},
			{ID: 2, Surface: 2, Title: "mail", Workspace: 0, DemandsAttention: true},
			{ID: 3, Surface: 3, Title: "editor", Workspace: 1},
		},
		Focused:         1,
		ActiveWorkspace: 0,
		Workspaces:      4,
		Launches: []protocol.Launch{
			{AppID: "org.example.Browser", Timestamp: 1200, Workspace: 2},
		},
		Stats: protocol.Stats{Clients: 3, Tokens: 1, Sequences: 1},
	}
}

func plainRenderer() *stateRenderer {
	return newStateRenderer(&bytes.Buffer{}, true)
}

func TestRenderStateListsTopOfStackFirst(t *testing.T) {
	rendered := plainRenderer().render(testState())

	editor := strings.Index(rendered, "editor")
	mail := strings.Index(rendered, "mail")
	terminal := strings.Index(rendered, "terminal")
	if editor < 0 || mail < 0 || terminal < 0 {
		t.Fatalf("rendered state lacks a window:\n%s", rendered)
	}
	if !(editor < mail && mail < terminal) {
		t.Errorf("windows not listed top first:\n%s", rendered)
	}
	for _, want := range []string{"org.example.Browser", "workspace 3", "3 clients", "1 tokens"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered state lacks %q:\n%s", want, rendered)
		}
	}
}

func TestRenderEmptyState(t *testing.T) {
	rendered := plainRenderer().render(protocol.State{Workspaces: 1})
	if !strings.Contains(rendered, "no windows") || !strings.Contains(rendered, "none") {
		t.Errorf("empty state rendering:\n%s", rendered)
	}
}

func TestRenderTruncatesLongTitles(t *testing.T) {
	state := protocol.State{
		Windows:    []protocol.Window{{ID: 1, Title: strings.Repeat("x", 100)}},
		Workspaces: 1,
	}
	rendered := plainRenderer().render(state)
	if strings.Contains(rendered, strings.Repeat("x", maxTitleWidth)) {
		t.Errorf("title not truncated:\n%s", rendered)
	}
	if !strings.Contains(rendered, "…") {
		t.Errorf("truncated title lacks an ellipsis:\n%s", rendered)
	}
}

func TestPlainRendererEmitsNoEscapes(t *testing.T) {
	if rendered := plainRenderer().render(testState()); strings.Contains(rendered, "\x1b[") {
		t.Errorf("plain rendering contains escape sequences: %q", rendered)
	}
}

func TestDescribeActivation(t *testing.T) {
	state := testState()
	tests := []struct {
		window uint64
		want   string
	}{
		{1, "activated"},
		{2, "demands attention"},
		{3, "not focused"},
		{9, "gone"},
	}
	for _, test := range tests {
		if got := describeActivation(state, test.window); !strings.Contains(got, test.want) {
			t.Errorf("describeActivation(%d) = %q, want it to mention %q", test.window, got, test.want)
		}
	}
}
