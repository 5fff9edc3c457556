// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/activation/lib/protocol"
)

// maxTitleWidth is the widest a window title is shown.
const maxTitleWidth = 48

// stateRenderer formats state replies for one output.
type stateRenderer struct {
	header    lipgloss.Style
	focused   lipgloss.Style
	attention lipgloss.Style
	dim       lipgloss.Style
	id        lipgloss.Style
}

// newStateRenderer builds styles for out. Color is off when plain is
// set or NO_COLOR is in the environment; otherwise the terminal's
// profile is detected.
func newStateRenderer(out io.Writer, plain bool) *stateRenderer {
	var options []termenv.OutputOption
	if plain || os.Getenv("NO_COLOR") != "" {
		options = append(options, termenv.WithProfile(termenv.Ascii))
	}
	renderer := lipgloss.NewRenderer(out, options...)
	return &stateRenderer{
		header:    renderer.NewStyle().Bold(true).Underline(true),
		focused:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		attention: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		dim:       renderer.NewStyle().Faint(true),
		id:        renderer.NewStyle().Width(6).Align(lipgloss.Right),
	}
}

// render formats a state reply. Windows are listed top of the stack
// first.
func (r *stateRenderer) render(state protocol.State) string {
	var builder strings.Builder

	builder.WriteString(r.header.Render(fmt.Sprintf("Workspace %d of %d", state.ActiveWorkspace+1, state.Workspaces)))
	builder.WriteString("\n")
	if len(state.Windows) == 0 {
		builder.WriteString(r.dim.Render("  no windows"))
		builder.WriteString("\n")
	}
	for i := len(state.Windows) - 1; i >= 0; i-- {
		builder.WriteString(r.window(state.Windows[i], state))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(r.header.Render("Launches"))
	builder.WriteString("\n")
	if len(state.Launches) == 0 {
		builder.WriteString(r.dim.Render("  none"))
		builder.WriteString("\n")
	}
	for _, launch := range state.Launches {
		line := fmt.Sprintf("  %s  t=%d", launch.AppID, launch.Timestamp)
		if launch.Workspace >= 0 {
			line += fmt.Sprintf("  workspace %d", launch.Workspace+1)
		}
		if launch.Completed {
			line = r.dim.Render(line + "  (claimed)")
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	stats := state.Stats
	builder.WriteString("\n")
	builder.WriteString(r.dim.Render(fmt.Sprintf(
		"%d clients, %d tokens, %d sequences, %d pending claims, %d handles",
		stats.Clients, stats.Tokens, stats.Sequences, stats.Pending, stats.Handles,
	)))
	builder.WriteString("\n")
	return builder.String()
}

func (r *stateRenderer) window(window protocol.Window, state protocol.State) string {
	marker := "  "
	title := ansi.Truncate(window.Title, maxTitleWidth, "…")
	if title == "" {
		title = r.dim.Render("(untitled)")
	}
	switch {
	case window.ID == state.Focused:
		marker = r.focused.Render("▶ ")
		title = r.focused.Render(title)
	case window.DemandsAttention:
		marker = r.attention.Render("! ")
		title = r.attention.Render(title)
	}

	line := marker + r.id.Render(fmt.Sprintf("#%d", window.ID)) + "  " + title
	if window.Workspace != state.ActiveWorkspace {
		line += r.dim.Render(fmt.Sprintf("  [workspace %d]", window.Workspace+1))
	}
	return line
}

// describeActivation says what happened to window after an activate.
func describeActivation(state protocol.State, window uint64) string {
	for _, candidate := range state.Windows {
		if candidate.ID != window {
			continue
		}
		switch {
		case state.Focused == window:
			return fmt.Sprintf("window #%d activated on workspace %d", window, candidate.Workspace+1)
		case candidate.DemandsAttention:
			return fmt.Sprintf("window #%d demands attention (no valid token)", window)
		default:
			return fmt.Sprintf("window #%d mapped, not focused", window)
		}
	}
	return fmt.Sprintf("window #%d is gone", window)
}
