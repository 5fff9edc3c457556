// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/activation/lib/client"
	"github.com/bureau-foundation/activation/lib/protocol"
)

func watchCommand() *command {
	var interval time.Duration
	return &command{
		name:    "watch",
		summary: "show the daemon state, refreshing until q",
		addFlags: func(flags *pflag.FlagSet) {
			flags.DurationVar(&interval, "interval", 500*time.Millisecond, "refresh interval")
		},
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			if interval <= 0 {
				return errors.New("--interval must be positive")
			}
			model := newWatchModel(ctx, session.State, newStateRenderer(out, false), interval)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
			_, err := program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

type watchKeys struct {
	Refresh key.Binding
	Quit    key.Binding
}

func (k watchKeys) ShortHelp() []key.Binding { return []key.Binding{k.Refresh, k.Quit} }

func (k watchKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultWatchKeys = watchKeys{
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// stateMsg carries the result of one state fetch.
type stateMsg struct {
	state protocol.State
	err   error
	at    time.Time
}

// tickMsg schedules the next fetch.
type tickMsg struct{}

// watchModel polls the daemon and renders its state.
type watchModel struct {
	ctx      context.Context
	fetch    func(context.Context) (protocol.State, error)
	renderer *stateRenderer
	interval time.Duration
	keys     watchKeys
	help     help.Model

	state   protocol.State
	err     error
	updated time.Time
}

func newWatchModel(ctx context.Context, fetch func(context.Context) (protocol.State, error), renderer *stateRenderer, interval time.Duration) watchModel {
	return watchModel{
		ctx:      ctx,
		fetch:    fetch,
		renderer: renderer,
		interval: interval,
		keys:     defaultWatchKeys,
		help:     help.New(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.fetchState()
}

func (m watchModel) fetchState() tea.Cmd {
	return func() tea.Msg {
		state, err := m.fetch(m.ctx)
		return stateMsg{state: state, err: err, at: time.Now()}
	}
}

func (m watchModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(message, m.keys.Refresh):
			return m, m.fetchState()
		}
	case stateMsg:
		m.err = message.err
		if message.err == nil {
			m.state = message.state
			m.updated = message.at
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{} })
	case tickMsg:
		return m, m.fetchState()
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.updated.IsZero() && m.err == nil {
		return "connecting…\n"
	}
	view := m.renderer.render(m.state)
	if m.err != nil {
		view += m.renderer.attention.Render("refresh failed: "+m.err.Error()) + "\n"
	} else {
		view += m.renderer.dim.Render("updated "+m.updated.Format(time.TimeOnly)) + "\n"
	}
	return view + "\n" + m.help.View(m.keys) + "\n"
}
