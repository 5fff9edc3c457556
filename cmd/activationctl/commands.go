// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/activation/lib/client"
)

func tokenCommand() *command {
	var surface, serial, seat uint32
	return &command{
		name:    "token",
		summary: "request an activation token and print it",
		addFlags: func(flags *pflag.FlagSet) {
			flags.Uint32Var(&surface, "surface", 0, "surface the input event was on (default: a throwaway window)")
			flags.Uint32Var(&serial, "serial", 0, "serial of the input event (default: a simulated click)")
			flags.Uint32Var(&seat, "seat", 0, "seat the input event came from")
		},
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			if len(args) != 0 {
				return errors.New("token takes no arguments")
			}
			if (surface == 0) != (serial == 0) {
				return errors.New("--surface and --serial go together")
			}
			if surface == 0 {
				var err error
				surface, err = session.CreateSurface(ctx)
				if err != nil {
					return err
				}
				if _, err := session.MapWindow(ctx, surface, "activationctl", nil); err != nil {
					return err
				}
				serial, err = session.Input(ctx, seat, surface, "pointer")
				if err != nil {
					return err
				}
			}

			token, err := session.RequestToken(ctx, surface, serial, seat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, token)
			return nil
		},
	}
}

func associateCommand() *command {
	var workspace int
	return &command{
		name:    "associate",
		summary: "start a launch for APP_ID with TOKEN",
		addFlags: func(flags *pflag.FlagSet) {
			flags.IntVar(&workspace, "workspace", -1, "workspace the launched window should open on")
		},
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			if len(args) != 2 {
				return errors.New("usage: activationctl associate TOKEN APP_ID")
			}
			token, appID := args[0], args[1]
			if err := session.Associate(token, appID); err != nil {
				return err
			}
			if workspace < 0 {
				// Wait until the daemon has processed the associate.
				_, err := session.State(ctx)
				return err
			}
			applied, err := session.SetWorkspaceHint(ctx, token, &workspace)
			if err != nil {
				return err
			}
			if !applied {
				return errors.New("no pending launch for that token (expired or already used)")
			}
			fmt.Fprintf(out, "launch of %s will open on workspace %d\n", appID, workspace)
			return nil
		},
	}
}

func setTokenCommand() *command {
	return &command{
		name:    "set-token",
		summary: "claim TOKEN and hold the session until interrupted",
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			if len(args) != 1 {
				return errors.New("usage: activationctl set-token TOKEN")
			}
			if err := session.SetCurrentToken(args[0]); err != nil {
				return err
			}
			state, err := session.State(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "claim recorded (%d pending); waiting for interrupt\n", state.Stats.Pending)
			return hold(ctx, session)
		},
	}
}

func activateCommand() *command {
	var token, title string
	var holdSession bool
	return &command{
		name:    "activate",
		summary: "map a window and ask for it to be activated",
		addFlags: func(flags *pflag.FlagSet) {
			flags.StringVar(&token, "token", "", "claim this token first")
			flags.StringVar(&title, "title", "activationctl", "window title")
			flags.BoolVar(&holdSession, "hold", false, "keep the window until interrupted")
		},
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			if len(args) != 0 {
				return errors.New("activate takes no arguments")
			}
			if token != "" {
				if err := session.SetCurrentToken(token); err != nil {
					return err
				}
			}
			surface, err := session.CreateSurface(ctx)
			if err != nil {
				return err
			}
			window, err := session.MapWindow(ctx, surface, title, nil)
			if err != nil {
				return err
			}
			if err := session.Activate(surface); err != nil {
				return err
			}

			state, err := session.State(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, describeActivation(state, window))
			if holdSession {
				return hold(ctx, session)
			}
			return nil
		},
	}
}

func stateCommand() *command {
	var plain bool
	return &command{
		name:    "state",
		summary: "show windows, launches, and activation tables",
		addFlags: func(flags *pflag.FlagSet) {
			flags.BoolVar(&plain, "plain", false, "no colors or styling")
		},
		execute: func(ctx context.Context, session *client.Client, args []string, out io.Writer) error {
			state, err := session.State(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(out, newStateRenderer(out, plain).render(state))
			return nil
		},
	}
}

// hold blocks until ctx is cancelled or the daemon ends the session.
func hold(ctx context.Context, session *client.Client) error {
	select {
	case <-ctx.Done():
		return nil
	case <-session.Done():
		if err := session.Err(); err != nil {
			return fmt.Errorf("session ended: %w", err)
		}
		return nil
	}
}
