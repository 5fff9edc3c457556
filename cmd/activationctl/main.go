// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/activation/lib/client"
	"github.com/bureau-foundation/activation/lib/config"
	"github.com/bureau-foundation/activation/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// command is one subcommand. addFlags registers its flags; execute
// runs it with the remaining positional arguments.
type command struct {
	name     string
	summary  string
	addFlags func(*pflag.FlagSet)
	execute  func(ctx context.Context, session *client.Client, args []string, out io.Writer) error
}

func commands() []*command {
	return []*command{
		tokenCommand(),
		associateCommand(),
		setTokenCommand(),
		activateCommand(),
		stateCommand(),
		watchCommand(),
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(out)
		return nil
	}
	if args[0] == "--version" {
		fmt.Fprintf(out, "activationctl %s\n", version.Full())
		return nil
	}

	var selected *command
	for _, candidate := range commands() {
		if candidate.name == args[0] {
			selected = candidate
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("unknown command %q (run activationctl --help)", args[0])
	}

	var socketPath string
	flagSet := pflag.NewFlagSet("activationctl "+selected.name, pflag.ContinueOnError)
	flagSet.StringVar(&socketPath, "socket", defaultSocketPath(), "daemon socket path")
	if selected.addFlags != nil {
		selected.addFlags(flagSet)
	}
	if err := flagSet.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	session, err := client.Dial(ctx, socketPath, "activationctl "+selected.name)
	if err != nil {
		return err
	}
	defer session.Close()

	return selected.execute(ctx, session, flagSet.Args(), out)
}

// defaultSocketPath is $ACTIVATION_SOCKET, else the daemon's default.
func defaultSocketPath() string {
	if path := os.Getenv("ACTIVATION_SOCKET"); path != "" {
		return path
	}
	cfg := config.Default()
	cfg.ExpandVariables()
	return cfg.Socket.Path
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: activationctl <command> [flags] [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, cmd := range commands() {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "every command accepts --socket (default $ACTIVATION_SOCKET or the daemon default)")
}
