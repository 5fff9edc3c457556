// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package activation implements the server side of the window
// activation handshake.
//
// A client that has just received user input asks for a token
// ([Service.RequestToken]). If the seat confirms the input serial is
// still a live grant for the client's surface, the service issues an
// opaque single-use token and replies "done"; otherwise it replies
// "failed". The client hands the token to an application it launches,
// out of band (an environment variable, a D-Bus call, a command-line
// argument). The launched application:
//
//  1. associates the token with its app id ([Service.Associate]),
//     which consumes the token and starts a startup sequence stamped
//     with the current display time;
//  2. claims the sequence for its own connection
//     ([Service.SetCurrentToken]);
//  3. asks for its surface to be activated ([Service.Activate]). The
//     window is moved to the sequence's workspace, if one was chosen,
//     and activated with the sequence's timestamp as an
//     application-initiated activation.
//
// An activate request without a claimed sequence only marks the window
// as demanding attention.
//
// # State
//
// The service owns three tables with distinct key types: the token
// registry (Token → reply handle), the sequence store (SequenceID →
// sequence and handle), and the pending-acknowledgment table
// (ClientID → claimed sequence). Reply handles live in a per-client
// arena that [Service.Disconnect] clears synchronously.
//
// Startup sequences are shared with the wider startup-notification
// registry, which may complete them at any time (a launch timeout, for
// example). The service observes completion and never assumes a
// sequence is still registered.
//
// # Concurrency
//
// A Service is not safe for concurrent use. Every method, and every
// function handed to [Config].Post, must run on one goroutine: the
// dispatch loop of the surrounding server. No method blocks.
//
// # Errors
//
// Nothing here is fatal to a connection. Operations return an
// [Outcome] and, when the request had no effect, an error wrapping one
// of [ErrDenied], [ErrNotFound], [ErrNoWindow], or [ErrNoProvenance].
// Callers log these and carry on.
package activation
