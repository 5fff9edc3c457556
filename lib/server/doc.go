// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package server runs the activation daemon: a Unix socket speaking
// lib/protocol, in front of an activation service, a startup registry,
// a seat manager, and a headless desktop.
//
// All of that state is owned by one goroutine, the [Loop]. Connection
// readers decode requests and post them to the loop; clock callbacks
// post their work too; the loop executes everything in the order it
// was posted. Replies go out through per-connection writer goroutines
// fed from bounded queues. A client whose queue fills up is
// disconnected rather than allowed to stall the loop.
package server
