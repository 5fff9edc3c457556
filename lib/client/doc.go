// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client connects to the activation daemon's Unix socket.
//
// A [Client] holds one session. Activation operations that have no
// reply (associate, set_current_token, activate) return once the
// request is written; the daemon executes each connection's requests
// in order, so a following call that does wait for a reply observes
// their effects. Calls are safe for concurrent use.
package client
