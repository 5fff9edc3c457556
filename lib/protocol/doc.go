// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the CBOR-encoded message types spoken on
// the activation daemon's Unix socket. Both the daemon (lib/server)
// and clients (lib/client, cmd/activationctl) import this package so
// the wire types are defined once.
//
// A connection carries a stream of self-delimiting CBOR values in each
// direction: [Request] from the client, [Event] from the daemon. The
// first request must be a hello; the daemon answers with a welcome
// carrying the negotiated version and the client's id.
//
// Activation requests (request_token, associate, set_current_token,
// activate, destroy_token) mirror the activation handshake. Only
// request_token is answered, with done or failed addressed to the
// token object. Host requests (prefixed "host.") drive the daemon's
// window model in place of a real compositor and are each answered
// with one event echoing the request's Seq.
package protocol
