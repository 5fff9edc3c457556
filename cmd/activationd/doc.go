// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// activationd is the headless activation daemon. It serves the
// activation handshake (token request, association, claim, and
// activation) on a Unix socket, backed by an in-memory window model
// that clients drive with the host.* requests in place of a real
// compositor.
//
// Configuration comes from a single file named by --config or the
// ACTIVATION_CONFIG environment variable; without either, built-in
// defaults apply. Flags override the file.
package main
