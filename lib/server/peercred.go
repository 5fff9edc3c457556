// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import "log/slog"

// peerCredentials identifies the process on the other end of a
// connection, when the platform can tell.
type peerCredentials struct {
	known bool
	pid   int32
	uid   uint32
	gid   uint32
}

// LogValue renders the credentials as a log group.
func (p peerCredentials) LogValue() slog.Value {
	if !p.known {
		return slog.StringValue("unknown")
	}
	return slog.GroupValue(
		slog.Int("pid", int(p.pid)),
		slog.Uint64("uid", uint64(p.uid)),
		slog.Uint64("gid", uint64(p.gid)),
	)
}
