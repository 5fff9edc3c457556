// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package server

import (
	"net"

	"golang.org/x/sys/unix"
)

// readPeerCredentials asks the kernel for the connecting process's
// credentials. They are recorded for logs only; the protocol does not
// authorize anything by uid or pid.
func readPeerCredentials(conn net.Conn) peerCredentials {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return peerCredentials{}
	}
	raw, err := unixConn.SyscallConn()
	if err != nil {
		return peerCredentials{}
	}
	var credentials *unix.Ucred
	var credentialsErr error
	if err := raw.Control(func(fd uintptr) {
		credentials, credentialsErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil || credentialsErr != nil {
		return peerCredentials{}
	}
	return peerCredentials{
		known: true,
		pid:   credentials.Pid,
		uid:   credentials.Uid,
		gid:   credentials.Gid,
	}
}
