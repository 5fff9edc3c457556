// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package server

import "net"

func readPeerCredentials(net.Conn) peerCredentials {
	return peerCredentials{}
}
