// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version describes the running activationd or activationctl
// binary.
//
// Release builds set the package variables with the linker:
//
//	go build -ldflags "-X github.com/bureau-foundation/activation/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Anything left unset is taken from the VCS stamp the go tool embeds.
// [Current] also records the wire protocol version, so a --version
// line says which clients a daemon can talk to.
package version
