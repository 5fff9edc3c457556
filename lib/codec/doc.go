// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by the
// activation socket protocol and its client.
//
// Every frame on the socket is one self-delimiting CBOR value, so the
// stream needs no extra framing:
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// decoder ignores unknown fields so a newer client can talk to an
// older daemon.
//
// Wire types in lib/protocol carry `cbor` struct tags. They are never
// serialized as JSON.
package codec
