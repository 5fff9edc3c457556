// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import "errors"

var (
	// ErrDenied: the token request was refused, either by the grant
	// check or by the per-client token cap.
	ErrDenied = errors.New("activation: token request denied")

	// ErrNotFound: the token or sequence is unknown, expired, or was
	// already used.
	ErrNotFound = errors.New("activation: token not found")

	// ErrNoWindow: the surface has no window yet.
	ErrNoWindow = errors.New("activation: surface has no window")

	// ErrNoProvenance: activate was called without a claimed sequence.
	ErrNoProvenance = errors.New("activation: no claimed token")

	// ErrHandleInUse: the client already has a live token object with
	// this id. The transport rejects such requests before they reach
	// the service; RequestToken returns it for callers that do not.
	ErrHandleInUse = errors.New("activation: object id already in use")
)
