// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package seat tracks input serials per seat and answers the grant
// check for activation tokens.
//
// Every input event delivered to a surface (a key press, a button
// press, a touch down) is stamped with a display-wide serial. A client
// asking for an activation token proves it is acting on a recent user
// interaction by quoting such a serial. [Manager.GrantCheck] accepts
// the quote only if the serial belongs to an event on the named seat
// and surface, is still in the seat's short history, and is younger
// than the configured maximum age.
//
// A Manager is not safe for concurrent use; it is owned by the same
// dispatch goroutine as the activation service.
package seat
