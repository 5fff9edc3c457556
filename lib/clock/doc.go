// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source used by the
// activation service and its host.
//
// Two things in the activation handshake depend on time: the display
// event timestamp captured when a token is associated, and the timers
// that retire tokens and startup sequences nobody redeemed. Both go
// through [Clock] so that tests can drive them deterministically.
//
// In production:
//
//	svc := activation.New(activation.Config{Clock: clock.Real(), ...})
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	svc := activation.New(activation.Config{Clock: c, ...})
//	c.Advance(31 * time.Second) // expire every token issued so far
//
// [FakeClock.Advance] runs AfterFunc callbacks synchronously in the
// calling goroutine, in deadline order. Code that posts timer work onto
// a dispatch loop sees it delivered as soon as Advance returns.
package clock
