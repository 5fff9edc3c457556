// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package desktop is the in-memory window model used by the headless
// activation daemon: surfaces owned by clients, windows mapped from
// surfaces, a fixed set of workspaces, a stacking order, and keyboard
// focus.
//
// [Desktop] implements the window-model and event-clock collaborators
// of the activation service. Activation honors focus-stealing
// prevention: an application activation whose timestamp is older than
// the last user interaction only marks the window as demanding
// attention.
//
// A Desktop is not safe for concurrent use; it is owned by the daemon's
// dispatch goroutine.
package desktop
