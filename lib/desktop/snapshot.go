// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desktop

import "github.com/bureau-foundation/activation/lib/activation"

// Snapshot captures the visible state of the desktop.
type Snapshot struct {
	// Windows in stacking order, bottom to top.
	Windows []Window

	// Focused is the focused window, or zero.
	Focused activation.WindowID

	ActiveWorkspace int
	Workspaces      int
}

// Snapshot returns a copy of the current state.
func (d *Desktop) Snapshot() Snapshot {
	snapshot := Snapshot{
		Windows:         make([]Window, 0, len(d.stack)),
		Focused:         d.focused,
		ActiveWorkspace: d.active,
		Workspaces:      d.workspaces,
	}
	for _, id := range d.stack {
		snapshot.Windows = append(snapshot.Windows, *d.windows[id])
	}
	return snapshot
}
