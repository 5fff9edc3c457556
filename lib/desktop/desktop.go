// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bureau-foundation/activation/lib/activation"
	"github.com/bureau-foundation/activation/lib/clock"
	"github.com/bureau-foundation/activation/lib/startup"
)

var (
	// ErrUnknownSurface is returned for a surface id that does not exist.
	ErrUnknownSurface = errors.New("desktop: unknown surface")

	// ErrAlreadyMapped is returned when mapping a surface that already
	// has a window.
	ErrAlreadyMapped = errors.New("desktop: surface already has a window")

	// ErrBadWorkspace is returned for a workspace index out of range.
	ErrBadWorkspace = errors.New("desktop: workspace out of range")
)

// CurrentWorkspace as a MapWindow workspace places the window on the
// active workspace.
const CurrentWorkspace = -1

// Config configures a Desktop.
type Config struct {
	// Clock provides event time. Required.
	Clock clock.Clock

	// Workspaces is the number of workspaces. Must be at least 1.
	Workspaces int

	// Logger receives focus and stacking changes at debug level. Nil
	// discards.
	Logger *slog.Logger
}

// Window is the public view of a mapped window.
type Window struct {
	ID               activation.WindowID
	Surface          activation.SurfaceID
	Title            string
	Workspace        int
	DemandsAttention bool
}

type surface struct {
	owner  activation.ClientID
	window activation.WindowID
}

// Desktop is the window model.
type Desktop struct {
	clock  clock.Clock
	epoch  time.Time
	logger *slog.Logger

	workspaces int
	active     int

	lastSurface activation.SurfaceID
	lastWindow  activation.WindowID
	surfaces    map[activation.SurfaceID]*surface
	windows     map[activation.WindowID]*Window

	// stack lists windows bottom to top.
	stack   []activation.WindowID
	focused activation.WindowID

	// userTime is the event time of the most recent user interaction.
	userTime startup.Timestamp
}

// New creates an empty desktop with workspace 0 active.
func New(config Config) *Desktop {
	if config.Clock == nil {
		panic("desktop.New: Clock is required")
	}
	if config.Workspaces < 1 {
		panic(fmt.Sprintf("desktop.New: Workspaces must be at least 1, got %d", config.Workspaces))
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Desktop{
		clock:      config.Clock,
		epoch:      config.Clock.Now(),
		logger:     logger,
		workspaces: config.Workspaces,
		surfaces:   make(map[activation.SurfaceID]*surface),
		windows:    make(map[activation.WindowID]*Window),
	}
}

// CurrentTimestamp returns the display event time: milliseconds since
// the desktop was created, wrapping at 32 bits.
func (d *Desktop) CurrentTimestamp() startup.Timestamp {
	return startup.Timestamp(uint32(d.clock.Now().Sub(d.epoch).Milliseconds()))
}

// NoteUserTime records a user interaction at the given event time.
// Later application activations must carry a timestamp at least this
// recent to take focus.
func (d *Desktop) NoteUserTime(timestamp startup.Timestamp) {
	if d.userTime.Before(timestamp) {
		d.userTime = timestamp
	}
}

// CreateSurface creates a surface owned by a client.
func (d *Desktop) CreateSurface(owner activation.ClientID) activation.SurfaceID {
	d.lastSurface++
	d.surfaces[d.lastSurface] = &surface{owner: owner}
	return d.lastSurface
}

// HasSurface reports whether a surface exists.
func (d *Desktop) HasSurface(id activation.SurfaceID) bool {
	_, ok := d.surfaces[id]
	return ok
}

// SurfaceOwner returns the client that created a surface.
func (d *Desktop) SurfaceOwner(id activation.SurfaceID) (activation.ClientID, bool) {
	s, ok := d.surfaces[id]
	if !ok {
		return 0, false
	}
	return s.owner, true
}

// MapWindow gives a surface a window on the given workspace
// (CurrentWorkspace for the active one). The window goes on top of the
// stack without focus; focus comes from activation.
func (d *Desktop) MapWindow(id activation.SurfaceID, title string, workspace int) (activation.WindowID, error) {
	s, ok := d.surfaces[id]
	if !ok {
		return 0, fmt.Errorf("map surface %d: %w", id, ErrUnknownSurface)
	}
	if s.window != 0 {
		return 0, fmt.Errorf("map surface %d: %w", id, ErrAlreadyMapped)
	}
	if workspace == CurrentWorkspace {
		workspace = d.active
	}
	if workspace < 0 || workspace >= d.workspaces {
		return 0, fmt.Errorf("map surface %d on workspace %d: %w", id, workspace, ErrBadWorkspace)
	}

	d.lastWindow++
	window := &Window{
		ID:        d.lastWindow,
		Surface:   id,
		Title:     title,
		Workspace: workspace,
	}
	d.windows[window.ID] = window
	d.stack = append(d.stack, window.ID)
	s.window = window.ID

	d.logger.Debug("window mapped", "window", window.ID, "surface", id, "title", title, "workspace", workspace)
	return window.ID, nil
}

// DestroySurface removes a surface and unmaps its window.
func (d *Desktop) DestroySurface(id activation.SurfaceID) bool {
	s, ok := d.surfaces[id]
	if !ok {
		return false
	}
	if s.window != 0 {
		d.unmap(s.window)
	}
	delete(d.surfaces, id)
	return true
}

// DestroyClientSurfaces removes every surface a client owns and returns
// their ids in ascending order.
func (d *Desktop) DestroyClientSurfaces(owner activation.ClientID) []activation.SurfaceID {
	var destroyed []activation.SurfaceID
	for id, s := range d.surfaces {
		if s.owner == owner {
			destroyed = append(destroyed, id)
		}
	}
	slices.Sort(destroyed)
	for _, id := range destroyed {
		d.DestroySurface(id)
	}
	return destroyed
}

func (d *Desktop) unmap(id activation.WindowID) {
	delete(d.windows, id)
	d.stack = slices.DeleteFunc(d.stack, func(w activation.WindowID) bool { return w == id })
	if d.focused == id {
		d.focused = 0
		d.focusTopmost()
	}
	d.logger.Debug("window unmapped", "window", id)
}

// WindowForSurface returns the window backed by a surface.
func (d *Desktop) WindowForSurface(id activation.SurfaceID) (activation.WindowID, bool) {
	s, ok := d.surfaces[id]
	if !ok || s.window == 0 {
		return 0, false
	}
	return s.window, true
}

// ActivateWindow raises and focuses a window, switching to its
// workspace. An application activation older than the last user
// interaction is downgraded to SetDemandsAttention.
func (d *Desktop) ActivateWindow(id activation.WindowID, timestamp startup.Timestamp, source activation.Source) {
	window, ok := d.windows[id]
	if !ok {
		return
	}
	if source == activation.SourceApplication && timestamp.Before(d.userTime) {
		d.logger.Debug("activation older than last user interaction",
			"window", id, "timestamp", timestamp, "user_time", d.userTime)
		d.SetDemandsAttention(id)
		return
	}
	if source == activation.SourceUser {
		d.NoteUserTime(timestamp)
	}

	d.active = window.Workspace
	d.raise(id)
	d.focus(id)
}

// SetDemandsAttention flags a window. The flag clears when the window
// is focused.
func (d *Desktop) SetDemandsAttention(id activation.WindowID) {
	window, ok := d.windows[id]
	if !ok || d.focused == id {
		return
	}
	window.DemandsAttention = true
	d.logger.Debug("window demands attention", "window", id)
}

// ChangeWorkspace moves a window to another workspace. Out-of-range
// indexes are ignored.
func (d *Desktop) ChangeWorkspace(id activation.WindowID, index int) {
	window, ok := d.windows[id]
	if !ok {
		return
	}
	if index < 0 || index >= d.workspaces {
		d.logger.Debug("ignoring workspace change out of range", "window", id, "workspace", index)
		return
	}
	window.Workspace = index
	if d.focused == id && index != d.active {
		d.focused = 0
		d.focusTopmost()
	}
}

// SwitchWorkspace makes another workspace active and focuses its
// topmost window.
func (d *Desktop) SwitchWorkspace(index int) error {
	if index < 0 || index >= d.workspaces {
		return fmt.Errorf("switch to workspace %d: %w", index, ErrBadWorkspace)
	}
	if index == d.active {
		return nil
	}
	d.active = index
	d.focused = 0
	d.focusTopmost()
	return nil
}

// ActiveWorkspace returns the index of the active workspace.
func (d *Desktop) ActiveWorkspace() int { return d.active }

// Focused returns the focused window.
func (d *Desktop) Focused() (activation.WindowID, bool) {
	return d.focused, d.focused != 0
}

// Window returns a copy of a window's state.
func (d *Desktop) Window(id activation.WindowID) (Window, bool) {
	window, ok := d.windows[id]
	if !ok {
		return Window{}, false
	}
	return *window, true
}

func (d *Desktop) raise(id activation.WindowID) {
	d.stack = slices.DeleteFunc(d.stack, func(w activation.WindowID) bool { return w == id })
	d.stack = append(d.stack, id)
}

func (d *Desktop) focus(id activation.WindowID) {
	d.focused = id
	d.windows[id].DemandsAttention = false
	d.logger.Debug("window focused", "window", id, "workspace", d.active)
}

// focusTopmost focuses the highest window on the active workspace, if
// any.
func (d *Desktop) focusTopmost() {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if d.windows[d.stack[i]].Workspace == d.active {
			d.focus(d.stack[i])
			return
		}
	}
}
