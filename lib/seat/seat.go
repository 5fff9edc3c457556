// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package seat

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bureau-foundation/activation/lib/activation"
	"github.com/bureau-foundation/activation/lib/clock"
)

// DefaultSeat is the seat every Manager starts with.
const DefaultSeat = activation.SeatID(0)

// DefaultHistory is the number of events a seat remembers when
// Config.History is zero.
const DefaultHistory = 16

// ErrUnknownSeat is returned for a seat id that was never added.
var ErrUnknownSeat = errors.New("seat: unknown seat")

// Device is the input device class that produced an event.
type Device int

const (
	DevicePointer Device = iota + 1
	DeviceKeyboard
	DeviceTouch
)

func (d Device) String() string {
	switch d {
	case DevicePointer:
		return "pointer"
	case DeviceKeyboard:
		return "keyboard"
	case DeviceTouch:
		return "touch"
	default:
		return fmt.Sprintf("device(%d)", int(d))
	}
}

// ParseDevice converts a device name to a Device.
func ParseDevice(name string) (Device, error) {
	switch name {
	case "pointer":
		return DevicePointer, nil
	case "keyboard":
		return DeviceKeyboard, nil
	case "touch":
		return DeviceTouch, nil
	default:
		return 0, fmt.Errorf("unknown input device %q (expected pointer, keyboard, or touch)", name)
	}
}

// Event is one recorded input event.
type Event struct {
	Serial  uint32
	Surface activation.SurfaceID
	Device  Device
	At      time.Time
}

// Config configures a Manager.
type Config struct {
	// Clock stamps events and ages them. Required.
	Clock clock.Clock

	// MaxAge is how long a serial can authorize a token. Zero means
	// serials never age out; only History bounds them.
	MaxAge time.Duration

	// History is how many recent events each seat remembers. Zero
	// means DefaultHistory.
	History int

	// Logger receives grant decisions at debug level. Nil discards.
	Logger *slog.Logger
}

// Manager owns the seats of a display and the serial counter they
// share.
type Manager struct {
	clock   clock.Clock
	maxAge  time.Duration
	history int
	logger  *slog.Logger

	lastSerial uint32
	nextSeat   activation.SeatID
	seats      map[activation.SeatID]*seat
}

type seat struct {
	name string

	// events is a ring of the most recent events, oldest first once
	// it has wrapped. next is the slot the next event goes into.
	events []Event
	next   int
}

// New creates a Manager with a single seat, DefaultSeat, named
// "seat0".
func New(config Config) *Manager {
	if config.Clock == nil {
		panic("seat.New: Clock is required")
	}
	history := config.History
	if history <= 0 {
		history = DefaultHistory
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	manager := &Manager{
		clock:   config.Clock,
		maxAge:  config.MaxAge,
		history: history,
		logger:  logger,
		seats:   make(map[activation.SeatID]*seat),
	}
	manager.AddSeat("seat0")
	return manager
}

// AddSeat creates a seat and returns its id.
func (m *Manager) AddSeat(name string) activation.SeatID {
	id := m.nextSeat
	m.nextSeat++
	m.seats[id] = &seat{name: name}
	return id
}

// Seats returns the ids of all seats in ascending order.
func (m *Manager) Seats() []activation.SeatID {
	ids := make([]activation.SeatID, 0, len(m.seats))
	for id := range m.seats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Name returns a seat's name.
func (m *Manager) Name(id activation.SeatID) (string, bool) {
	s, ok := m.seats[id]
	if !ok {
		return "", false
	}
	return s.name, true
}

// Record stamps an input event on surface with a new serial and
// remembers it in the seat's history.
func (m *Manager) Record(id activation.SeatID, surface activation.SurfaceID, device Device) (uint32, error) {
	s, ok := m.seats[id]
	if !ok {
		return 0, fmt.Errorf("record input on seat %d: %w", id, ErrUnknownSeat)
	}

	serial := m.nextSerial()
	event := Event{
		Serial:  serial,
		Surface: surface,
		Device:  device,
		At:      m.clock.Now(),
	}
	if len(s.events) < m.history {
		s.events = append(s.events, event)
	} else {
		s.events[s.next] = event
	}
	s.next = (s.next + 1) % m.history
	return serial, nil
}

// nextSerial returns the next display serial. Serials wrap around and
// skip zero, which clients use to mean "no serial".
func (m *Manager) nextSerial() uint32 {
	m.lastSerial++
	if m.lastSerial == 0 {
		m.lastSerial = 1
	}
	return m.lastSerial
}

// GrantCheck reports whether serial names a recent input event on
// surface from the given seat.
func (m *Manager) GrantCheck(id activation.SeatID, surface activation.SurfaceID, serial uint32) bool {
	s, ok := m.seats[id]
	if !ok || serial == 0 {
		return false
	}
	for _, event := range s.events {
		if event.Serial != serial {
			continue
		}
		if event.Surface != surface {
			m.logger.Debug("serial belongs to another surface",
				"seat", id, "serial", serial, "surface", surface, "event_surface", event.Surface)
			return false
		}
		if m.maxAge > 0 && m.clock.Now().Sub(event.At) > m.maxAge {
			m.logger.Debug("serial too old",
				"seat", id, "serial", serial, "age", m.clock.Now().Sub(event.At))
			return false
		}
		return true
	}
	return false
}

// ForgetSurface drops every remembered event on surface, so a
// destroyed surface's serials cannot authorize a token for a new
// surface that reuses its id.
func (m *Manager) ForgetSurface(surface activation.SurfaceID) {
	for _, s := range m.seats {
		for i := range s.events {
			if s.events[i].Surface == surface {
				s.events[i].Serial = 0
			}
		}
	}
}

// Recent returns a seat's remembered events, oldest first.
func (m *Manager) Recent(id activation.SeatID) []Event {
	s, ok := m.seats[id]
	if !ok {
		return nil
	}
	events := make([]Event, 0, len(s.events))
	if len(s.events) == m.history {
		events = append(events, s.events[s.next:]...)
		events = append(events, s.events[:s.next]...)
	} else {
		events = append(events, s.events...)
	}
	live := events[:0]
	for _, event := range events {
		if event.Serial != 0 {
			live = append(live, event)
		}
	}
	return live
}
