// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "strings"

// Version is the protocol version this package speaks. The session
// version is the lower of the client's and the daemon's.
const Version = 1

// MaxFrameSize bounds a single encoded request.
const MaxFrameSize = 64 * 1024

// Request operations.
const (
	OpHello = "hello"

	OpRequestToken    = "request_token"
	OpAssociate       = "associate"
	OpSetCurrentToken = "set_current_token"
	OpActivate        = "activate"
	OpDestroyToken    = "destroy_token"

	OpCreateSurface    = "host.create_surface"
	OpMapWindow        = "host.map_window"
	OpInput            = "host.input"
	OpSetWorkspaceHint = "host.set_workspace_hint"
	OpState            = "host.state"
)

// Event names.
const (
	EventWelcome = "welcome"

	EventDone   = "done"
	EventFailed = "failed"

	EventSurfaceCreated = "surface_created"
	EventWindowMapped   = "window_mapped"
	EventInputSerial    = "input_serial"
	EventAck            = "ack"
	EventState          = "state"

	// EventError reports a request the daemon could not decode or
	// route. It echoes the request's Seq when there was one.
	EventError = "error"
)

// IsHostOp reports whether op belongs to the host protocol.
func IsHostOp(op string) bool {
	return strings.HasPrefix(op, "host.")
}

// Request is a CBOR-encoded request from a client.
type Request struct {
	// Op is the operation name, one of the Op constants.
	Op string `cbor:"op"`

	// Seq is chosen by the client and echoed in the reply to host
	// requests and in error events.
	Seq uint64 `cbor:"seq,omitempty"`

	// Version is the client's protocol version (hello).
	Version int `cbor:"version,omitempty"`

	// Name is a free-form client name for logs (hello).
	Name string `cbor:"name,omitempty"`

	// Object is the client-allocated token object id (request_token,
	// destroy_token).
	Object uint32 `cbor:"object,omitempty"`

	// Surface names a surface (request_token, activate, host.map_window,
	// host.input).
	Surface uint32 `cbor:"surface,omitempty"`

	// Serial is the input serial authorizing a token (request_token).
	Serial uint32 `cbor:"serial,omitempty"`

	// Seat names the seat the serial came from (request_token,
	// host.input).
	Seat uint32 `cbor:"seat,omitempty"`

	// Token is an activation token (associate, set_current_token,
	// host.set_workspace_hint).
	Token string `cbor:"token,omitempty"`

	// AppID is the launched application's id (associate).
	AppID string `cbor:"app_id,omitempty"`

	// Title is the window title (host.map_window).
	Title string `cbor:"title,omitempty"`

	// Workspace is a workspace index (host.map_window,
	// host.set_workspace_hint). Nil means the active workspace for
	// map_window and "no preference" for set_workspace_hint.
	Workspace *int `cbor:"workspace,omitempty"`

	// Device is the input device class: "pointer", "keyboard", or
	// "touch" (host.input).
	Device string `cbor:"device,omitempty"`
}

// Event is a CBOR-encoded message from the daemon.
type Event struct {
	// Event is the event name, one of the Event constants.
	Event string `cbor:"event"`

	// Seq echoes the Seq of the host request this event answers.
	Seq uint64 `cbor:"seq,omitempty"`

	// Version is the negotiated session version (welcome).
	Version int `cbor:"version,omitempty"`

	// Client is the id the daemon assigned to this connection
	// (welcome).
	Client uint64 `cbor:"client,omitempty"`

	// Daemon is the daemon's release version (welcome).
	Daemon string `cbor:"daemon,omitempty"`

	// Object is the token object a reply is addressed to (done,
	// failed).
	Object uint32 `cbor:"object,omitempty"`

	// Token is the issued token (done).
	Token string `cbor:"token,omitempty"`

	// Surface is a new surface id (surface_created).
	Surface uint32 `cbor:"surface,omitempty"`

	// Window is a new window id (window_mapped).
	Window uint64 `cbor:"window,omitempty"`

	// Serial is the serial stamped on an input event (input_serial).
	Serial uint32 `cbor:"serial,omitempty"`

	// OK reports whether a host request took effect (ack).
	OK bool `cbor:"ok,omitempty"`

	// Message describes the failure (error).
	Message string `cbor:"message,omitempty"`

	// State is the daemon's state (state).
	State *State `cbor:"state,omitempty"`
}

// State is the daemon's window model and activation tables as
// returned by host.state.
type State struct {
	// Windows in stacking order, bottom to top.
	Windows []Window `cbor:"windows"`

	// Focused is the focused window id, or zero.
	Focused uint64 `cbor:"focused,omitempty"`

	ActiveWorkspace int `cbor:"active_workspace"`
	Workspaces      int `cbor:"workspaces"`

	// Launches lists the startup sequences in the startup registry.
	// Sequence ids are withheld: an unclaimed id is a credential.
	Launches []Launch `cbor:"launches,omitempty"`

	Stats Stats `cbor:"stats"`
}

// Window describes one mapped window.
type Window struct {
	ID               uint64 `cbor:"id"`
	Surface          uint32 `cbor:"surface"`
	Title            string `cbor:"title,omitempty"`
	Workspace        int    `cbor:"workspace"`
	DemandsAttention bool   `cbor:"demands_attention,omitempty"`
}

// Launch describes one startup sequence.
type Launch struct {
	AppID     string `cbor:"app_id,omitempty"`
	Timestamp uint32 `cbor:"timestamp"`
	Workspace int    `cbor:"workspace"`
	Completed bool   `cbor:"completed,omitempty"`
}

// Stats counts the entries in the activation tables.
type Stats struct {
	Clients   int `cbor:"clients"`
	Tokens    int `cbor:"tokens"`
	Sequences int `cbor:"sequences"`
	Pending   int `cbor:"pending"`
	Handles   int `cbor:"handles"`
}

// Negotiate returns the session version for a client that speaks
// clientVersion. Zero means the client did not say, and gets Version.
func Negotiate(clientVersion int) int {
	if clientVersion <= 0 || clientVersion > Version {
		return Version
	}
	return clientVersion
}
