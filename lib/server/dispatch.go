// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/activation/lib/activation"
	"github.com/bureau-foundation/activation/lib/desktop"
	"github.com/bureau-foundation/activation/lib/protocol"
	"github.com/bureau-foundation/activation/lib/seat"
	"github.com/bureau-foundation/activation/lib/startup"
)

// dispatch executes one request. Runs on the loop.
func (s *Server) dispatch(conn *connection, request protocol.Request) {
	if s.connections[conn.id] != conn {
		return
	}

	switch request.Op {
	case protocol.OpRequestToken:
		s.requestToken(conn, request)

	case protocol.OpAssociate:
		_, outcome, err := s.service.Associate(activation.Token(request.Token), request.AppID)
		s.logOutcome(conn, request.Op, outcome, err)

	case protocol.OpSetCurrentToken:
		outcome, err := s.service.SetCurrentToken(conn.id, activation.Token(request.Token))
		s.logOutcome(conn, request.Op, outcome, err)

	case protocol.OpActivate:
		outcome, err := s.service.Activate(conn.id, activation.SurfaceID(request.Surface))
		s.logOutcome(conn, request.Op, outcome, err)

	case protocol.OpDestroyToken:
		s.service.DestroyToken(conn.id, activation.ObjectID(request.Object))

	case protocol.OpCreateSurface:
		surface := s.desktop.CreateSurface(conn.id)
		s.send(conn, protocol.Event{Event: protocol.EventSurfaceCreated, Seq: request.Seq, Surface: uint32(surface)})

	case protocol.OpMapWindow:
		workspace := desktop.CurrentWorkspace
		if request.Workspace != nil {
			workspace = *request.Workspace
		}
		window, err := s.desktop.MapWindow(activation.SurfaceID(request.Surface), request.Title, workspace)
		if err != nil {
			s.sendError(conn, request.Seq, err.Error())
			return
		}
		s.send(conn, protocol.Event{Event: protocol.EventWindowMapped, Seq: request.Seq, Window: uint64(window)})

	case protocol.OpInput:
		s.input(conn, request)

	case protocol.OpSetWorkspaceHint:
		s.send(conn, protocol.Event{Event: protocol.EventAck, Seq: request.Seq, OK: s.setWorkspaceHint(request)})

	case protocol.OpState:
		state := s.state()
		s.send(conn, protocol.Event{Event: protocol.EventState, Seq: request.Seq, State: &state})

	case protocol.OpHello:
		s.sendError(conn, request.Seq, "hello already received")

	default:
		s.sendError(conn, request.Seq, fmt.Sprintf("unknown op %q", request.Op))
	}
}

func (s *Server) requestToken(conn *connection, request protocol.Request) {
	handle := activation.Handle{Client: conn.id, Object: activation.ObjectID(request.Object)}
	if s.service.HandleLive(handle) {
		// Reusing a live object id is a protocol error that ends the
		// session.
		s.logger.Warn("token object id already in use", "client", conn.id, "object", request.Object)
		conn.sendLast(protocol.Event{
			Event:   protocol.EventError,
			Seq:     request.Seq,
			Message: fmt.Sprintf("token object %d already exists", request.Object),
		})
		s.detach(conn)
		return
	}
	_, outcome, err := s.service.RequestToken(
		conn.id,
		activation.ObjectID(request.Object),
		activation.SurfaceID(request.Surface),
		request.Serial,
		activation.SeatID(request.Seat),
	)
	s.logOutcome(conn, request.Op, outcome, err)
}

func (s *Server) input(conn *connection, request protocol.Request) {
	surface := activation.SurfaceID(request.Surface)
	if !s.desktop.HasSurface(surface) {
		s.sendError(conn, request.Seq, fmt.Sprintf("unknown surface %d", request.Surface))
		return
	}
	device, err := seat.ParseDevice(request.Device)
	if err != nil {
		s.sendError(conn, request.Seq, err.Error())
		return
	}
	serial, err := s.seats.Record(activation.SeatID(request.Seat), surface, device)
	if err != nil {
		s.sendError(conn, request.Seq, err.Error())
		return
	}
	s.desktop.NoteUserTime(s.desktop.CurrentTimestamp())
	s.send(conn, protocol.Event{Event: protocol.EventInputSerial, Seq: request.Seq, Serial: serial})
}

// setWorkspaceHint sets the preferred workspace of a launch that has
// not been claimed yet. Returns false if there is no such launch.
func (s *Server) setWorkspaceHint(request protocol.Request) bool {
	sequence, ok := s.registry.Lookup(request.Token)
	if !ok || sequence.Completed() {
		return false
	}
	workspace := startup.NoWorkspace
	if request.Workspace != nil {
		workspace = *request.Workspace
	}
	sequence.SetWorkspace(workspace)
	return true
}

func (s *Server) sendError(conn *connection, seq uint64, message string) {
	s.send(conn, protocol.Event{Event: protocol.EventError, Seq: seq, Message: message})
}

// logOutcome records the result of an activation operation. Expected
// refusals are debug-level: clients routinely present stale tokens.
func (s *Server) logOutcome(conn *connection, op string, outcome activation.Outcome, err error) {
	switch {
	case err == nil:
		s.logger.Debug("activation request", "client", conn.id, "op", op, "outcome", outcome)
	case errors.Is(err, activation.ErrDenied),
		errors.Is(err, activation.ErrNotFound),
		errors.Is(err, activation.ErrNoWindow),
		errors.Is(err, activation.ErrNoProvenance):
		s.logger.Debug("activation request refused", "client", conn.id, "op", op, "outcome", outcome, "reason", err)
	default:
		s.logger.Warn("activation request failed", "client", conn.id, "op", op, "error", err)
	}
}

// state builds the host.state reply. Runs on the loop.
func (s *Server) state() protocol.State {
	snapshot := s.desktop.Snapshot()
	state := protocol.State{
		Windows:         make([]protocol.Window, 0, len(snapshot.Windows)),
		Focused:         uint64(snapshot.Focused),
		ActiveWorkspace: snapshot.ActiveWorkspace,
		Workspaces:      snapshot.Workspaces,
	}
	for _, window := range snapshot.Windows {
		state.Windows = append(state.Windows, protocol.Window{
			ID:               uint64(window.ID),
			Surface:          uint32(window.Surface),
			Title:            window.Title,
			Workspace:        window.Workspace,
			DemandsAttention: window.DemandsAttention,
		})
	}
	for _, sequence := range s.registry.Sequences() {
		state.Launches = append(state.Launches, protocol.Launch{
			AppID:     sequence.AppID(),
			Timestamp: uint32(sequence.Timestamp()),
			Workspace: sequence.Workspace(),
			Completed: sequence.Completed(),
		})
	}
	stats := s.service.Stats()
	state.Stats = protocol.Stats{
		Clients:   len(s.connections),
		Tokens:    stats.Tokens,
		Sequences: stats.Sequences,
		Pending:   stats.Pending,
		Handles:   stats.Handles,
	}
	return state
}
