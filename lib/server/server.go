// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/activation/lib/activation"
	"github.com/bureau-foundation/activation/lib/clock"
	"github.com/bureau-foundation/activation/lib/codec"
	"github.com/bureau-foundation/activation/lib/desktop"
	"github.com/bureau-foundation/activation/lib/protocol"
	"github.com/bureau-foundation/activation/lib/seat"
	"github.com/bureau-foundation/activation/lib/startup"
	"github.com/bureau-foundation/activation/lib/version"
)

// Defaults for zero-valued Config fields.
const (
	DefaultHelloTimeout = 10 * time.Second
	DefaultEventQueue   = 64
	DefaultWorkspaces   = 4
)

// Config configures a Server.
type Config struct {
	// SocketPath is where the daemon listens. Required.
	SocketPath string

	// HelloTimeout is how long a new connection may take to send its
	// hello.
	HelloTimeout time.Duration

	// EventQueue is the number of events buffered per connection.
	EventQueue int

	// Clock drives token expiry, the startup watchdog, serial ages, and
	// display time. Nil means clock.Real().
	Clock clock.Clock

	// TokenTTL and MaxTokensPerClient bound unassociated tokens. Zero
	// disables each bound.
	TokenTTL           time.Duration
	MaxTokensPerClient int

	// StartupTimeout is how long a startup sequence may stay
	// registered. Zero disables the watchdog.
	StartupTimeout time.Duration

	// SerialMaxAge and SerialHistory configure the seat manager.
	SerialMaxAge  time.Duration
	SerialHistory int

	// Workspaces is the number of desktop workspaces.
	Workspaces int

	// Generate creates tokens. Nil means activation.NewUUIDToken.
	Generate activation.TokenGenerator

	// Logger receives server events. Nil discards.
	Logger *slog.Logger
}

// Server is the activation daemon.
type Server struct {
	socketPath   string
	helloTimeout time.Duration
	eventQueue   int
	logger       *slog.Logger

	loop     *Loop
	registry *startup.Registry
	seats    *seat.Manager
	desktop  *desktop.Desktop
	service  *activation.Service

	// lastClient is the most recently assigned client id. Owned by the
	// accept goroutine.
	lastClient uint64

	// connections maps client ids to connections that completed the
	// hello. Owned by the loop.
	connections map[activation.ClientID]*connection

	// all tracks every connection whose writer is still running, hello
	// or not, so Serve can close them on shutdown.
	allMu sync.Mutex
	all   map[*connection]struct{}

	connectionGoroutines sync.WaitGroup
	ready                chan struct{}
}

// New creates a Server and its activation state. Nothing listens until
// Serve is called.
func New(config Config) (*Server, error) {
	if config.SocketPath == "" {
		return nil, errors.New("server: socket path is required")
	}
	helloTimeout := config.HelloTimeout
	if helloTimeout <= 0 {
		helloTimeout = DefaultHelloTimeout
	}
	eventQueue := config.EventQueue
	if eventQueue <= 0 {
		eventQueue = DefaultEventQueue
	}
	workspaces := config.Workspaces
	if workspaces <= 0 {
		workspaces = DefaultWorkspaces
	}
	timers := config.Clock
	if timers == nil {
		timers = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		socketPath:   config.SocketPath,
		helloTimeout: helloTimeout,
		eventQueue:   eventQueue,
		logger:       logger,
		loop:         NewLoop(),
		connections:  make(map[activation.ClientID]*connection),
		all:          make(map[*connection]struct{}),
		ready:        make(chan struct{}),
	}
	post := func(fn func()) { s.loop.Post(fn) }

	s.registry = startup.NewRegistry(startup.RegistryConfig{
		Clock:   timers,
		Timeout: config.StartupTimeout,
		Post:    post,
		Logger:  logger.With("component", "startup"),
	})
	s.seats = seat.New(seat.Config{
		Clock:   timers,
		MaxAge:  config.SerialMaxAge,
		History: config.SerialHistory,
		Logger:  logger.With("component", "seat"),
	})
	s.desktop = desktop.New(desktop.Config{
		Clock:      timers,
		Workspaces: workspaces,
		Logger:     logger.With("component", "desktop"),
	})
	s.service = activation.New(activation.Config{
		Grants:             s.seats,
		Clock:              s.desktop,
		Notifier:           s.registry,
		Windows:            s.desktop,
		Replier:            s,
		Generate:           config.Generate,
		Timers:             timers,
		TokenTTL:           config.TokenTTL,
		MaxTokensPerClient: config.MaxTokensPerClient,
		Post:               post,
		Logger:             logger.With("component", "activation"),
	})
	return s, nil
}

// Ready is closed once the socket is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens on the socket and runs the daemon until ctx is
// cancelled. Any stale socket file is removed first; the socket file
// is removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer os.Remove(s.socketPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.loop.Run(ctx)
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("activation daemon listening", "path", s.socketPath)
	close(s.ready)

	for {
		netConn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.accept(netConn)
	}

	<-s.loop.Stopped()
	s.allMu.Lock()
	for conn := range s.all {
		conn.close()
	}
	s.allMu.Unlock()
	s.connectionGoroutines.Wait()

	s.logger.Info("activation daemon stopped")
	return nil
}

func (s *Server) accept(netConn net.Conn) {
	s.lastClient++
	id := activation.ClientID(s.lastClient)
	conn := newConnection(id, netConn, s.eventQueue, s.logger)

	s.allMu.Lock()
	s.all[conn] = struct{}{}
	s.allMu.Unlock()

	s.connectionGoroutines.Add(2)
	go func() {
		defer s.connectionGoroutines.Done()
		conn.writeLoop()
		s.allMu.Lock()
		delete(s.all, conn)
		s.allMu.Unlock()
	}()
	go func() {
		defer s.connectionGoroutines.Done()
		s.readLoop(conn)
	}()
}

// readLoop decodes requests and posts them to the loop. The first
// request must be a hello.
func (s *Server) readLoop(conn *connection) {
	limiter := newFrameLimiter(conn.netConn)
	decoder := codec.NewDecoder(limiter)

	conn.netConn.SetReadDeadline(time.Now().Add(s.helloTimeout))
	var hello protocol.Request
	if err := decoder.Decode(&hello); err != nil {
		if !errors.Is(err, io.EOF) && !conn.isClosed() {
			conn.sendLast(protocol.Event{Event: protocol.EventError, Message: fmt.Sprintf("invalid hello: %v", err)})
			s.logger.Debug("connection closed before hello", "client", conn.id, "peer", conn.peer, "error", err)
		} else {
			conn.close()
		}
		return
	}
	if hello.Op != protocol.OpHello {
		conn.sendLast(protocol.Event{
			Event:   protocol.EventError,
			Seq:     hello.Seq,
			Message: fmt.Sprintf("expected %s, got %q", protocol.OpHello, hello.Op),
		})
		return
	}
	conn.netConn.SetReadDeadline(time.Time{})
	limiter.reset()

	conn.name = hello.Name
	negotiated := protocol.Negotiate(hello.Version)
	if !s.loop.Post(func() { s.register(conn, negotiated) }) {
		conn.close()
		return
	}

	// farewell is set when an error event is queued as the last
	// event; the writer closes the connection once it is out.
	farewell := false
	for {
		var request protocol.Request
		if err := decoder.Decode(&request); err != nil {
			if !errors.Is(err, io.EOF) && !conn.isClosed() {
				s.logger.Debug("invalid request", "client", conn.id, "error", err)
				farewell = conn.sendLast(protocol.Event{Event: protocol.EventError, Message: fmt.Sprintf("invalid request: %v", err)})
			}
			break
		}
		limiter.reset()
		if !s.loop.Post(func() { s.dispatch(conn, request) }) {
			break
		}
	}
	cleanup := s.disconnect
	if farewell {
		cleanup = s.detach
	}
	if !s.loop.Post(func() { cleanup(conn) }) {
		conn.close()
	}
}

// register makes a connection visible to the loop and welcomes it.
func (s *Server) register(conn *connection, negotiated int) {
	if conn.isClosed() {
		return
	}
	s.connections[conn.id] = conn
	s.send(conn, protocol.Event{
		Event:   protocol.EventWelcome,
		Version: negotiated,
		Client:  uint64(conn.id),
		Daemon:  version.Short(),
	})
	s.logger.Info("client connected",
		"client", conn.id,
		"name", conn.name,
		"version", negotiated,
		"peer", conn.peer,
	)
}

// disconnect closes a connection and removes everything it owned.
// Runs on the loop.
func (s *Server) disconnect(conn *connection) {
	conn.close()
	s.detach(conn)
}

// detach removes everything a connection owned without closing it, so
// a final event already queued still goes out. Runs on the loop.
func (s *Server) detach(conn *connection) {
	if s.connections[conn.id] != conn {
		return
	}
	delete(s.connections, conn.id)
	s.service.Disconnect(conn.id)
	for _, surface := range s.desktop.DestroyClientSurfaces(conn.id) {
		s.seats.ForgetSurface(surface)
	}
	s.logger.Info("client disconnected", "client", conn.id, "name", conn.name)
}

// send queues an event for a connection. A connection whose queue is
// full is closed at once; its cleanup runs on the loop after the
// current operation, so callers in the middle of an activation
// operation never see the tables change under them. Runs on the loop.
func (s *Server) send(conn *connection, event protocol.Event) {
	if conn.send(event) {
		return
	}
	if conn.isClosed() {
		return
	}
	s.logger.Warn("client event queue full, disconnecting", "client", conn.id, "name", conn.name, "queue", s.eventQueue)
	conn.close()
	s.loop.After(func() { s.disconnect(conn) })
}

// SendDone delivers a token to its requester, if still connected.
func (s *Server) SendDone(handle activation.Handle, token activation.Token) {
	conn, ok := s.connections[handle.Client]
	if !ok {
		return
	}
	s.send(conn, protocol.Event{Event: protocol.EventDone, Object: uint32(handle.Object), Token: string(token)})
}

// SendFailed tells a requester its token request was denied, if still
// connected.
func (s *Server) SendFailed(handle activation.Handle) {
	conn, ok := s.connections[handle.Client]
	if !ok {
		return
	}
	s.send(conn, protocol.Event{Event: protocol.EventFailed, Object: uint32(handle.Object)})
}

// State returns the daemon state as served by host.state.
func (s *Server) State(ctx context.Context) (protocol.State, error) {
	var state protocol.State
	err := s.loop.Do(ctx, func() { state = s.state() })
	return state, err
}
