// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bureau-foundation/activation/lib/codec"
	"github.com/bureau-foundation/activation/lib/protocol"
)

// dialTimeout bounds the connect phase.
const dialTimeout = 5 * time.Second

// welcomeTimeout is how long Dial waits for the welcome.
const welcomeTimeout = 10 * time.Second

// writeTimeout bounds writing a single request.
const writeTimeout = 10 * time.Second

// ErrDenied is returned by RequestToken when the daemon replies
// failed.
var ErrDenied = errors.New("client: activation token denied")

// ErrClosed is returned by calls on a closed session.
var ErrClosed = errors.New("client: session closed")

// ServerError is an error event from the daemon.
type ServerError struct {
	Op      string
	Message string
}

func (e *ServerError) Error() string {
	if e.Op == "" {
		return "server error: " + e.Message
	}
	return fmt.Sprintf("server error on %q: %s", e.Op, e.Message)
}

// Client is a session with the activation daemon.
type Client struct {
	conn    net.Conn
	id      uint64
	version int
	daemon  string

	writeMu sync.Mutex
	encoder *codec.Encoder

	mu         sync.Mutex
	lastSeq    uint64
	lastObject uint32
	bySeq      map[uint64]chan protocol.Event
	byObject   map[uint32]chan protocol.Event
	err        error

	done chan struct{}
}

// Dial connects to the daemon at socketPath and completes the hello
// handshake. name identifies the client in the daemon's logs.
func Dial(ctx context.Context, socketPath, name string) (*Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", socketPath, err)
	}

	c := &Client{
		conn:     conn,
		encoder:  codec.NewEncoder(conn),
		bySeq:    make(map[uint64]chan protocol.Event),
		byObject: make(map[uint32]chan protocol.Event),
		done:     make(chan struct{}),
	}
	if err := c.write(protocol.Request{Op: protocol.OpHello, Version: protocol.Version, Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sending hello: %w", err)
	}

	deadline := time.Now().Add(welcomeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	conn.SetReadDeadline(deadline)
	decoder := codec.NewDecoder(conn)
	var welcome protocol.Event
	if err := decoder.Decode(&welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading welcome: %w", err)
	}
	switch welcome.Event {
	case protocol.EventWelcome:
	case protocol.EventError:
		conn.Close()
		return nil, &ServerError{Op: protocol.OpHello, Message: welcome.Message}
	default:
		conn.Close()
		return nil, fmt.Errorf("expected %s, got %q", protocol.EventWelcome, welcome.Event)
	}
	conn.SetReadDeadline(time.Time{})

	c.id = welcome.Client
	c.version = welcome.Version
	c.daemon = welcome.Daemon
	go c.readLoop(decoder)
	return c, nil
}

// ID returns the client id the daemon assigned to this session.
func (c *Client) ID() uint64 { return c.id }

// Version returns the negotiated protocol version.
func (c *Client) Version() int { return c.version }

// DaemonVersion returns the release version the daemon reported.
func (c *Client) DaemonVersion() string { return c.daemon }

// Close ends the session.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Done is closed when the session ends, by Close or by the daemon.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the session ended, once Done is closed.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) readLoop(decoder *codec.Decoder) {
	var err error
	for {
		var event protocol.Event
		if err = decoder.Decode(&event); err != nil {
			break
		}
		if event.Event == protocol.EventError && event.Seq == 0 {
			err = &ServerError{Message: event.Message}
			break
		}
		c.deliver(event)
	}

	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.conn.Close()
	close(c.done)
}

// deliver hands an event to the call waiting for it. Events nobody
// waits for are dropped.
func (c *Client) deliver(event protocol.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var waiter chan protocol.Event
	switch event.Event {
	case protocol.EventDone, protocol.EventFailed:
		waiter = c.byObject[event.Object]
	default:
		waiter = c.bySeq[event.Seq]
	}
	if waiter == nil {
		return
	}
	select {
	case waiter <- event:
	default:
	}
}

func (c *Client) write(request protocol.Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.encoder.Encode(request)
}

// send writes a request that has no reply.
func (c *Client) send(request protocol.Request) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	if err := c.write(request); err != nil {
		return fmt.Errorf("sending %s: %w", request.Op, err)
	}
	return nil
}

// call writes a request and waits for the event that answers it.
// object, when non-zero, also routes done and failed for that token
// object to this call.
func (c *Client) call(ctx context.Context, request protocol.Request, object uint32) (protocol.Event, error) {
	waiter := make(chan protocol.Event, 1)

	c.mu.Lock()
	c.lastSeq++
	request.Seq = c.lastSeq
	c.bySeq[request.Seq] = waiter
	if object != 0 {
		c.byObject[object] = waiter
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.bySeq, request.Seq)
		if object != 0 {
			delete(c.byObject, object)
		}
		c.mu.Unlock()
	}()

	if err := c.send(request); err != nil {
		return protocol.Event{}, err
	}

	select {
	case event := <-waiter:
		if event.Event == protocol.EventError {
			return event, &ServerError{Op: request.Op, Message: event.Message}
		}
		return event, nil
	case <-c.done:
		if err := c.Err(); err != nil {
			return protocol.Event{}, fmt.Errorf("waiting for %s reply: %w", request.Op, err)
		}
		return protocol.Event{}, ErrClosed
	case <-ctx.Done():
		return protocol.Event{}, ctx.Err()
	}
}

func (c *Client) nextObject() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastObject++
	return c.lastObject
}
