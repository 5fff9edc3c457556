// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bureau-foundation/activation/lib/activation"
	"github.com/bureau-foundation/activation/lib/codec"
	"github.com/bureau-foundation/activation/lib/protocol"
)

// writeTimeout is how long one event may take to write before the
// peer is considered stuck.
const writeTimeout = 10 * time.Second

// errFrameTooLarge is returned by frameLimiter when a single request
// exceeds protocol.MaxFrameSize.
var errFrameTooLarge = errors.New("request exceeds maximum frame size")

// outgoing is one queued event. last closes the connection once the
// event is written.
type outgoing struct {
	event protocol.Event
	last  bool
}

// connection is one accepted client. Its id, name, and peer are set
// before the connection is visible to the loop and never change.
type connection struct {
	id      activation.ClientID
	netConn net.Conn
	peer    peerCredentials
	name    string
	logger  *slog.Logger

	queue     chan outgoing
	closed    chan struct{}
	closeOnce sync.Once
}

func newConnection(id activation.ClientID, netConn net.Conn, queueSize int, logger *slog.Logger) *connection {
	return &connection{
		id:      id,
		netConn: netConn,
		peer:    readPeerCredentials(netConn),
		logger:  logger,
		queue:   make(chan outgoing, queueSize),
		closed:  make(chan struct{}),
	}
}

// send queues an event without blocking. Returns false if the
// connection is closed or its queue is full.
func (c *connection) send(event protocol.Event) bool {
	return c.enqueue(outgoing{event: event})
}

// sendLast queues a final event; the connection closes after it is
// written.
func (c *connection) sendLast(event protocol.Event) bool {
	return c.enqueue(outgoing{event: event, last: true})
}

func (c *connection) enqueue(item outgoing) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.queue <- item:
		return true
	default:
		return false
	}
}

// close shuts the connection down. Safe to call from any goroutine,
// any number of times. Queued events are dropped.
func (c *connection) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.netConn.Close()
	})
}

// isClosed reports whether close has been called.
func (c *connection) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// writeLoop writes queued events until the connection closes.
func (c *connection) writeLoop() {
	encoder := codec.NewEncoder(c.netConn)
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.queue:
			c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := encoder.Encode(item.event); err != nil {
				if !c.isClosed() {
					c.logger.Debug("writing event failed", "client", c.id, "event", item.event.Event, "error", err)
				}
				c.close()
				return
			}
			if item.last {
				c.close()
				return
			}
		}
	}
}

// frameLimiter fails a read once more than protocol.MaxFrameSize bytes
// have been consumed since the last reset. The decoder reads ahead, so
// the bound is per frame only approximately, but a single oversized
// frame always trips it.
type frameLimiter struct {
	reader    io.Reader
	remaining int
}

func newFrameLimiter(reader io.Reader) *frameLimiter {
	return &frameLimiter{reader: reader, remaining: protocol.MaxFrameSize}
}

func (l *frameLimiter) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, errFrameTooLarge
	}
	if len(p) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.reader.Read(p)
	l.remaining -= n
	return n, err
}

func (l *frameLimiter) reset() {
	l.remaining = protocol.MaxFrameSize
}
