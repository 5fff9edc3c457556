// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned by Do when the loop is not running.
var ErrLoopStopped = errors.New("server: dispatch loop stopped")

// loopQueueSize is the number of posted functions the loop buffers.
const loopQueueSize = 1024

// Loop runs posted functions one at a time on a single goroutine.
type Loop struct {
	queue   chan func()
	stopped chan struct{}

	// after holds work queued by After. Owned by the loop goroutine.
	after []func()
}

// NewLoop creates a loop. Functions can be posted before Run starts;
// they run once it does.
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func(), loopQueueSize),
		stopped: make(chan struct{}),
	}
}

// Run executes posted functions until ctx is cancelled. Functions
// still queued at that point are dropped. Run must be called once.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
			l.runAfter()
		}
	}
}

// After queues fn to run on the loop once the function currently
// running returns, ahead of anything still in the queue. It must only
// be called from the loop goroutine, and never blocks.
func (l *Loop) After(fn func()) {
	l.after = append(l.after, fn)
}

func (l *Loop) runAfter() {
	for len(l.after) > 0 {
		next := l.after
		l.after = nil
		for _, fn := range next {
			fn()
		}
	}
}

// Post queues fn to run on the loop goroutine. Blocks while the queue
// is full, so functions running on the loop use After instead.
// Returns false, dropping fn, if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}
