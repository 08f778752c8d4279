// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lifecycle

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by Publish once the bus has been closed.
var ErrClosed = errors.New("lifecycle bus closed")

// DefaultBufferSize is the event queue capacity used when none is given.
const DefaultBufferSize = 64

// Bus delivers events to subscribers in publish order on a single background
// goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int

	// closeMu guards closed and the send side of queue. It is separate from mu
	// so a Publish blocked on a full queue never stalls delivery.
	closeMu sync.RWMutex
	closed  bool

	queue chan envelope
	done  chan struct{}
	ctx   context.Context
}

// envelope is one queue entry: an event, or a flush marker whose channel is
// closed once everything queued before it has been dispatched.
type envelope struct {
	ev      Event
	flushed chan struct{}
}

// NewBus creates a bus and starts its delivery goroutine. ctx is passed to
// handlers.
func NewBus(ctx context.Context, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	b := &Bus{
		handlers: make(map[int]Handler),
		queue:    make(chan envelope, bufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
	}
	go b.deliver()
	return b
}

// Subscribe registers h. The returned function removes it and is safe to call
// more than once.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
		})
	}
}

// Publish enqueues ev for delivery. It blocks only while the queue is full.
func (b *Bus) Publish(ev Event) error {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	b.queue <- envelope{ev: ev}
	return nil
}

// Flush blocks until every event published before the call has been handled
// by all subscribers, or ctx is done. On a closed bus it waits for the
// remaining events to drain. Flush must not be called from a Handler.
func (b *Bus) Flush(ctx context.Context) error {
	b.closeMu.RLock()
	if b.closed {
		b.closeMu.RUnlock()
		select {
		case <-b.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	flushed := make(chan struct{})
	select {
	case b.queue <- envelope{flushed: flushed}:
		b.closeMu.RUnlock()
	case <-ctx.Done():
		b.closeMu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events, delivers everything already queued and waits
// for the delivery goroutine to exit.
func (b *Bus) Close() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	close(b.queue)
	b.closeMu.Unlock()

	<-b.done
}

func (b *Bus) deliver() {
	defer close(b.done)

	for env := range b.queue {
		if env.flushed != nil {
			close(env.flushed)
			continue
		}
		for _, h := range b.snapshot() {
			b.dispatch(h, env.ev)
		}
	}
}

// snapshot returns handlers in subscription order.
func (b *Bus) snapshot() []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	return handlers
}

func (b *Bus) dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("lifecycle handler panicked on %s: %v", ev.Kind, r)
		}
	}()
	h(b.ctx, ev)
}
