// Package roundtrip implements the bounded request channel used to talk to
// long-lived workers. Each queued element carries the request value, the
// caller's context for cancellation, and a write-once reply slot. A worker
// that cannot answer simply drops the slot and the caller gets an error
// instead of hanging.
package roundtrip

import (
	"context"
	"sync"

	perr "lineview/internal/platform/errors"
	"lineview/internal/platform/metrics"

	"github.com/google/uuid"
)

// DefaultCapacity is the bounded queue size workers use unless tuned
const DefaultCapacity = 10

// Reply is the write-once reply slot for one roundtrip
type Reply[Resp any] struct {
	ch   chan Resp
	once sync.Once
}

func newReply[Resp any]() *Reply[Resp] {
	return &Reply[Resp]{ch: make(chan Resp, 1)}
}

// Send delivers the reply. Only the first of Send/Drop wins; later calls are no-ops
func (s *Reply[Resp]) Send(v Resp) {
	s.once.Do(func() {
		s.ch <- v
		close(s.ch)
	})
}

// Drop closes the slot without a reply; the caller observes ErrRoundtripClosed
func (s *Reply[Resp]) Drop() {
	s.once.Do(func() { close(s.ch) })
}

// Envelope is one queued request
type Envelope[Req, Resp any] struct {
	// ID correlates worker logs with the inbound call
	ID string
	// Req is the request value, carried by value
	Req Req
	// Ctx is the caller's context; workers race their upstream work against it
	Ctx context.Context
	// Reply must be resolved exactly once via Send or Drop
	Reply *Reply[Resp]
}

type core[Req, Resp any] struct {
	name     string
	ch       chan Envelope[Req, Resp]
	done     chan struct{}
	doneOnce sync.Once
	sendOnce sync.Once
}

// Sender is the multi-producer half handed to HTTP handlers
type Sender[Req, Resp any] struct{ c *core[Req, Resp] }

// Receiver is the single-consumer half owned by one worker goroutine
type Receiver[Req, Resp any] struct{ c *core[Req, Resp] }

// New builds a bounded roundtrip channel. name labels metrics and logs
func New[Req, Resp any](name string, capacity int) (Sender[Req, Resp], Receiver[Req, Resp]) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &core[Req, Resp]{
		name: name,
		ch:   make(chan Envelope[Req, Resp], capacity),
		done: make(chan struct{}),
	}
	return Sender[Req, Resp]{c: c}, Receiver[Req, Resp]{c: c}
}

// Roundtrip queues req and blocks until the worker replies, the worker drops
// the slot, or ctx is cancelled. Backpressure applies while the queue is full
func (s Sender[Req, Resp]) Roundtrip(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	env := Envelope[Req, Resp]{
		ID:    uuid.NewString(),
		Req:   req,
		Ctx:   ctx,
		Reply: newReply[Resp](),
	}

	select {
	case s.c.ch <- env:
	case <-s.c.done:
		metrics.RoundtripTotal.WithLabelValues(s.c.name, "closed").Inc()
		return zero, perr.ErrRoundtripClosed
	case <-ctx.Done():
		metrics.RoundtripTotal.WithLabelValues(s.c.name, "cancelled").Inc()
		return zero, perr.Wrap(ctx.Err(), perr.ErrorCodeRoundtripClosed, "roundtrip cancelled")
	}

	select {
	case v, ok := <-env.Reply.ch:
		if !ok {
			metrics.RoundtripTotal.WithLabelValues(s.c.name, "closed").Inc()
			return zero, perr.ErrRoundtripClosed
		}
		metrics.RoundtripTotal.WithLabelValues(s.c.name, "ok").Inc()
		return v, nil
	case <-ctx.Done():
		metrics.RoundtripTotal.WithLabelValues(s.c.name, "cancelled").Inc()
		return zero, perr.Wrap(ctx.Err(), perr.ErrorCodeRoundtripClosed, "roundtrip cancelled")
	case <-s.c.done:
		// the worker went away; take one last look in case it replied first
		select {
		case v, ok := <-env.Reply.ch:
			if ok {
				metrics.RoundtripTotal.WithLabelValues(s.c.name, "ok").Inc()
				return v, nil
			}
		default:
		}
		metrics.RoundtripTotal.WithLabelValues(s.c.name, "closed").Inc()
		return zero, perr.ErrRoundtripClosed
	}
}

// Close shuts the producer side; the worker's Recv drains and then reports closed
func (s Sender[Req, Resp]) Close() {
	s.c.sendOnce.Do(func() { close(s.c.ch) })
}

// Recv blocks for the next envelope. ok is false when the sender side closed
// or ctx ended; either way the worker should terminate
func (r Receiver[Req, Resp]) Recv(ctx context.Context) (Envelope[Req, Resp], bool) {
	var zero Envelope[Req, Resp]
	select {
	case env, ok := <-r.c.ch:
		if !ok {
			return zero, false
		}
		return env, true
	case <-ctx.Done():
		return zero, false
	}
}

// Close marks the worker gone. Pending and future roundtrips fail fast
// instead of waiting on a reply that will never come
func (r Receiver[Req, Resp]) Close() {
	r.c.doneOnce.Do(func() { close(r.c.done) })
}

// Name returns the channel's worker label
func (r Receiver[Req, Resp]) Name() string { return r.c.name }
