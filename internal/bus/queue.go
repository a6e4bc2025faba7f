// Package bus decouples market data producers from the algorithm with a
// bounded in-memory queue. Producers never block; a full queue sheds the
// newest event and reports it to the caller.
package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"main/internal/model"
)

var (
	ErrQueueFull   = errors.New("event queue full")
	ErrQueueClosed = errors.New("event queue closed")
)

// Kind discriminates the payload of an Event.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDepth
	KindTrade
	KindCommand
)

// Event is the unit passed through the in-memory bus. Exactly one payload
// field is set, selected by Kind.
type Event struct {
	Kind    Kind
	Depth   *model.Depth
	Trade   *model.Trade
	Command *model.Command
}

// DepthEvent wraps a depth update.
func DepthEvent(d *model.Depth) Event { return Event{Kind: KindDepth, Depth: d} }

// TradeEvent wraps a public trade.
func TradeEvent(t *model.Trade) Event { return Event{Kind: KindTrade, Trade: t} }

// CommandEvent wraps an operator command.
func CommandEvent(c *model.Command) Event { return Event{Kind: KindCommand, Command: c} }

// Queue is a bounded, non-blocking event queue.
type Queue struct {
	ch     chan Event
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// TryPublish enqueues an event without blocking.
func (q *Queue) TryPublish(e Event) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new events.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes events until the context is done or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-q.ch:
			if !ok {
				return
			}
			handler(e)
		}
	}
}
