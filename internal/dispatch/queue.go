package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is reported once a queue is closed and drained.
var ErrClosed = errors.New("dispatch: queue closed")

// Queue is an unbounded FIFO with any number of producers and a single
// consumer. Send never blocks.
type Queue[T any] struct {
	name   string
	mu     sync.Mutex
	items  []T
	closed bool
	notify chan struct{}
}

// NewQueue creates an empty queue. name appears in panic messages.
func NewQueue[T any](name string) *Queue[T] {
	return &Queue[T]{
		name:   name,
		notify: make(chan struct{}, 1),
	}
}

// Send appends v. Sending after Close panics: the consumer is gone and
// anything queued now would silently be lost.
func (q *Queue[T]) Send(v T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic(fmt.Errorf("send on terminated %s queue: %w", q.name, ErrClosed))
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.wake()
}

// TryReceive pops the oldest item without blocking. It returns ok=false
// when the queue is empty, and ErrClosed when it is also closed.
func (q *Queue[T]) TryReceive() (T, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		if q.closed {
			return zero, false, ErrClosed
		}
		return zero, false, nil
	}

	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true, nil
}

// Receive blocks until an item is available, the queue is closed and
// drained (ErrClosed), or ctx is done.
func (q *Queue[T]) Receive(ctx context.Context) (T, error) {
	for {
		v, ok, err := q.TryReceive()
		if ok || err != nil {
			return v, err
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Close marks the queue closed. Items already queued can still be received.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wake()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
