// Package broadcast provides a bounded single-topic fan-out hub.
//
// Every Subscription sees published values in publish order. The hub keeps only
// the most recent Capacity values; a subscriber that falls further behind than
// that loses the oldest values and is told how many it missed, then continues
// from the oldest value still retained. Publishers never block on subscribers.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoSubscribers is returned by Publish when nobody is subscribed.
// The value is still retained, so this is informational.
var ErrNoSubscribers = errors.New("broadcast: no active subscribers")

// ErrClosed is returned by Publish after Close, and by Recv once a closed hub
// has been drained or the subscription itself was closed.
var ErrClosed = errors.New("broadcast: closed")

// LagError is returned by Recv when the subscriber fell behind and values were
// overwritten before it read them. The next Recv resumes with the oldest
// retained value.
type LagError struct {
	Skipped uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("broadcast: subscriber lagged, skipped %d values", e.Skipped)
}

// Hub is a bounded ring of values of type T fanned out to all subscriptions.
// All methods are safe for concurrent use.
type Hub[T any] struct {
	mu     sync.Mutex
	ring   []T
	next   uint64 // sequence number the next Publish will use
	subs   int
	closed bool
	wake   chan struct{} // closed and replaced on every Publish and on Close
}

// NewHub creates a Hub retaining at most capacity values.
//
// Precondition: capacity must be >= 1.
func NewHub[T any](capacity int) (*Hub[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("broadcast capacity must be >= 1, got %d", capacity)
	}
	return &Hub[T]{
		ring: make([]T, capacity),
		wake: make(chan struct{}),
	}, nil
}

// Capacity returns the number of values the hub retains.
func (h *Hub[T]) Capacity() int {
	return len(h.ring)
}

// Publish appends v and wakes every waiting subscriber. It never blocks on readers.
//
// Postcondition: Returns ErrClosed after Close, ErrNoSubscribers when there are no
// subscriptions, nil otherwise.
func (h *Hub[T]) Publish(v T) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.ring[h.next%uint64(len(h.ring))] = v
	h.next++
	close(h.wake)
	h.wake = make(chan struct{})
	subs := h.subs
	h.mu.Unlock()

	if subs == 0 {
		return ErrNoSubscribers
	}
	return nil
}

// Subscribe returns a Subscription that receives every value published after this call.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Subscription[T]{hub: h, next: h.next}
	if h.closed {
		s.closed = true
		return s
	}
	h.subs++
	return s
}

// Subscribers returns the number of open subscriptions.
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs
}

// Close stops the hub. Subscribers drain what they have not read yet and then
// receive ErrClosed. Close is idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.wake)
}

// oldest returns the sequence number of the oldest retained value.
// Caller holds h.mu.
func (h *Hub[T]) oldest() uint64 {
	if c := uint64(len(h.ring)); h.next > c {
		return h.next - c
	}
	return 0
}

// Subscription is one reader's cursor into a Hub.
// A Subscription must be read from a single goroutine.
type Subscription[T any] struct {
	hub    *Hub[T]
	next   uint64
	closed bool
}

// Recv returns the next value, blocking until one is published, ctx is done,
// or the hub is closed.
//
// Postcondition: Returns (value, nil), (zero, *LagError) after a gap, (zero, ErrClosed)
// when closed, or (zero, ctx.Err()).
func (s *Subscription[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	h := s.hub
	for {
		h.mu.Lock()
		if s.closed {
			h.mu.Unlock()
			return zero, ErrClosed
		}
		if oldest := h.oldest(); s.next < oldest {
			skipped := oldest - s.next
			s.next = oldest
			h.mu.Unlock()
			return zero, &LagError{Skipped: skipped}
		}
		if s.next < h.next {
			v := h.ring[s.next%uint64(len(h.ring))]
			s.next++
			h.mu.Unlock()
			return v, nil
		}
		if h.closed {
			h.mu.Unlock()
			return zero, ErrClosed
		}
		wake := h.wake
		h.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-wake:
		}
	}
}

// Pending returns how many published values this subscription has not read yet,
// including any already overwritten.
func (s *Subscription[T]) Pending() uint64 {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.closed || s.next >= s.hub.next {
		return 0
	}
	return s.hub.next - s.next
}

// Close releases the subscription. Close is idempotent.
func (s *Subscription[T]) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	h.subs--
}
