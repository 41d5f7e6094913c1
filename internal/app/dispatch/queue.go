package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/ordersys/tableside/internal/domain"
)

// Entry is a queued order snapshot plus queue metadata. The queue owns its
// entries until they are dequeued.
type Entry struct {
	Order      domain.Order
	EnqueuedAt time.Time
}

// Queue is the strict-FIFO holding area for orders awaiting a confirmed
// print. It is safe for concurrent Enqueue from any number of producers,
// one consumer driving the PeekHead/RemoveHead pair, and out-of-band
// RemoveByTimestamp calls racing the consumer.
//
// The dispatcher never skips the head: a stuck order blocks the queue until
// it prints or an operator removes it. That head-of-line blocking is a
// deliberate ordering/simplicity tradeoff.
type Queue struct {
	mu      sync.Mutex
	entries []Entry

	// wake carries at most one pending wakeup for WaitNonEmpty.
	wake chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue appends an order snapshot to the tail. It never blocks and never
// rejects; backpressure is the caller's concern.
func (q *Queue) Enqueue(order domain.Order) {
	q.mu.Lock()
	q.entries = append(q.entries, Entry{Order: order, EnqueuedAt: time.Now()})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// PeekHead returns the order at the head without removing it.
func (q *Queue) PeekHead() (domain.Order, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return domain.Order{}, false
	}
	return q.entries[0].Order, true
}

// RemoveHead drops the head entry, but only when it still carries the
// given intake timestamp. An out-of-band removal can consume the head
// while a print of it is in flight; the timestamp check keeps that race
// from removing the next, unprinted order. Returns false when the head
// is no longer the peeked order.
func (q *Queue) RemoveHead(timestamp int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 || q.entries[0].Order.Timestamp != timestamp {
		return false
	}
	q.entries = q.entries[1:]
	return true
}

// RemoveByTimestamp removes the first entry whose order carries the given
// intake timestamp, preserving the relative order of the remaining entries.
// Used by the operator dashboard; safe to call concurrently with the
// dispatcher. Returns false when no entry matches.
func (q *Queue) RemoveByTimestamp(timestamp int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.Order.Timestamp == timestamp {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns copies of the queued orders, optionally filtered to
// those containing at least one item of the given category. Internals are
// never exposed by reference.
func (q *Queue) Snapshot(category domain.Category) []domain.Order {
	q.mu.Lock()
	defer q.mu.Unlock()

	orders := make([]domain.Order, 0, len(q.entries))
	for _, e := range q.entries {
		if category != "" && !hasCategory(e.Order, category) {
			continue
		}
		orders = append(orders, e.Order)
	}
	return orders
}

func hasCategory(order domain.Order, category domain.Category) bool {
	for _, item := range order.Items {
		if item.Category == category {
			return true
		}
	}
	return false
}

// Depth reports the number of queued orders.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// WaitNonEmpty blocks until the queue holds at least one entry or the
// context is done. It wakes on enqueue rather than polling, so an idle
// dispatcher consumes no CPU.
func (q *Queue) WaitNonEmpty(ctx context.Context) error {
	for {
		q.mu.Lock()
		n := len(q.entries)
		q.mu.Unlock()

		if n > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}
