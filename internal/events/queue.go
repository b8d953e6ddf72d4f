// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/events/queue.go
// Summary: Growable FIFO ring buffer of input events.
// Usage: The UI goroutine pushes, the compute goroutine pulls or waits.

package events

import "sync"

const defaultQueueCapacity = 16

// Queue is a mutex guarded ring buffer. It doubles when full and never
// shrinks or drops entries.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []Event
	head   int
	n      int
	closed bool
}

// NewQueue creates a queue with room for capacity events before it grows.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	q := &Queue{buf: make([]Event, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends ev to the tail and wakes a waiting consumer.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = ev
	q.n++
	q.mu.Unlock()
	q.cond.Broadcast()
}

// grow doubles the ring, unrolling it so the head lands at index 0.
func (q *Queue) grow() {
	next := make([]Event, len(q.buf)*2)
	copied := copy(next, q.buf[q.head:])
	copy(next[copied:], q.buf[:q.head])
	q.buf = next
	q.head = 0
}

// Pull pops the head of the queue. ok is false when the queue is empty.
func (q *Queue) Pull() (ev Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.n == 0 {
		return Event{}, false
	}
	ev = q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return ev, true
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Cap reports the current ring size.
func (q *Queue) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Wait blocks until the queue is non-empty, ready reports true, or the queue
// is closed. ready is evaluated with the queue lock held, so any state it
// inspects must be published before calling Wake. Wait returns false once the
// queue is closed.
func (q *Queue) Wait(ready func() bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.n == 0 && !q.closed && (ready == nil || !ready()) {
		q.cond.Wait()
	}
	return !q.closed
}

// Wake re-evaluates the condition of every waiter without pushing an event.
func (q *Queue) Wake() {
	q.mu.Lock()
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Close releases all waiters. Queued events stay pullable.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
