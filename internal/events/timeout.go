// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/events/timeout.go
// Summary: Cancellable one-shot timer that injects a Timeout event.

package events

import (
	"sync"
	"time"
)

// Pusher accepts events. *Queue implements it.
type Pusher interface {
	Push(Event)
}

// TimeoutTimer pushes a single Timeout event into a Pusher when it expires.
// Its mutex is private to the timer and serialises the firing callback
// against Disarm.
type TimeoutTimer struct {
	mu    sync.Mutex
	sink  Pusher
	timer *time.Timer
	armed bool
	gen   uint64
	fired uint64
}

// NewTimeoutTimer returns a disarmed timer feeding sink.
func NewTimeoutTimer(sink Pusher) *TimeoutTimer {
	return &TimeoutTimer{sink: sink}
}

// Arm schedules a Timeout after d, replacing any pending one. It returns the
// generation stamped on the event this arm may produce.
func (t *TimeoutTimer) Arm(d time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.armed && t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.armed = true
	t.timer = time.AfterFunc(d, func() { t.expire(gen) })
	return gen
}

func (t *TimeoutTimer) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed || gen != t.gen {
		return
	}
	t.armed = false
	t.fired++
	t.sink.Push(Event{Kind: Timeout, gen: gen})
}

// Disarm cancels a pending Timeout. It is idempotent and reports whether a
// pending timer was cancelled.
func (t *TimeoutTimer) Disarm() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed {
		return false
	}
	t.armed = false
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// Armed reports whether a Timeout is still pending.
func (t *TimeoutTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// Current returns the generation of the most recent Arm call.
func (t *TimeoutTimer) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Fired reports how many Timeout events have been pushed.
func (t *TimeoutTimer) Fired() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
