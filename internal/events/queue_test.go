// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePreservesPushOrder(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		count    int
	}{
		{name: "fits without growing", capacity: 8, count: 5},
		{name: "grows once", capacity: 4, count: 7},
		{name: "grows many times", capacity: 1, count: 1000},
		{name: "default capacity", capacity: 0, count: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(tt.capacity)
			for i := 0; i < tt.count; i++ {
				q.Push(NewInput(rune('a' + i%26)))
			}
			require.Equal(t, tt.count, q.Len())
			for i := 0; i < tt.count; i++ {
				ev, ok := q.Pull()
				require.True(t, ok, "pull %d", i)
				assert.Equal(t, rune('a'+i%26), ev.Rune, "pull %d", i)
			}
			_, ok := q.Pull()
			assert.False(t, ok)
		})
	}
}

func TestQueueGrowsAcrossWrappedHead(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 3; i++ {
		q.Push(NewInput(rune('0' + i)))
	}
	// Move the head so the ring wraps before the next grow.
	for i := 0; i < 2; i++ {
		_, ok := q.Pull()
		require.True(t, ok)
	}
	for i := 3; i < 9; i++ {
		q.Push(NewInput(rune('0' + i)))
	}
	assert.Equal(t, 8, q.Cap())

	var got []rune
	for {
		ev, ok := q.Pull()
		if !ok {
			break
		}
		got = append(got, ev.Rune)
	}
	assert.Equal(t, []rune("2345678"), got)
}

func TestQueueScenarioInputThenCursor(t *testing.T) {
	q := NewQueue(0)
	q.Push(NewInput('a'))
	q.Push(Event{Kind: CursorLeft})

	ev, ok := q.Pull()
	require.True(t, ok)
	assert.Equal(t, Input, ev.Kind)
	assert.Equal(t, 'a', ev.Rune)

	ev, ok = q.Pull()
	require.True(t, ok)
	assert.Equal(t, CursorLeft, ev.Kind)

	_, ok = q.Pull()
	assert.False(t, ok)
}

func TestQueueWaitWakesOnPush(t *testing.T) {
	q := NewQueue(0)
	done := make(chan bool, 1)
	go func() {
		done <- q.Wait(nil)
	}()

	select {
	case <-done:
		t.Fatal("wait returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.Push(Event{Kind: PageDown})
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after push")
	}
}

func TestQueueWaitWakesOnReadyPredicate(t *testing.T) {
	q := NewQueue(0)
	var mu sync.Mutex
	flag := false
	ready := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return flag
	}

	done := make(chan bool, 1)
	go func() {
		done <- q.Wait(ready)
	}()

	mu.Lock()
	flag = true
	mu.Unlock()
	q.Wake()

	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("wait did not observe the predicate")
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueCloseReleasesWaiters(t *testing.T) {
	q := NewQueue(0)
	done := make(chan bool, 1)
	go func() {
		done <- q.Wait(nil)
	}()
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("close did not release waiter")
	}
	assert.True(t, q.Closed())
}

func TestQueueConcurrentProducerKeepsOrder(t *testing.T) {
	const n = 5000
	q := NewQueue(2)
	go func() {
		for i := 0; i < n; i++ {
			q.Push(Event{Kind: Input, Rune: rune(i)})
		}
	}()

	for i := 0; i < n; i++ {
		for {
			ev, ok := q.Pull()
			if ok {
				require.Equal(t, rune(i), ev.Rune)
				break
			}
			q.Wait(nil)
		}
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "CURSOR_LEFT", CursorLeft.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "WINCH(640x480)", NewWinch(640, 480).String())
	assert.Equal(t, `INPUT('x')`, NewInput('x').String())

	k, ok := ParseKind("PAGE_UP")
	require.True(t, ok)
	assert.Equal(t, PageUp, k)
	_, ok = ParseKind("bogus")
	assert.False(t, ok)
}
