// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/rendezvous.go
// Summary: Single-flight work requests from the compute goroutine.
// Usage: RequestFlush and RequestTitleUpdate block the compute goroutine
//        until the UI goroutine has done the work in serviceWork.

package coordinator

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// RequestFlush asks the UI goroutine to copy the primary buffer to the
// screen and waits until it has been presented.
func (c *Coordinator) RequestFlush() error {
	return c.request(func() {
		c.flushRequested = true
		if c.phase == Processing {
			c.setPhaseLocked(AwaitingPresent)
		}
	})
}

// RequestTitleUpdate asks the UI goroutine to set the window title and waits
// until it has been applied.
func (c *Coordinator) RequestTitleUpdate(title, icon string) error {
	return c.request(func() {
		c.titleRequested = true
		c.title, c.icon = title, icon
	})
}

func (c *Coordinator) request(set func()) error {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	if c.closed {
		return ErrClosed
	}
	set()
	c.workComplete = false
	c.workCond.Broadcast()
	c.notifyLocked()
	for !c.workComplete && !c.closed {
		c.workCond.Wait()
	}
	if !c.workComplete {
		return ErrClosed
	}
	return nil
}

// flushIfProcessing completes a resize cycle the compute goroutine left
// without flushing, so a UI goroutine waiting on it is released.
func (c *Coordinator) flushIfProcessing() error {
	c.workMu.Lock()
	processing := c.phase == Processing
	c.workMu.Unlock()
	if !processing {
		return nil
	}
	log.Debug("coordinator: flushing resized frame on behalf of the interpreter")
	return c.RequestFlush()
}

// serviceWork performs the pending flush and title update on the UI
// goroutine. The compute goroutine is blocked in request for the whole call,
// so the buffers are read without the work lock held.
func (c *Coordinator) serviceWork() error {
	c.workMu.Lock()
	if c.closed || (!c.flushRequested && !c.titleRequested) {
		c.workMu.Unlock()
		return nil
	}
	flush, title := c.flushRequested, c.titleRequested
	reallocate := c.phase == AwaitingPresent
	name, icon := c.title, c.icon
	c.workMu.Unlock()

	if title {
		c.host.SetTitle(name, icon)
	}
	if reallocate {
		w, h := c.primary.Size()
		if err := c.presentation.Reallocate(w, h); err != nil {
			return c.fail(errors.Wrapf(err, "coordinator: reallocate presentation to %dx%d", w, h))
		}
	}
	if flush {
		if err := c.presentation.Flush(c.primary, c.host.Present); err != nil {
			return c.fail(errors.Wrap(err, "coordinator: present"))
		}
	}

	c.workMu.Lock()
	c.flushRequested = false
	c.titleRequested = false
	c.workComplete = true
	if reallocate {
		c.presentedGen = c.processingGen
		c.setPhaseLocked(Idle)
		if c.resizePending() {
			c.setPhaseLocked(Pending)
		}
	}
	c.workCond.Broadcast()
	c.workMu.Unlock()
	return nil
}
