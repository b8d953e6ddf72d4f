// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/resize.go
// Summary: Resize handshake between the host and the compute goroutine.
// Usage: The UI goroutine records requests through HandleResize; the compute
//        goroutine consumes them as WINCH ahead of ordinary events.

package coordinator

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrender/fizmo-tcell/internal/events"
)

// ResizeMode selects how the UI goroutine treats a host resize.
type ResizeMode string

const (
	// ResizeDeferred records the request and returns immediately.
	ResizeDeferred ResizeMode = "deferred"
	// ResizeImmediate blocks the UI goroutine until the resized frame has
	// been presented.
	ResizeImmediate ResizeMode = "immediate"
)

// ParseResizeMode accepts "deferred" or "immediate" in any case.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch mode := ResizeMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ResizeDeferred, ResizeImmediate:
		return mode, nil
	}
	return "", errors.Errorf("coordinator: unknown resize mode %q", s)
}

type resizeStrategy interface {
	handle(c *Coordinator, width, height int) error
}

func newResizeStrategy(mode ResizeMode) (resizeStrategy, error) {
	switch mode {
	case ResizeDeferred:
		return deferredStrategy{}, nil
	case ResizeImmediate:
		return immediateStrategy{}, nil
	}
	return nil, errors.Errorf("coordinator: unknown resize mode %q", mode)
}

type deferredStrategy struct{}

func (deferredStrategy) handle(c *Coordinator, width, height int) error {
	c.recordResize(width, height)
	return nil
}

type immediateStrategy struct{}

func (immediateStrategy) handle(c *Coordinator, width, height int) error {
	gen, ok := c.recordResize(width, height)
	if !ok {
		return nil
	}
	return c.awaitPresented(gen)
}

// HandleResize is called on the UI goroutine with the new unscaled size.
func (c *Coordinator) HandleResize(width, height int) error {
	return c.strategy.handle(c, width, height)
}

// recordResize stores a clamped request in the slot, replacing any request
// the compute goroutine has not taken yet. A notification for the size
// already in use while nothing is pending is dropped.
func (c *Coordinator) recordResize(width, height int) (uint64, bool) {
	width, height = clampSize(width, height, c.opts.MinWidth, c.opts.MinHeight)

	c.workMu.Lock()
	if c.closed {
		c.workMu.Unlock()
		return 0, false
	}
	if c.phase == Idle {
		if w, h := c.primary.Size(); w == width && h == height {
			c.workMu.Unlock()
			return 0, false
		}
	}
	c.requestGen++
	gen := c.requestGen
	c.resizeMu.Lock()
	superseded := c.resize.Pending
	c.resize = ResizeRequest{Width: width, Height: height, Pending: true, gen: gen}
	c.resizeMu.Unlock()
	if c.phase == Idle {
		c.setPhaseLocked(Pending)
	}
	c.workMu.Unlock()

	if superseded {
		log.Debugf("coordinator: resize to %dx%d supersedes pending request", width, height)
	}
	c.queue.Wake()
	return gen, true
}

// takeResize hands the pending request to the compute goroutine, which owns
// the primary buffer for the rest of the cycle.
func (c *Coordinator) takeResize() (events.Event, bool) {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	if c.closed || c.phase != Pending {
		return events.Event{}, false
	}
	c.resizeMu.Lock()
	req := c.resize
	c.resize = ResizeRequest{}
	c.resizeMu.Unlock()
	if !req.Pending {
		return events.Event{}, false
	}

	c.setPhaseLocked(Processing)
	c.processingGen = req.gen
	if err := c.primary.Reallocate(req.Width, req.Height); err != nil {
		err = errors.Wrapf(err, "coordinator: reallocate primary buffer to %dx%d", req.Width, req.Height)
		if c.fatal == nil {
			c.fatal = err
		}
		c.closeLocked()
		return events.Event{Kind: events.Quit}, true
	}
	return events.NewWinch(req.Width, req.Height), true
}

// resizePending reports whether the slot holds a request. Called with the
// queue lock held.
func (c *Coordinator) resizePending() bool {
	c.resizeMu.Lock()
	defer c.resizeMu.Unlock()
	return c.resize.Pending
}

// awaitPresented blocks the UI goroutine until the frame for request gen, or
// a later one, has been presented. Work requested by the compute goroutine
// in the meantime is serviced here, since the UI loop is not running.
func (c *Coordinator) awaitPresented(gen uint64) error {
	c.workMu.Lock()
	for c.presentedGen < gen && !c.closed {
		if c.flushRequested || c.titleRequested {
			c.workMu.Unlock()
			if err := c.serviceWork(); err != nil {
				return err
			}
			c.workMu.Lock()
			continue
		}
		c.workCond.Wait()
	}
	c.workMu.Unlock()
	return nil
}
