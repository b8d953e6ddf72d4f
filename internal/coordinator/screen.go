// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/screen.go
// Summary: Compute goroutine API and host input callbacks.

package coordinator

import (
	"image"
	"image/color"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chrender/fizmo-tcell/internal/events"
)

// Screen is what the interpreter sees. Every method is called from the
// compute goroutine.
type Screen interface {
	// GetNextEvent returns the next event, a pending WINCH first. A positive
	// timeout produces a TIMEOUT event once it elapses. With pollOnly set
	// it returns NOTHING instead of waiting.
	GetNextEvent(timeout time.Duration, pollOnly bool) events.Event
	RequestFlush() error
	RequestTitleUpdate(title, icon string) error

	DrawPixel(x, y int, c color.RGBA)
	FillArea(x, y, width, height int, c color.RGBA)
	CopyArea(dstX, dstY, srcX, srcY, width, height int)
	DrawImage(r image.Rectangle, src image.Image, sp image.Point)
	Clear()

	Size() (int, int)
	Foreground() color.RGBA
	Background() color.RGBA
	Margins() (left, right int)
	ConsoleOutput(msg string)
}

func (c *Coordinator) GetNextEvent(timeout time.Duration, pollOnly bool) events.Event {
	if err := c.flushIfProcessing(); err != nil {
		return events.Event{Kind: events.Quit}
	}

	var gen uint64
	if timeout > 0 {
		gen = c.timer.Arm(timeout)
		defer c.timer.Disarm()
	}
	for {
		if c.isClosed() {
			return events.Event{Kind: events.Quit}
		}
		if ev, ok := c.takeResize(); ok {
			c.record(ev)
			return ev
		}
		if ev, ok := c.queue.Pull(); ok {
			if ev.Kind == events.Timeout && (gen == 0 || ev.Generation() != gen) {
				continue
			}
			c.record(ev)
			return ev
		}
		if pollOnly {
			return events.Event{Kind: events.Nothing}
		}
		c.queue.Wait(c.resizePending)
	}
}

func (c *Coordinator) isClosed() bool {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	return c.closed
}

func (c *Coordinator) record(ev events.Event) {
	if c.opts.Recorder == nil {
		return
	}
	if err := c.opts.Recorder.Record(ev); err != nil {
		log.Warnf("coordinator: record %s: %v", ev, err)
	}
}

func (c *Coordinator) DrawPixel(x, y int, col color.RGBA) { c.primary.DrawPixel(x, y, col) }

func (c *Coordinator) FillArea(x, y, width, height int, col color.RGBA) {
	c.primary.FillArea(x, y, width, height, col)
}

func (c *Coordinator) CopyArea(dstX, dstY, srcX, srcY, width, height int) {
	c.primary.CopyArea(dstX, dstY, srcX, srcY, width, height)
}

func (c *Coordinator) DrawImage(r image.Rectangle, src image.Image, sp image.Point) {
	c.primary.DrawImage(r, src, sp)
}

func (c *Coordinator) Clear() { c.primary.Clear() }

// Size is the primary buffer size. It only changes when the interpreter
// receives WINCH.
func (c *Coordinator) Size() (int, int) { return c.primary.Size() }

func (c *Coordinator) Foreground() color.RGBA { return c.opts.Foreground }

func (c *Coordinator) Background() color.RGBA { return c.primary.Background() }

func (c *Coordinator) Margins() (int, int) { return c.opts.LeftMargin, c.opts.RightMargin }

// ConsoleOutput logs interpreter diagnostics; the terminal belongs to the
// screen.
func (c *Coordinator) ConsoleOutput(msg string) {
	log.WithField("source", "interpreter").Info(msg)
}

// HandleInput queues a translated host event.
func (c *Coordinator) HandleInput(ev events.Event) {
	c.queue.Push(ev)
}

// HandleExpose shows the last presented frame again. It never touches the
// resize slot.
func (c *Coordinator) HandleExpose() error {
	return c.presentation.Represent(c.host.Redraw)
}

// HandleQuit forwards a close request to the interpreter.
func (c *Coordinator) HandleQuit() {
	log.Info("coordinator: quit requested")
	c.queue.Push(events.Event{Kind: events.Quit})
}
