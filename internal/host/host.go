// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/host/host.go
// Summary: Host windowing boundary used by the coordinator.
// Usage: The coordinator owns a Host and implements Handler; Dispatch calls
//        the Handler on the UI goroutine for every translated raw event.

package host

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/chrender/fizmo-tcell/internal/events"
	"github.com/chrender/fizmo-tcell/internal/raster"
)

// Handler receives host notifications on the UI goroutine.
type Handler interface {
	// HandleInput receives an already translated input event.
	HandleInput(ev events.Event)
	// HandleResize receives the new unscaled drawable size in pixels.
	HandleResize(width, height int) error
	// HandleExpose asks for the current frame to be shown again.
	HandleExpose() error
	// HandleQuit reports a close request from the user or the host.
	HandleQuit()
}

// Host is the window, renderer and event pump. Every method except
// PumpEvents and Interrupt must be called from the UI goroutine.
type Host interface {
	// Size returns the unscaled drawable size in pixels.
	Size() (int, int)
	// Scale is the ratio between texture pixels and unscaled pixels.
	Scale() float64
	CreateTexture(width, height int) (raster.Texture, error)
	// Present clears the render target, composites tex and shows it.
	Present(tex raster.Texture) error
	// Redraw is Present after the host lost the window contents.
	Redraw(tex raster.Texture) error
	SetTitle(title, icon string)
	// PumpEvents forwards raw events to out until ctx is done or the host
	// is finalised. It runs on its own goroutine.
	PumpEvents(ctx context.Context, out chan<- tcell.Event) error
	// Interrupt wakes PumpEvents so it can observe cancellation.
	Interrupt()
	Fini()
}
