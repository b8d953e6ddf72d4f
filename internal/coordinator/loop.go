// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/loop.go
// Summary: UI goroutine main loop.
// Usage: Call Run from the goroutine locked to the main OS thread. It starts
//        the compute goroutine and the host event reader, services work and
//        host events until the interpreter returns or ctx is cancelled.

package coordinator

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chrender/fizmo-tcell/internal/host"
)

// Run drives the UI side until compute returns, ctx is cancelled or a fatal
// error occurs. compute runs on its own goroutine and receives the
// coordinator as its Screen.
func (c *Coordinator) Run(ctx context.Context, compute func(Screen) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.title != "" {
		c.host.SetTitle(c.title, c.title)
	}
	if err := c.presentation.Flush(c.primary, c.host.Present); err != nil {
		c.close()
		c.presentation.Destroy()
		return errors.Wrap(err, "coordinator: initial present")
	}

	g, gctx := errgroup.WithContext(ctx)
	raw := make(chan tcell.Event, 64)
	computeDone := make(chan struct{})
	var computeErr error

	g.Go(func() error {
		defer c.panics.Recover("host events")
		return c.host.PumpEvents(gctx, raw)
	})
	g.Go(func() error {
		defer close(computeDone)
		defer c.close()
		defer c.panics.Recover("interpreter")
		computeErr = compute(c)
		return nil
	})

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			log.Info("coordinator: cancelled")
			break loop
		case <-computeDone:
			break loop
		case <-c.wake:
			if err := c.serviceWork(); err != nil {
				runErr = err
				break loop
			}
		case ev := <-raw:
			if err := host.Dispatch(ev, c); err != nil {
				runErr = err
				break loop
			}
		}
		if err := c.Err(); err != nil {
			runErr = err
			break loop
		}
	}

	c.close()
	cancel()
	c.host.Interrupt()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "coordinator: host events")
	}
	c.presentation.Destroy()

	if runErr == nil {
		runErr = c.Err()
	}
	if runErr == nil && computeErr != nil && !errors.Is(computeErr, ErrClosed) {
		runErr = computeErr
	}
	return runErr
}
