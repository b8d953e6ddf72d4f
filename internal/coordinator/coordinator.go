// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/coordinator/coordinator.go
// Summary: Shared state between the compute and UI goroutines.
// Usage: New builds every shared structure once the host is initialised;
//        Run drives the UI side and releases everything after both
//        goroutines have joined.
// Notes: Lock order is workMu -> resizeMu, workMu -> primary, queue -> resizeMu,
//        timer -> queue. The presentation lock is never held with another.

package coordinator

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrender/fizmo-tcell/internal/events"
	"github.com/chrender/fizmo-tcell/internal/host"
	"github.com/chrender/fizmo-tcell/internal/raster"
)

// ErrClosed is returned to the compute goroutine once the coordinator has
// shut down.
var ErrClosed = errors.New("coordinator: closed")

// Phase is the resize handshake state.
type Phase int

const (
	Idle Phase = iota
	Pending
	Processing
	AwaitingPresent
)

var phaseNames = [...]string{"IDLE", "PENDING", "PROCESSING", "AWAITING_PRESENT"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// next lists the only transition allowed out of each phase.
var next = map[Phase]Phase{
	Idle:            Pending,
	Pending:         Processing,
	Processing:      AwaitingPresent,
	AwaitingPresent: Idle,
}

// EventRecorder receives every event handed to the compute goroutine.
type EventRecorder interface {
	Record(ev events.Event) error
}

// Options configures a Coordinator.
type Options struct {
	ResizeMode  ResizeMode
	MinWidth    int
	MinHeight   int
	Foreground  color.RGBA
	Background  color.RGBA
	LeftMargin  int
	RightMargin int
	// Title is shown by the host before the interpreter sets its own.
	Title         string
	QueueCapacity int
	Recorder      EventRecorder
	Panics        *PanicLogger
	// OnTransition observes every phase change. It runs with the work lock
	// held and must not call back into the coordinator.
	OnTransition func(from, to Phase)
}

// Default minimum drawable size.
const (
	DefaultMinWidth  = 200
	DefaultMinHeight = 100
)

// ResizeRequest is the single pending resize slot. A newer request
// overwrites an older one.
type ResizeRequest struct {
	Width   int
	Height  int
	Pending bool
	gen     uint64
}

// Coordinator owns the queue, both raster buffers, the pending work flags
// and the resize handshake.
type Coordinator struct {
	opts     Options
	host     host.Host
	strategy resizeStrategy
	panics   *PanicLogger

	queue        *events.Queue
	timer        *events.TimeoutTimer
	primary      *raster.Primary
	presentation *raster.Presentation

	workMu         sync.Mutex
	workCond       *sync.Cond
	phase          Phase
	flushRequested bool
	titleRequested bool
	workComplete   bool
	title, icon    string
	closed         bool
	fatal          error
	requestGen     uint64
	processingGen  uint64
	presentedGen   uint64

	resizeMu sync.Mutex
	resize   ResizeRequest

	// wake carries at most one pending "work requested" token to the UI loop.
	wake chan struct{}
}

var _ host.Handler = (*Coordinator)(nil)
var _ Screen = (*Coordinator)(nil)

// New allocates the shared state for h's current drawable size.
func New(opts Options, h host.Host) (*Coordinator, error) {
	if h == nil {
		return nil, errors.New("coordinator: host is required")
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = DefaultMinWidth
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = DefaultMinHeight
	}
	if opts.ResizeMode == "" {
		opts.ResizeMode = ResizeDeferred
	}
	strategy, err := newResizeStrategy(opts.ResizeMode)
	if err != nil {
		return nil, err
	}
	if opts.Panics == nil {
		opts.Panics = NewPanicLogger("")
	}

	hostW, hostH := h.Size()
	width, height := clampSize(hostW, hostH, opts.MinWidth, opts.MinHeight)
	primary, err := raster.NewPrimary(width, height, opts.Background)
	if err != nil {
		return nil, errors.Wrap(err, "coordinator: allocate primary buffer")
	}
	presentation, err := raster.NewPresentation(h.CreateTexture, width, height, h.Scale())
	if err != nil {
		return nil, errors.Wrap(err, "coordinator: allocate presentation buffer")
	}

	queue := events.NewQueue(opts.QueueCapacity)
	c := &Coordinator{
		opts:         opts,
		host:         h,
		strategy:     strategy,
		panics:       opts.Panics,
		queue:        queue,
		timer:        events.NewTimeoutTimer(queue),
		primary:      primary,
		presentation: presentation,
		workComplete: true,
		title:        opts.Title,
		wake:         make(chan struct{}, 1),
	}
	c.workCond = sync.NewCond(&c.workMu)
	log.Debugf("coordinator: %dx%d drawable, %s resize", width, height, opts.ResizeMode)
	return c, nil
}

func clampSize(width, height, minW, minH int) (int, int) {
	if width < minW {
		width = minW
	}
	if height < minH {
		height = minH
	}
	return width, height
}

// Phase reports the current handshake phase.
func (c *Coordinator) Phase() Phase {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	return c.phase
}

// Err returns the fatal error that stopped the coordinator, if any.
func (c *Coordinator) Err() error {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	return c.fatal
}

// Inject appends events to the queue as if the host had produced them.
func (c *Coordinator) Inject(evs ...events.Event) {
	for _, ev := range evs {
		c.queue.Push(ev)
	}
}

func (c *Coordinator) setPhaseLocked(to Phase) {
	from := c.phase
	if next[from] != to {
		panic(fmt.Sprintf("coordinator: invalid phase transition %s -> %s", from, to))
	}
	c.phase = to
	log.Debugf("coordinator: phase %s -> %s", from, to)
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(from, to)
	}
}

// fail records a fatal error and shuts the coordinator down.
func (c *Coordinator) fail(err error) error {
	c.workMu.Lock()
	if c.fatal == nil {
		c.fatal = err
	}
	c.closeLocked()
	c.workMu.Unlock()
	c.queue.Close()
	return err
}

func (c *Coordinator) close() {
	c.workMu.Lock()
	c.closeLocked()
	c.workMu.Unlock()
	c.queue.Close()
	c.timer.Disarm()
}

func (c *Coordinator) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.workCond.Broadcast()
	c.notifyLocked()
}

func (c *Coordinator) notifyLocked() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
