// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package coordinator

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/chrender/fizmo-tcell/internal/events"
	"github.com/chrender/fizmo-tcell/internal/raster"
)

type fakeTexture struct {
	mu  sync.Mutex
	img *image.RGBA
}

func (f *fakeTexture) Size() (int, int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

func (f *fakeTexture) Update(img *image.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.img.Pix, img.Pix)
	return nil
}

func (f *fakeTexture) Destroy() {}

type fakeHost struct {
	mu           sync.Mutex
	w, h         int
	raw          chan tcell.Event
	presents     int
	redraws      int
	titles       []string
	frame        *image.RGBA
	failTextures bool
	presentDelay time.Duration
}

func newFakeHost(w, h int) *fakeHost {
	return &fakeHost{w: w, h: h, raw: make(chan tcell.Event)}
}

func (f *fakeHost) Size() (int, int) { return f.w, f.h }

func (f *fakeHost) Scale() float64 { return 1 }

func (f *fakeHost) CreateTexture(w, h int) (raster.Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTextures {
		return nil, errors.New("out of texture memory")
	}
	return &fakeTexture{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (f *fakeHost) Present(tex raster.Texture) error {
	if f.presentDelay > 0 {
		time.Sleep(f.presentDelay)
	}
	ft := tex.(*fakeTexture)
	ft.mu.Lock()
	snap := image.NewRGBA(ft.img.Bounds())
	copy(snap.Pix, ft.img.Pix)
	ft.mu.Unlock()

	f.mu.Lock()
	f.presents++
	f.frame = snap
	f.mu.Unlock()
	return nil
}

func (f *fakeHost) Redraw(raster.Texture) error {
	f.mu.Lock()
	f.redraws++
	f.mu.Unlock()
	return nil
}

func (f *fakeHost) SetTitle(title, _ string) {
	f.mu.Lock()
	f.titles = append(f.titles, title)
	f.mu.Unlock()
}

func (f *fakeHost) PumpEvents(ctx context.Context, out chan<- tcell.Event) error {
	for {
		select {
		case ev := <-f.raw:
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (f *fakeHost) Interrupt() {}

func (f *fakeHost) Fini() {}

func (f *fakeHost) setFailTextures(v bool) {
	f.mu.Lock()
	f.failTextures = v
	f.mu.Unlock()
}

func (f *fakeHost) stats() (presents, redraws int, titles []string, frame *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents, f.redraws, append([]string(nil), f.titles...), f.frame
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *fakeRecorder) Record(ev events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func newTestCoordinator(t *testing.T, opts Options, w, h int) (*Coordinator, *fakeHost) {
	t.Helper()
	fh := newFakeHost(w, h)
	c, err := New(opts, fh)
	require.NoError(t, err)
	return c, fh
}

// serveUI stands in for the UI loop when a test drives the coordinator
// without Run.
func serveUI(c *Coordinator) (stop func()) {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-c.wake:
				_ = c.serviceWork()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func runAsync(ctx context.Context, c *Coordinator, compute func(Screen) error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, compute) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

// redrawOnEvents repaints and flushes after every WINCH or INPUT and returns
// on QUIT.
func redrawOnEvents(s Screen) error {
	for {
		ev := s.GetNextEvent(0, false)
		switch ev.Kind {
		case events.Quit:
			return nil
		case events.Winch, events.Input:
			w, h := s.Size()
			s.FillArea(0, 0, w, h, s.Foreground())
			if err := s.RequestFlush(); err != nil {
				return err
			}
		}
	}
}
