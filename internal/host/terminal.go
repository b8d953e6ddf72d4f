// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/host/terminal.go
// Summary: tcell-backed Host rendering pixels as half-block cells.
// Usage: Each terminal cell shows two vertically stacked pixels: the glyph
//        '▀' painted with the upper pixel as foreground and the lower one as
//        background. A W x H terminal is a W x 2H pixel window.

package host

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/chrender/fizmo-tcell/internal/raster"
)

// HalfBlock is the glyph used for every painted cell.
const HalfBlock = '▀'

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by NewTerminal. Passing
// nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Terminal is a Host drawing into a tcell screen.
type Terminal struct {
	screen tcell.Screen
	once   sync.Once
}

var _ Host = (*Terminal)(nil)

// NewTerminal creates and initialises a screen from the configured factory.
func NewTerminal() (*Terminal, error) {
	screen, err := screenFactory()
	if err != nil {
		return nil, errors.Wrap(err, "host: create screen")
	}
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "host: init screen")
	}
	screen.HideCursor()
	screen.EnableFocus()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

// Screen exposes the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

func (t *Terminal) Size() (int, int) {
	cols, rows := t.screen.Size()
	return cols, rows * 2
}

// Scale is always 1: a terminal has no high-DPI backing store.
func (t *Terminal) Scale() float64 { return 1 }

func (t *Terminal) CreateTexture(width, height int) (raster.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("host: invalid texture size %dx%d", width, height)
	}
	return &cellTexture{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

func (t *Terminal) Present(tex raster.Texture) error {
	ct, ok := tex.(*cellTexture)
	if !ok {
		return errors.Errorf("host: foreign texture %T", tex)
	}
	t.screen.Clear()
	ct.paint(t.screen)
	t.screen.Show()
	return nil
}

func (t *Terminal) Redraw(tex raster.Texture) error {
	ct, ok := tex.(*cellTexture)
	if !ok {
		return errors.Errorf("host: foreign texture %T", tex)
	}
	t.screen.Clear()
	ct.paint(t.screen)
	t.screen.Sync()
	return nil
}

// SetTitle sets the terminal title. Terminals have no icon title.
func (t *Terminal) SetTitle(title, icon string) {
	if icon != "" && icon != title {
		log.Debugf("host: icon title %q ignored", icon)
	}
	t.screen.SetTitle(title)
}

func (t *Terminal) PumpEvents(ctx context.Context, out chan<- tcell.Event) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (t *Terminal) Fini() {
	t.once.Do(t.screen.Fini)
}

type cellTexture struct {
	mu  sync.Mutex
	img *image.RGBA
}

func (c *cellTexture) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *cellTexture) Update(img *image.RGBA) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img.Bounds().Size() != c.img.Bounds().Size() {
		return errors.Errorf("host: texture is %v, upload is %v", c.img.Bounds().Size(), img.Bounds().Size())
	}
	copy(c.img.Pix, img.Pix)
	return nil
}

func (c *cellTexture) Destroy() {}

func (c *cellTexture) paint(screen tcell.Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cols, rows := screen.Size()
	b := c.img.Bounds()
	for row := 0; row < rows && row*2 < b.Dy(); row++ {
		for col := 0; col < cols && col < b.Dx(); col++ {
			top := c.img.RGBAAt(col, row*2)
			bottom := top
			if row*2+1 < b.Dy() {
				bottom = c.img.RGBAAt(col, row*2+1)
			}
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			screen.SetContent(col, row, HalfBlock, nil, style)
		}
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
