// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/raster/primary.go
// Summary: Off-screen raster surface drawn into by the compute goroutine.
// Usage: Pixel primitives and reallocation are serialised by one mutex; the
//        UI goroutine only reads it through View while a flush is in progress.

package raster

import (
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// MaxPixels bounds a single surface allocation.
const MaxPixels = 1 << 26

// ErrTooLarge is returned when a surface would exceed MaxPixels.
var ErrTooLarge = errors.New("raster: surface too large")

// Primary is the compute-side surface.
type Primary struct {
	mu         sync.Mutex
	img        *image.RGBA
	background color.RGBA
	generation uint64
}

// NewPrimary allocates a width x height surface cleared to background.
func NewPrimary(width, height int, background color.RGBA) (*Primary, error) {
	img, err := allocate(width, height)
	if err != nil {
		return nil, err
	}
	p := &Primary{img: img, background: background}
	fill(img, img.Bounds(), background)
	return p, nil
}

func allocate(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("raster: invalid surface size %dx%d", width, height)
	}
	if width*height > MaxPixels {
		return nil, errors.Wrapf(ErrTooLarge, "%dx%d", width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

// Reallocate replaces the surface with a cleared one of the new size.
func (p *Primary) Reallocate(width, height int) error {
	img, err := allocate(width, height)
	if err != nil {
		return err
	}
	fill(img, img.Bounds(), p.background)

	p.mu.Lock()
	p.img = img
	p.generation++
	p.mu.Unlock()
	return nil
}

// Size returns the surface dimensions.
func (p *Primary) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.img.Bounds()
	return b.Dx(), b.Dy()
}

// Generation counts reallocations since creation.
func (p *Primary) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Background returns the clear colour.
func (p *Primary) Background() color.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.background
}

// SetBackground changes the colour used by Clear and Reallocate.
func (p *Primary) SetBackground(c color.RGBA) {
	p.mu.Lock()
	p.background = c
	p.mu.Unlock()
}

// DrawPixel sets one pixel. Out of bounds coordinates are ignored.
func (p *Primary) DrawPixel(x, y int, c color.RGBA) {
	p.mu.Lock()
	p.img.SetRGBA(x, y, c)
	p.mu.Unlock()
}

// PixelAt returns the colour at x, y.
func (p *Primary) PixelAt(x, y int) color.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.img.RGBAAt(x, y)
}

// FillArea paints a width x height rectangle at x, y, clipped to the surface.
func (p *Primary) FillArea(x, y, width, height int, c color.RGBA) {
	p.mu.Lock()
	fill(p.img, image.Rect(x, y, x+width, y+height), c)
	p.mu.Unlock()
}

// CopyArea moves a width x height block from srcX, srcY to dstX, dstY.
// Overlapping regions are copied as if through a temporary buffer.
func (p *Primary) CopyArea(dstX, dstY, srcX, srcY, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	dst := image.Rect(dstX, dstY, dstX+width, dstY+height)
	draw.Draw(p.img, dst, p.img, image.Pt(srcX, srcY), draw.Src)
}

// Clear fills the whole surface with the background colour.
func (p *Primary) Clear() {
	p.mu.Lock()
	fill(p.img, p.img.Bounds(), p.background)
	p.mu.Unlock()
}

// DrawImage composites src over the surface at r.
func (p *Primary) DrawImage(r image.Rectangle, src image.Image, sp image.Point) {
	p.mu.Lock()
	draw.Draw(p.img, r, src, sp, draw.Over)
	p.mu.Unlock()
}

// View runs fn with the current surface while holding the surface lock. fn
// must not retain img.
func (p *Primary) View(fn func(img *image.RGBA)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.img)
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}
