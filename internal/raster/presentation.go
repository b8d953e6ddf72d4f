// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/raster/presentation.go
// Summary: UI-side backup surface and host texture.
// Usage: Owned by the UI goroutine; every mutation happens under the
//        presentation lock, held for a whole flush or reallocation.

package raster

import (
	"image"
	"math"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Texture is a host-side render target the backup surface is uploaded to.
type Texture interface {
	Size() (int, int)
	Update(img *image.RGBA) error
	Destroy()
}

// TextureAllocator creates host textures of the given scaled size.
type TextureAllocator func(width, height int) (Texture, error)

// Presentation pairs the scaled backup copy of the primary surface with the
// texture it is uploaded to.
type Presentation struct {
	mu      sync.Mutex
	alloc   TextureAllocator
	scale   float64
	backup  *image.RGBA
	texture Texture
	flushes uint64
}

// NewPresentation allocates a presentation for an unscaled width x height
// surface.
func NewPresentation(alloc TextureAllocator, width, height int, scale float64) (*Presentation, error) {
	if alloc == nil {
		return nil, errors.New("raster: texture allocator is required")
	}
	if scale <= 0 {
		scale = 1
	}
	p := &Presentation{alloc: alloc, scale: scale}
	if err := p.reallocateLocked(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

// ScaledSize converts unscaled dimensions to texture dimensions.
func (p *Presentation) ScaledSize(width, height int) (int, int) {
	return scaleDim(width, p.scale), scaleDim(height, p.scale)
}

func scaleDim(v int, scale float64) int {
	s := int(math.Round(float64(v) * scale))
	if s < 1 {
		s = 1
	}
	return s
}

// Reallocate resizes the backup surface and texture for a new unscaled size.
func (p *Presentation) Reallocate(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reallocateLocked(width, height)
}

func (p *Presentation) reallocateLocked(width, height int) error {
	sw, sh := p.ScaledSize(width, height)
	backup, err := allocate(sw, sh)
	if err != nil {
		return errors.Wrap(err, "raster: allocate presentation surface")
	}
	texture, err := p.alloc(sw, sh)
	if err != nil {
		return errors.Wrap(err, "raster: create texture")
	}
	if p.texture != nil {
		p.texture.Destroy()
	}
	p.backup = backup
	p.texture = texture
	return nil
}

// Size returns the scaled backup dimensions.
func (p *Presentation) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.backup.Bounds()
	return b.Dx(), b.Dy()
}

// Flush copies src into the backup surface, uploads it to the texture and
// hands the texture to present, all under the presentation lock.
func (p *Presentation) Flush(src *Primary, present func(Texture) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	src.View(func(img *image.RGBA) {
		copyScaled(p.backup, img)
	})
	if err := p.texture.Update(p.backup); err != nil {
		return errors.Wrap(err, "raster: upload texture")
	}
	p.flushes++
	if present == nil {
		return nil
	}
	return present(p.texture)
}

// Represent hands the current texture to present again without copying.
func (p *Presentation) Represent(present func(Texture) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return present(p.texture)
}

// Flushes counts completed flushes.
func (p *Presentation) Flushes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushes
}

// Snapshot returns a copy of the backup surface.
func (p *Presentation) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := image.NewRGBA(p.backup.Bounds())
	copy(out.Pix, p.backup.Pix)
	return out
}

// Destroy releases the texture.
func (p *Presentation) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
}

func copyScaled(dst, src *image.RGBA) {
	db, sb := dst.Bounds(), src.Bounds()
	if db.Size() == sb.Size() {
		draw.Draw(dst, db, src, sb.Min, draw.Src)
		return
	}
	sx := float64(db.Dx()) / float64(sb.Dx())
	sy := float64(db.Dy()) / float64(sb.Dy())
	if sx == math.Trunc(sx) && sy == math.Trunc(sy) {
		draw.NearestNeighbor.Scale(dst, db, src, sb, draw.Src, nil)
		return
	}
	draw.ApproxBiLinear.Scale(dst, db, src, sb, draw.Src, nil)
}
