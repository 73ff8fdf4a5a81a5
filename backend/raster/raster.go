// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster draws the rain onto a gg.Context.
//
// The same target serves the offscreen PNG renderer and the window host,
// where the context belongs to a ggcanvas.Canvas uploaded to the GPU each
// frame.
package raster

import (
	"errors"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/matrix"
)

var (
	// ErrNoContext is returned when drawing without a context.
	ErrNoContext = errors.New("raster: no context")

	// ErrNoFace is returned when drawing without a font face.
	ErrNoFace = errors.New("raster: no font face")
)

// Target implements matrix.Target over a gg.Context.
//
// Engine coordinates are multiplied by Scale before drawing, which lets a
// field laid out at a small logical size fill a larger canvas. The face
// must already be sized for the scaled cell.
type Target struct {
	dc     *gg.Context
	face   text.Face
	scale  float64
	ascent float64
}

// New returns a target drawing with face on dc at scale 1.
func New(dc *gg.Context, face text.Face) *Target {
	t := &Target{dc: dc, scale: 1}
	t.SetFace(face)
	return t
}

// SetContext switches the destination context, e.g. after a canvas resize.
func (t *Target) SetContext(dc *gg.Context) { t.dc = dc }

// Context returns the destination context.
func (t *Target) Context() *gg.Context { return t.dc }

// SetFace switches the font face.
func (t *Target) SetFace(face text.Face) {
	t.face = face
	t.ascent = 0
	if face != nil {
		t.ascent = face.Metrics().Ascent
	}
}

// SetScale sets the factor applied to engine coordinates.
// Non-positive values reset it to 1.
func (t *Target) SetScale(s float64) {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		s = 1
	}
	t.scale = s
}

// Scale returns the factor applied to engine coordinates.
func (t *Target) Scale() float64 { return t.scale }

// DrawGlyph draws ch with its cell's top-left corner at (x, y).
// gg places text on its baseline, so the face ascent is added to y.
func (t *Target) DrawGlyph(ch rune, x, y float64, c matrix.Color) error {
	if t.dc == nil {
		return ErrNoContext
	}
	if t.face == nil {
		return ErrNoFace
	}
	t.dc.SetFont(t.face)
	t.dc.SetRGBA(c.Floats())
	t.dc.DrawString(string(ch), x*t.scale, y*t.scale+t.ascent)
	return nil
}

// Clear paints the whole context with bg.
func (t *Target) Clear(bg matrix.Color) {
	if t.dc == nil {
		return
	}
	r, g, b, _ := bg.Floats()
	t.dc.ClearWithColor(gg.RGB(r, g, b))
}

// Fade covers the context with bg at the given alpha, leaving older frames
// visible as a trail. An alpha of 255 is a hard clear.
func (t *Target) Fade(bg matrix.Color, alpha uint8) error {
	if t.dc == nil {
		return ErrNoContext
	}
	if alpha == 255 {
		t.Clear(bg)
		return nil
	}
	t.dc.SetRGBA(bg.WithAlpha(alpha).Floats())
	t.dc.DrawRectangle(0, 0, float64(t.dc.Width()), float64(t.dc.Height()))
	return t.dc.Fill()
}

// TrailAlpha returns the per-frame background alpha that makes a trail fade
// at the same pace as the glyphs: twice the fade step, capped at opaque.
func TrailAlpha(fadeStep int) uint8 {
	return uint8(min(255, max(1, 2*fadeStep)))
}

var _ matrix.Target = (*Target)(nil)
