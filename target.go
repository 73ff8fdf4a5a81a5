// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

// Target is the narrow drawing capability the engine renders through.
// Backends (gg contexts, terminal screens) implement it; the simulation
// itself is backend-agnostic.
//
// (x, y) is the top-left corner of the glyph cell in canvas pixels.
// The backend owns the font: it decides where the baseline falls inside
// the cell. c carries the pass alpha in c.A.
//
// A returned error means the pass was not drawn. The engine does not
// retry; it only leaves the pass out of its draw count.
type Target interface {
	DrawGlyph(ch rune, x, y float64, c Color) error
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(ch rune, x, y float64, c Color) error

// DrawGlyph calls f(ch, x, y, c).
func (f TargetFunc) DrawGlyph(ch rune, x, y float64, c Color) error {
	return f(ch, x, y, c)
}
