// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import "slices"

// Glyph is one character occupying a fixed cell of a column.
//
// A glyph is drawn in two passes at the same position: the ink pass in the
// base color and the flash pass in the highlight color. Each pass has its
// own alpha that decays independently; a pass whose alpha reached zero is
// no longer drawn. The glyph is finished once both passes are invisible.
type Glyph struct {
	// Char is the displayed character.
	Char rune
	// Row is the row index inside the owning column.
	Row int
	// X, Y locate the top-left corner of the cell in canvas pixels.
	X, Y float64

	inkAlpha   uint8
	flashAlpha uint8
	fadeStep   uint8
	flashStep  uint8

	inkVisible   bool
	flashVisible bool
}

// NewGlyph creates a fully opaque glyph. fadeStep and flashStep are
// clamped to [1, 255] so both alphas reach zero in a finite number of ticks.
func NewGlyph(ch rune, row int, x, y float64, fadeStep, flashStep int) Glyph {
	return Glyph{
		Char:         ch,
		Row:          row,
		X:            x,
		Y:            y,
		inkAlpha:     255,
		flashAlpha:   255,
		fadeStep:     clampStep(fadeStep),
		flashStep:    clampStep(flashStep),
		inkVisible:   true,
		flashVisible: true,
	}
}

func clampStep(step int) uint8 {
	switch {
	case step < 1:
		return 1
	case step > 255:
		return 255
	default:
		return uint8(step)
	}
}

// InkAlpha returns the alpha of the base-color pass.
func (g *Glyph) InkAlpha() uint8 { return g.inkAlpha }

// FlashAlpha returns the alpha of the highlight pass.
func (g *Glyph) FlashAlpha() uint8 { return g.flashAlpha }

// InkVisible reports whether the base-color pass is still drawn.
func (g *Glyph) InkVisible() bool { return g.inkVisible }

// FlashVisible reports whether the highlight pass is still drawn.
func (g *Glyph) FlashVisible() bool { return g.flashVisible }

// Visible reports whether at least one pass is still drawn.
func (g *Glyph) Visible() bool { return g.inkVisible || g.flashVisible }

// Finished reports whether both alphas reached zero.
func (g *Glyph) Finished() bool { return g.inkAlpha == 0 && g.flashAlpha == 0 }

// Advance ages the glyph by one tick. Both alphas decay by their step,
// saturating at zero. A pass becomes invisible the tick its alpha hits zero.
func (g *Glyph) Advance() {
	if !g.Visible() {
		return
	}
	if g.flashVisible {
		g.flashAlpha = saturatingSub(g.flashAlpha, g.flashStep)
		g.flashVisible = g.flashAlpha > 0
	}
	if g.inkVisible {
		g.inkAlpha = saturatingSub(g.inkAlpha, g.fadeStep)
		g.inkVisible = g.inkAlpha > 0
	}
}

func saturatingSub(a, b uint8) uint8 {
	if a <= b {
		return 0
	}
	return a - b
}

// MaybeMutate replaces the character with probability p while the glyph is
// visible. The replacement is drawn uniformly from the alphabet runes other
// than the current one, so a mutation always changes the glyph when it can.
// It reports whether the character changed.
func (g *Glyph) MaybeMutate(alphabet []rune, p float64, rng Random) bool {
	if !g.Visible() || len(alphabet) == 0 || p <= 0 {
		return false
	}
	if p < 1 && rng.Float64() >= p {
		return false
	}

	n := len(alphabet)
	cur := slices.Index(alphabet, g.Char)
	if cur < 0 {
		g.Char = alphabet[rng.IntN(n)]
		return true
	}
	if n == 1 {
		return false
	}
	j := rng.IntN(n - 1)
	if j >= cur {
		j++
	}
	if alphabet[j] == g.Char {
		return false
	}
	g.Char = alphabet[j]
	return true
}

// Render draws the visible passes, ink first, and returns how many were
// drawn. ink and flash supply the pass colors; their alpha is replaced by
// the glyph's own.
func (g *Glyph) Render(t Target, ink, flash Color) int {
	drawn := 0
	if g.inkVisible {
		if err := t.DrawGlyph(g.Char, g.X, g.Y, ink.WithAlpha(g.inkAlpha)); err == nil {
			drawn++
		} else {
			Logger().Debug("matrix: ink pass dropped", "row", g.Row, "x", g.X, "err", err)
		}
	}
	if g.flashVisible {
		if err := t.DrawGlyph(g.Char, g.X, g.Y, flash.WithAlpha(g.flashAlpha)); err == nil {
			drawn++
		} else {
			Logger().Debug("matrix: flash pass dropped", "row", g.Row, "x", g.X, "err", err)
		}
	}
	return drawn
}
