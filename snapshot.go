// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

// GlyphView is the render-relevant state of one glyph at snapshot time.
type GlyphView struct {
	Char       rune
	X, Y       float64
	InkAlpha   uint8
	FlashAlpha uint8
}

// Snapshot is an immutable copy of a field's drawable state. It lets a
// presentation goroutine draw a completed frame while the simulation goroutine
// keeps exclusive ownership of the field.
type Snapshot struct {
	geometry   Geometry
	ink        Color
	flash      Color
	background Color
	glyphs     []GlyphView
}

// Snapshot copies the field's live glyphs.
func (f *Field) Snapshot() *Snapshot {
	s := &Snapshot{
		geometry:   f.geometry,
		ink:        f.settings.Color,
		flash:      f.settings.FlashColor,
		background: f.settings.Background,
		glyphs:     make([]GlyphView, 0, f.Len()),
	}
	for _, c := range f.columns {
		for i := range c.glyphs {
			g := &c.glyphs[i]
			if !g.Visible() {
				continue
			}
			s.glyphs = append(s.glyphs, GlyphView{
				Char:       g.Char,
				X:          g.X,
				Y:          g.Y,
				InkAlpha:   visibleAlpha(g.inkVisible, g.inkAlpha),
				FlashAlpha: visibleAlpha(g.flashVisible, g.flashAlpha),
			})
		}
	}
	return s
}

func visibleAlpha(visible bool, a uint8) uint8 {
	if !visible {
		return 0
	}
	return a
}

// Geometry returns the layout of the field the snapshot was taken from.
func (s *Snapshot) Geometry() Geometry { return s.geometry }

// Background returns the background color of the field's settings.
func (s *Snapshot) Background() Color { return s.background }

// Len returns the number of glyphs in the snapshot.
func (s *Snapshot) Len() int { return len(s.glyphs) }

// Glyphs returns a copy of the glyph views.
func (s *Snapshot) Glyphs() []GlyphView {
	return append([]GlyphView(nil), s.glyphs...)
}

// Render issues the same draw calls the field would have issued at
// snapshot time and returns the number of passes drawn.
func (s *Snapshot) Render(t Target) int {
	drawn := 0
	for _, g := range s.glyphs {
		if g.InkAlpha > 0 && t.DrawGlyph(g.Char, g.X, g.Y, s.ink.WithAlpha(g.InkAlpha)) == nil {
			drawn++
		}
		if g.FlashAlpha > 0 && t.DrawGlyph(g.Char, g.X, g.Y, s.flash.WithAlpha(g.FlashAlpha)) == nil {
			drawn++
		}
	}
	return drawn
}
