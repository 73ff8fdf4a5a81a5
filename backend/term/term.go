// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package term draws the rain onto a terminal through tcell.
//
// The engine works in pixels; the terminal in cells. The target lays a
// virtual pixel canvas over the screen where one glyph cell maps to one
// terminal row and to one or two terminal columns, depending on whether
// the alphabet contains East Asian wide characters. Terminal cells have no
// alpha, so every pass is blended over the cell's current color with
// go-colorful.
package term

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/width"

	"github.com/gogpu/matrix"
)

// ErrOutOfBounds is returned for glyphs that fall outside the screen.
var ErrOutOfBounds = errors.New("term: glyph outside screen")

// Stride returns how many terminal columns one glyph occupies: 2 when any
// rune of alphabet is wide or fullwidth, 1 otherwise.
func Stride(alphabet []rune) int {
	for _, r := range alphabet {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return 2
		}
	}
	return 1
}

// CanvasSize returns the virtual pixel canvas covering a cols×rows screen
// for settings s.
func CanvasSize(cols, rows int, s matrix.Settings) (w, h int) {
	stride := Stride(s.Alphabet)
	return (cols / stride) * s.ColumnPitch(), rows * s.RowPitch()
}

// Target implements matrix.Target over a tcell.Screen.
type Target struct {
	screen   tcell.Screen
	colPitch int
	rowPitch int
	stride   int
	bg       matrix.Color
}

// New returns a target for screen laid out for settings s.
func New(screen tcell.Screen, s matrix.Settings) *Target {
	t := &Target{screen: screen}
	t.Configure(s)
	return t
}

// Configure adopts the pitches, stride and background of s.
func (t *Target) Configure(s matrix.Settings) {
	t.colPitch = max(1, s.ColumnPitch())
	t.rowPitch = max(1, s.RowPitch())
	t.stride = Stride(s.Alphabet)
	t.bg = s.Background
}

// Cell maps an engine position to a terminal cell.
func (t *Target) Cell(x, y float64) (col, row int) {
	return int(x) / t.colPitch * t.stride, int(y) / t.rowPitch
}

// DrawGlyph blends ch in color c over the cell holding (x, y).
func (t *Target) DrawGlyph(ch rune, x, y float64, c matrix.Color) error {
	col, row := t.Cell(x, y)
	w, h := t.screen.Size()
	if col < 0 || row < 0 || col >= w || row >= h {
		return ErrOutOfBounds
	}

	base := t.bg
	if prev, _, style, _ := t.screen.GetContent(col, row); prev != ' ' && prev != 0 {
		if fg, _, _ := style.Decompose(); fg != tcell.ColorDefault {
			r, g, b := fg.RGB()
			base = matrix.RGB(uint8(r), uint8(g), uint8(b))
		}
	}

	out := Blend(base, c)
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(out.R), int32(out.G), int32(out.B))).
		Background(tcellColor(t.bg))
	t.screen.SetContent(col, row, ch, nil, style)
	return nil
}

// Clear fills the screen with the background color.
func (t *Target) Clear() {
	t.screen.Fill(' ', tcell.StyleDefault.Background(tcellColor(t.bg)))
}

// Blend composites c over base using c's alpha in RGB space.
func Blend(base, c matrix.Color) matrix.Color {
	if c.A == 255 {
		return c
	}
	if c.A == 0 {
		return base.WithAlpha(255)
	}
	a, _ := colorful.MakeColor(base.WithAlpha(255))
	b, _ := colorful.MakeColor(c.WithAlpha(255))
	r, g, bl := a.BlendRgb(b, float64(c.A)/255).Clamped().RGB255()
	return matrix.RGB(r, g, bl)
}

func tcellColor(c matrix.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

var _ matrix.Target = (*Target)(nil)
