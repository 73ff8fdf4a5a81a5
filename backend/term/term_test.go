// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package term

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/matrix"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func fg(t *testing.T, s tcell.Screen, x, y int) (rune, matrix.Color) {
	t.Helper()
	r, _, style, _ := s.GetContent(x, y)
	c, _, _ := style.Decompose()
	cr, cg, cb := c.RGB()
	return r, matrix.RGB(uint8(cr), uint8(cg), uint8(cb))
}

func TestStride(t *testing.T) {
	tests := []struct {
		alphabet string
		want     int
	}{
		{"01", 1},
		{"ｱｲｳ", 1},
		{"アイウ", 2},
		{"01日", 2},
	}
	for _, tt := range tests {
		if got := Stride([]rune(tt.alphabet)); got != tt.want {
			t.Errorf("Stride(%q) = %d, want %d", tt.alphabet, got, tt.want)
		}
	}
}

func TestCanvasSize(t *testing.T) {
	s := matrix.DefaultSettings()
	s.FontSize = 10
	if w, h := CanvasSize(80, 24, s); w != 800 || h != 240 {
		t.Errorf("CanvasSize() = %d, %d, want 800, 240", w, h)
	}
	s.Alphabet = []rune("アイ")
	if w, h := CanvasSize(81, 24, s); w != 400 || h != 240 {
		t.Errorf("CanvasSize(wide) = %d, %d, want 400, 240", w, h)
	}

	// The canvas maps back onto whole cells.
	s.Alphabet = []rune("01")
	w, h := CanvasSize(80, 24, s)
	f := matrix.ComputeGeometry(s, w, h)
	if f.Columns != 80 || f.Rows != 24 {
		t.Errorf("geometry = %dx%d, want 80x24", f.Columns, f.Rows)
	}
}

func TestCell(t *testing.T) {
	s := matrix.DefaultSettings()
	s.FontSize = 12
	tg := New(newScreen(t, 10, 10), s)
	if c, r := tg.Cell(36, 24); c != 3 || r != 2 {
		t.Errorf("Cell(36, 24) = %d, %d, want 3, 2", c, r)
	}

	s.Alphabet = []rune("アイ")
	tg.Configure(s)
	if c, r := tg.Cell(36, 24); c != 6 || r != 2 {
		t.Errorf("wide Cell(36, 24) = %d, %d, want 6, 2", c, r)
	}
}

func TestDrawGlyph(t *testing.T) {
	s := matrix.DefaultSettings()
	scr := newScreen(t, 10, 5)
	tg := New(scr, s)
	tg.Clear()

	if err := tg.DrawGlyph('1', 24, 12, matrix.MatrixGreen); err != nil {
		t.Fatalf("DrawGlyph() error = %v", err)
	}
	r, c := fg(t, scr, 2, 1)
	if r != '1' || c != matrix.MatrixGreen {
		t.Errorf("cell = %q %v, want '1' %v", r, c, matrix.MatrixGreen)
	}

	if err := tg.DrawGlyph('1', 1000, 0, matrix.White); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("DrawGlyph(outside) error = %v, want ErrOutOfBounds", err)
	}
}

// TestDrawGlyphBlends verifies passes composite over the cell content.
func TestDrawGlyphBlends(t *testing.T) {
	s := matrix.DefaultSettings()
	scr := newScreen(t, 4, 4)
	tg := New(scr, s)
	tg.Clear()

	// Over the black background, half white is mid grey.
	if err := tg.DrawGlyph('0', 0, 0, matrix.White.WithAlpha(128)); err != nil {
		t.Fatal(err)
	}
	_, c := fg(t, scr, 0, 0)
	if c.R < 120 || c.R > 136 || c.R != c.G || c.G != c.B {
		t.Errorf("blended color = %v, want grey about 128", c)
	}

	// A transparent pass keeps the previous color.
	if err := tg.DrawGlyph('0', 0, 0, matrix.MatrixGreen.WithAlpha(0)); err != nil {
		t.Fatal(err)
	}
	if _, after := fg(t, scr, 0, 0); after != c {
		t.Errorf("color after transparent pass = %v, want %v", after, c)
	}
}

func TestBlend(t *testing.T) {
	base := matrix.RGB(0, 0, 0)
	if got := Blend(base, matrix.White); got != matrix.White {
		t.Errorf("Blend(opaque) = %v, want white", got)
	}
	if got := Blend(matrix.RGB(10, 20, 30), matrix.White.WithAlpha(0)); got != matrix.RGB(10, 20, 30) {
		t.Errorf("Blend(transparent) = %v, want base", got)
	}
	got := Blend(base, matrix.RGB(200, 100, 0).WithAlpha(51))
	if got.R < 38 || got.R > 42 || got.G < 18 || got.G > 22 || got.B != 0 {
		t.Errorf("Blend(20%%) = %v, want about 40,20,0", got)
	}
}

// TestRenderField checks that a field laid out from the screen size draws
// into the expected cells.
func TestRenderField(t *testing.T) {
	s := matrix.DefaultSettings()
	scr := newScreen(t, 16, 8)
	w, h := CanvasSize(16, 8, s)
	f, err := matrix.NewField(s, w, h, matrix.WithSeed(2))
	if err != nil {
		t.Fatal(err)
	}
	f.Tick()

	tg := New(scr, s)
	tg.Clear()
	if n := f.Render(tg); n != 32 {
		t.Fatalf("Render() = %d, want 32", n)
	}
	for x := 0; x < 16; x++ {
		if r, _ := fg(t, scr, x, 0); r != '0' && r != '1' {
			t.Errorf("cell (%d, 0) = %q, want a rain glyph", x, r)
		}
	}
}
