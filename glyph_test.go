// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"errors"
	"testing"
)

var errDraw = errors.New("draw failed")

type drawCall struct {
	ch   rune
	x, y float64
	c    Color
}

// recorder is a Target that records every draw call.
type recorder struct {
	calls []drawCall
	fail  func(drawCall) bool
}

func (r *recorder) DrawGlyph(ch rune, x, y float64, c Color) error {
	d := drawCall{ch: ch, x: x, y: y, c: c}
	if r.fail != nil && r.fail(d) {
		return errDraw
	}
	r.calls = append(r.calls, d)
	return nil
}

// fixedRandom returns a constant Float64 and cycles through ints.
type fixedRandom struct {
	f    float64
	ints []int
	i    int
}

func (r *fixedRandom) Float64() float64 { return r.f }

func (r *fixedRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.i%len(r.ints)]
	r.i++
	return v % n
}

// TestGlyphAdvanceDecay verifies alpha = max(0, 255 - n*step) for both passes.
func TestGlyphAdvanceDecay(t *testing.T) {
	tests := []struct {
		name        string
		fade, flash int
	}{
		{"defaults", 10, 200},
		{"slow", 1, 3},
		{"single tick", 255, 255},
		{"mixed", 37, 91},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGlyph('0', 0, 0, 0, tt.fade, tt.flash)
			for n := 0; n <= 300; n++ {
				if want := max(0, 255-n*tt.fade); int(g.InkAlpha()) != want {
					t.Fatalf("after %d advances InkAlpha() = %d, want %d", n, g.InkAlpha(), want)
				}
				if want := max(0, 255-n*tt.flash); int(g.FlashAlpha()) != want {
					t.Fatalf("after %d advances FlashAlpha() = %d, want %d", n, g.FlashAlpha(), want)
				}
				g.Advance()
			}
		})
	}
}

// TestGlyphSingleTickFade verifies full steps finish a glyph in one advance.
func TestGlyphSingleTickFade(t *testing.T) {
	g := NewGlyph('1', 0, 0, 0, 255, 255)
	if g.Finished() {
		t.Fatal("fresh glyph is finished")
	}
	g.Advance()
	if !g.Finished() {
		t.Error("Finished() = false after one advance with full steps")
	}
	if g.Visible() {
		t.Error("Visible() = true after both alphas reached zero")
	}
}

// TestGlyphIndependentPasses verifies a glyph can be ink-only.
func TestGlyphIndependentPasses(t *testing.T) {
	g := NewGlyph('1', 0, 0, 0, 10, 200)
	g.Advance()
	if !g.FlashVisible() || g.FlashAlpha() != 55 {
		t.Fatalf("after 1 advance flash = %d visible %v, want 55 true", g.FlashAlpha(), g.FlashVisible())
	}
	g.Advance()
	if g.FlashVisible() {
		t.Error("FlashVisible() = true after flash alpha reached zero")
	}
	if !g.InkVisible() || g.InkAlpha() != 235 {
		t.Errorf("ink = %d visible %v, want 235 true", g.InkAlpha(), g.InkVisible())
	}
	if g.Finished() {
		t.Error("ink-only glyph reported finished")
	}

	r := &recorder{}
	if n := g.Render(r, MatrixGreen, White); n != 1 {
		t.Errorf("Render() = %d, want 1", n)
	}
}

// TestNewGlyphClampsSteps verifies steps are clamped to [1, 255].
func TestNewGlyphClampsSteps(t *testing.T) {
	g := NewGlyph('x', 0, 0, 0, 0, 1000)
	g.Advance()
	if g.InkAlpha() != 254 {
		t.Errorf("InkAlpha() = %d, want 254 (step clamped to 1)", g.InkAlpha())
	}
	if g.FlashAlpha() != 0 {
		t.Errorf("FlashAlpha() = %d, want 0 (step clamped to 255)", g.FlashAlpha())
	}
}

// TestGlyphMutateAlways verifies rate 1.0 changes the character every tick.
func TestGlyphMutateAlways(t *testing.T) {
	rng := NewRandom(1, 0)
	alphabet := []rune("01")
	g := NewGlyph('0', 0, 0, 0, 1, 1)
	for i := 0; i < 200; i++ {
		before := g.Char
		if !g.MaybeMutate(alphabet, 1, rng) {
			t.Fatalf("tick %d: MaybeMutate() = false with rate 1", i)
		}
		if g.Char == before {
			t.Fatalf("tick %d: char stayed %q", i, before)
		}
		g.Advance()
	}
}

// TestGlyphMutateNever verifies rate 0.0 never changes the character.
func TestGlyphMutateNever(t *testing.T) {
	rng := NewRandom(1, 0)
	alphabet := []rune("abcdef")
	g := NewGlyph('a', 0, 0, 0, 1, 1)
	for i := 0; i < 200; i++ {
		if g.MaybeMutate(alphabet, 0, rng) || g.Char != 'a' {
			t.Fatalf("tick %d: char changed to %q with rate 0", i, g.Char)
		}
		g.Advance()
	}
}

// TestGlyphMutateProbability verifies the roll is compared against the rate.
func TestGlyphMutateProbability(t *testing.T) {
	alphabet := []rune("abc")

	g := NewGlyph('a', 0, 0, 0, 1, 1)
	if g.MaybeMutate(alphabet, 0.5, &fixedRandom{f: 0.7, ints: []int{1}}) {
		t.Error("mutated with roll 0.7 >= rate 0.5")
	}

	if !g.MaybeMutate(alphabet, 0.5, &fixedRandom{f: 0.2, ints: []int{1}}) {
		t.Fatal("no mutation with roll 0.2 < rate 0.5")
	}
	if g.Char != 'c' {
		t.Errorf("Char = %q, want 'c'", g.Char)
	}
}

// TestGlyphMutatePicksOthers verifies a draw indexes the alphabet with the
// current character left out.
func TestGlyphMutatePicksOthers(t *testing.T) {
	alphabet := []rune("abcd")
	for draw, want := range []rune{'a', 'c', 'd'} {
		g := NewGlyph('b', 0, 0, 0, 1, 1)
		if !g.MaybeMutate(alphabet, 1, &fixedRandom{ints: []int{draw}}) {
			t.Fatalf("draw %d: MaybeMutate() = false", draw)
		}
		if g.Char != want {
			t.Errorf("draw %d: Char = %q, want %q", draw, g.Char, want)
		}
	}
}

// TestGlyphMutateUniform verifies every other character is picked about
// equally often.
func TestGlyphMutateUniform(t *testing.T) {
	const trials = 30000
	rng := NewRandom(5, 0)
	alphabet := []rune("ABCD")
	counts := make(map[rune]int)
	for i := 0; i < trials; i++ {
		g := NewGlyph('A', 0, 0, 0, 1, 1)
		g.MaybeMutate(alphabet, 1, rng)
		counts[g.Char]++
	}

	if counts['A'] != 0 {
		t.Errorf("kept the current character %d times", counts['A'])
	}
	want := trials / 3
	for _, r := range "BCD" {
		if got := counts[r]; got < want*9/10 || got > want*11/10 {
			t.Errorf("%q picked %d times, want about %d (counts %v)", r, got, want, counts)
		}
	}
}

// TestGlyphMutateForeignChar verifies a character missing from the
// alphabet is replaced by any alphabet character.
func TestGlyphMutateForeignChar(t *testing.T) {
	g := NewGlyph('z', 0, 0, 0, 1, 1)
	if !g.MaybeMutate([]rune("ab"), 1, &fixedRandom{ints: []int{1}}) {
		t.Fatal("MaybeMutate() = false")
	}
	if g.Char != 'b' {
		t.Errorf("Char = %q, want 'b'", g.Char)
	}
}

// TestGlyphMutateEdgeCases covers the cases where no change is possible.
func TestGlyphMutateEdgeCases(t *testing.T) {
	rng := &fixedRandom{}

	g := NewGlyph('a', 0, 0, 0, 1, 1)
	if g.MaybeMutate([]rune("a"), 1, rng) {
		t.Error("mutated with a single-rune alphabet")
	}
	if g.MaybeMutate(nil, 1, rng) {
		t.Error("mutated with an empty alphabet")
	}

	done := NewGlyph('a', 0, 0, 0, 255, 255)
	done.Advance()
	if done.MaybeMutate([]rune("ab"), 1, rng) {
		t.Error("invisible glyph mutated")
	}
}

// TestGlyphRenderOrder verifies ink is drawn before flash with each alpha.
func TestGlyphRenderOrder(t *testing.T) {
	g := NewGlyph('7', 3, 16, 48, 10, 200)
	g.Advance()

	r := &recorder{}
	if n := g.Render(r, MatrixGreen, White); n != 2 {
		t.Fatalf("Render() = %d, want 2", n)
	}
	want := []drawCall{
		{ch: '7', x: 16, y: 48, c: MatrixGreen.WithAlpha(245)},
		{ch: '7', x: 16, y: 48, c: White.WithAlpha(55)},
	}
	for i, w := range want {
		if r.calls[i] != w {
			t.Errorf("call %d = %+v, want %+v", i, r.calls[i], w)
		}
	}
}

// TestGlyphRenderFailure verifies a failed pass is not counted.
func TestGlyphRenderFailure(t *testing.T) {
	g := NewGlyph('7', 0, 0, 0, 10, 200)
	r := &recorder{fail: func(d drawCall) bool { return d.c.R == White.R && d.c.G == White.G && d.c.B == White.B }}
	if n := g.Render(r, MatrixGreen, White); n != 1 {
		t.Errorf("Render() = %d, want 1", n)
	}
	if len(r.calls) != 1 || r.calls[0].c != MatrixGreen {
		t.Errorf("calls = %+v, want only the ink pass", r.calls)
	}
}

// TestGlyphRenderFinished verifies a finished glyph draws nothing.
func TestGlyphRenderFinished(t *testing.T) {
	g := NewGlyph('7', 0, 0, 0, 255, 255)
	g.Advance()
	r := &recorder{}
	if n := g.Render(r, MatrixGreen, White); n != 0 || len(r.calls) != 0 {
		t.Errorf("Render() = %d with %d calls, want 0", n, len(r.calls))
	}
}
