// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

// ColumnState is the phase of a column's spawn cycle.
//
//	Spawning (cursor < max) -> Draining (cursor == max, glyphs left)
//	  -> Idle (delay pending) -> Spawning (cursor == 0)
type ColumnState uint8

const (
	// Spawning columns add one glyph per tick.
	Spawning ColumnState = iota
	// Draining columns reached the bottom and wait for their glyphs to fade.
	Draining
	// Idle columns are empty and wait out a random delay.
	Idle
)

// String returns the state name.
func (s ColumnState) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Draining:
		return "draining"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// Column is a vertical lane of glyphs sharing one x offset.
//
// Each tick a column ages its glyphs, drops the finished ones and spawns
// one new glyph below the previous one until it reaches the bottom. Once
// every glyph has faded it restarts from the top after a random idle
// delay drawn from its own random source, so columns never synchronize.
type Column struct {
	index   int
	x       float64
	maxRows int
	cursor  int
	idle    int
	glyphs  []Glyph
	rng     Random
}

// NewColumn creates an empty column at horizontal offset x.
// maxRows below zero is treated as zero.
func NewColumn(index int, x float64, maxRows int, rng Random) *Column {
	if maxRows < 0 {
		maxRows = 0
	}
	return &Column{
		index:   index,
		x:       x,
		maxRows: maxRows,
		glyphs:  make([]Glyph, 0, maxRows),
		rng:     rng,
	}
}

// Index returns the column's slot in its field.
func (c *Column) Index() int { return c.index }

// X returns the column's horizontal pixel offset.
func (c *Column) X() float64 { return c.x }

// MaxRows returns the row capacity.
func (c *Column) MaxRows() int { return c.maxRows }

// Cursor returns the next row to populate.
func (c *Column) Cursor() int { return c.cursor }

// Len returns the number of live glyphs.
func (c *Column) Len() int { return len(c.glyphs) }

// IdleRemaining returns how many no-op ticks are left before spawning resumes.
func (c *Column) IdleRemaining() int { return c.idle }

// Glyphs returns a copy of the live glyphs, top to bottom.
func (c *Column) Glyphs() []Glyph {
	return append([]Glyph(nil), c.glyphs...)
}

// State returns the column's current phase.
func (c *Column) State() ColumnState {
	switch {
	case c.idle > 0:
		return Idle
	case c.cursor >= c.maxRows && len(c.glyphs) > 0:
		return Draining
	default:
		return Spawning
	}
}

// Tick advances the column by one simulation step.
func (c *Column) Tick(s *Settings) {
	if c.idle > 0 {
		c.idle--
		return
	}

	for i := range c.glyphs {
		g := &c.glyphs[i]
		g.Advance()
		g.MaybeMutate(s.Alphabet, s.MutationRate, c.rng)
	}

	// Compact in place, keeping top-to-bottom order.
	live := c.glyphs[:0]
	for _, g := range c.glyphs {
		if !g.Finished() {
			live = append(live, g)
		}
	}
	clear(c.glyphs[len(live):])
	c.glyphs = live

	if c.cursor < c.maxRows {
		c.spawn(s)
		return
	}
	if len(c.glyphs) == 0 {
		c.restart(s)
	}
}

func (c *Column) spawn(s *Settings) {
	var ch rune
	if n := len(s.Alphabet); n > 0 {
		ch = s.Alphabet[c.rng.IntN(n)]
	}
	y := float64(c.cursor * s.RowPitch())
	c.glyphs = append(c.glyphs, NewGlyph(ch, c.cursor, c.x, y, s.FadeStep, s.FlashStep))
	c.cursor++
}

func (c *Column) restart(s *Settings) {
	c.cursor = 0
	lo, hi := s.IdleTicks()
	c.idle = lo
	if hi > lo {
		c.idle += c.rng.IntN(hi - lo)
	}
}

// Render draws every live glyph in order and returns the total number of
// passes drawn.
func (c *Column) Render(t Target, s *Settings) int {
	drawn := 0
	for i := range c.glyphs {
		drawn += c.glyphs[i].Render(t, s.Color, s.FlashColor)
	}
	return drawn
}
