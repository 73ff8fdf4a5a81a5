// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Geometry is the column/row layout of a field on a canvas.
type Geometry struct {
	Width, Height int
	Columns, Rows int

	ColumnPitch int
	RowPitch    int
}

// ComputeGeometry lays out a canvas of w×h pixels.
//
// Columns are floor(w / ColumnPitch), plus one when PartialColumn is set and
// the right edge has a remainder. Rows are ceil(h / RowPitch) + RowMargin.
// Settings must be valid.
func ComputeGeometry(s Settings, w, h int) Geometry {
	g := Geometry{
		Width:       w,
		Height:      h,
		ColumnPitch: s.ColumnPitch(),
		RowPitch:    s.RowPitch(),
	}
	if g.ColumnPitch <= 0 || g.RowPitch <= 0 || w <= 0 || h <= 0 {
		return g
	}

	g.Columns = w / g.ColumnPitch
	if s.PartialColumn && w%g.ColumnPitch != 0 {
		g.Columns++
	}
	g.Rows = (h+g.RowPitch-1)/g.RowPitch + s.RowMargin
	return g
}

// ColumnX returns the pixel offset of column i.
func (g Geometry) ColumnX(i int) float64 {
	return float64(i * g.ColumnPitch)
}

// Field is the full set of columns for one canvas size and one settings
// value. A field is never resized: a new canvas size or new settings
// means building a new field.
type Field struct {
	settings Settings
	geometry Geometry
	columns  []*Column
	parallel int
}

// NewField validates s and builds one column per horizontal slot, each
// with its own random source.
func NewField(s Settings, w, h int, opts ...Option) (*Field, error) {
	o := applyOptions(opts)
	return newField(s, w, h, &o)
}

func newField(s Settings, w, h int, o *options) (*Field, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, w, h)
	}

	f := &Field{
		settings: s.clone(),
		geometry: ComputeGeometry(s, w, h),
		parallel: o.parallelism,
	}
	f.columns = make([]*Column, f.geometry.Columns)
	for i := range f.columns {
		rng := o.randomFor(i)
		if rng == nil {
			return nil, fmt.Errorf("%w: column %d", ErrNilRandomSource, i)
		}
		f.columns[i] = NewColumn(i, f.geometry.ColumnX(i), f.geometry.Rows, rng)
	}

	Logger().Debug("matrix: field built",
		"width", w, "height", h,
		"columns", f.geometry.Columns, "rows", f.geometry.Rows)
	return f, nil
}

// Settings returns a copy of the settings the field was built with.
func (f *Field) Settings() Settings { return f.settings.clone() }

// Geometry returns the field layout.
func (f *Field) Geometry() Geometry { return f.geometry }

// Columns returns the field's columns. The slice must not be modified.
func (f *Field) Columns() []*Column { return f.columns }

// Len returns the number of live glyphs across all columns.
func (f *Field) Len() int {
	n := 0
	for _, c := range f.columns {
		n += c.Len()
	}
	return n
}

// Stats counts columns per state.
type Stats struct {
	Spawning, Draining, Idle int
	Glyphs                   int
}

// Stats returns per-state column counts and the live glyph total.
func (f *Field) Stats() Stats {
	var st Stats
	for _, c := range f.columns {
		switch c.State() {
		case Spawning:
			st.Spawning++
		case Draining:
			st.Draining++
		case Idle:
			st.Idle++
		}
		st.Glyphs += c.Len()
	}
	return st
}

// Tick advances every column by one step. Columns share nothing, so with
// WithParallelism they are ticked concurrently; the call still returns
// only after every column finished.
func (f *Field) Tick() {
	if f.parallel <= 1 || len(f.columns) < 2 {
		for _, c := range f.columns {
			c.Tick(&f.settings)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(f.parallel)
	for _, c := range f.columns {
		g.Go(func() error {
			c.Tick(&f.settings)
			return nil
		})
	}
	_ = g.Wait() // column ticks never fail
}

// Render draws every column and returns the aggregate pass count.
func (f *Field) Render(t Target) int {
	drawn := 0
	for _, c := range f.columns {
		drawn += c.Render(t, &f.settings)
	}
	return drawn
}
