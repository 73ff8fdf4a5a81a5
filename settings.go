// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Settings is the read-only configuration the engine is built from.
// It is produced by the configuration provider (see package config) and
// copied into a Field at build time; the engine never mutates it.
type Settings struct {
	// Alphabet is the ordered set of characters glyphs are drawn from.
	Alphabet []rune

	// Color is the base ("ink") color, FlashColor the highlight color.
	// Their alpha channels are ignored: glyphs carry their own alpha.
	Color      Color
	FlashColor Color
	Background Color

	// FontSize is the glyph cell size in pixels.
	FontSize int
	// Spacing is the vertical gap between rows in pixels.
	Spacing int
	// ColumnSpacing is the horizontal gap between columns in pixels.
	ColumnSpacing int

	// FadeStep and FlashStep are the alpha units removed per tick from the
	// ink and flash passes. Both must be in [1, 255].
	FadeStep  int
	FlashStep int

	// MutationRate is the per-tick probability that a visible glyph
	// swaps its character.
	MutationRate float64

	// TickInterval is the simulation frame interval.
	TickInterval time.Duration

	// IdleDelay bounds the random pause a drained column waits before
	// spawning again.
	IdleDelay DelayRange

	// RowMargin adds extra rows below the visible canvas.
	RowMargin int
	// PartialColumn adds one column for a partially visible right edge.
	PartialColumn bool
}

// DelayRange is a closed-open duration interval [Min, Max).
type DelayRange struct {
	Min, Max time.Duration
}

// Validation errors returned (joined) by Settings.Validate.
var (
	ErrEmptyAlphabet   = errors.New("matrix: alphabet is empty")
	ErrFontSize        = errors.New("matrix: font size must be positive")
	ErrSpacing         = errors.New("matrix: spacing must not be negative")
	ErrFadeStep        = errors.New("matrix: fade step must be in [1, 255]")
	ErrFlashStep       = errors.New("matrix: flash step must be in [1, 255]")
	ErrMutationRate    = errors.New("matrix: mutation rate must be in [0, 1]")
	ErrTickInterval    = errors.New("matrix: tick interval must be positive")
	ErrIdleDelay       = errors.New("matrix: idle delay bounds are invalid")
	ErrInvalidCanvas   = errors.New("matrix: canvas dimensions must not be negative")
	ErrNegativeMargin  = errors.New("matrix: row margin must not be negative")
	ErrNilRandomSource = errors.New("matrix: random source returned nil")
)

// DefaultSettings returns the classic green-on-black rain.
func DefaultSettings() Settings {
	return Settings{
		Alphabet:     []rune("01"),
		Color:        MatrixGreen,
		FlashColor:   White,
		Background:   Black,
		FontSize:     12,
		Spacing:      0,
		FadeStep:     10,
		FlashStep:    200,
		MutationRate: 0.001,
		TickInterval: 50 * time.Millisecond,
		IdleDelay:    DelayRange{Min: 0, Max: 6 * time.Second},
	}
}

// Validate reports every out-of-range value at once.
func (s Settings) Validate() error {
	var errs []error
	if len(s.Alphabet) == 0 {
		errs = append(errs, ErrEmptyAlphabet)
	}
	if s.FontSize < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrFontSize, s.FontSize))
	}
	if s.Spacing < 0 || s.ColumnSpacing < 0 {
		errs = append(errs, fmt.Errorf("%w: %d/%d", ErrSpacing, s.Spacing, s.ColumnSpacing))
	}
	if s.FadeStep < 1 || s.FadeStep > 255 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrFadeStep, s.FadeStep))
	}
	if s.FlashStep < 1 || s.FlashStep > 255 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrFlashStep, s.FlashStep))
	}
	if math.IsNaN(s.MutationRate) || s.MutationRate < 0 || s.MutationRate > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrMutationRate, s.MutationRate))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrTickInterval, s.TickInterval))
	}
	if s.IdleDelay.Min < 0 || s.IdleDelay.Max < s.IdleDelay.Min {
		errs = append(errs, fmt.Errorf("%w: [%v, %v)", ErrIdleDelay, s.IdleDelay.Min, s.IdleDelay.Max))
	}
	if s.RowMargin < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeMargin, s.RowMargin))
	}
	return errors.Join(errs...)
}

// RowPitch is the vertical distance between row origins in pixels.
func (s Settings) RowPitch() int {
	return s.FontSize + s.Spacing
}

// ColumnPitch is the horizontal distance between column origins in pixels.
func (s Settings) ColumnPitch() int {
	return s.FontSize + s.ColumnSpacing
}

// IdleTicks converts the idle delay bounds into whole ticks.
func (s Settings) IdleTicks() (lo, hi int) {
	if s.TickInterval <= 0 {
		return 0, 0
	}
	return int(s.IdleDelay.Min / s.TickInterval), int(s.IdleDelay.Max / s.TickInterval)
}

// clone returns a copy that shares no memory with s.
func (s Settings) clone() Settings {
	s.Alphabet = append([]rune(nil), s.Alphabet...)
	return s
}
