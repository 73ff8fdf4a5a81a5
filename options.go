// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import "time"

// Option configures a Field or a Rain during creation.
// Use functional options to customize engine behavior.
//
// Example:
//
//	// Reproducible field
//	f, err := matrix.NewField(settings, 320, 240, matrix.WithSeed(42))
//
//	// Parallel column ticks on a large canvas
//	r, err := matrix.New(settings, 3840, 2160, matrix.WithParallelism(4))
type Option func(*options)

// options holds optional configuration for Field and Rain creation.
type options struct {
	seed        uint64
	seeded      bool
	random      func(column int) Random
	parallelism int
	clock       Clock
	probe       LoadProbe
	threshold   float64
	factor      float64
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		parallelism: 1,
		clock:       SystemClock{},
		factor:      1,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = uint64(o.clock.Now().UnixNano())
	}
	return o
}

// randomFor returns the random source of column i.
func (o *options) randomFor(i int) Random {
	if o.random != nil {
		return o.random(i)
	}
	return NewRandom(o.seed, uint64(i))
}

// WithSeed makes every column's random source derive from seed.
// Column i uses stream i, so columns stay independent.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithRandomSource installs a factory for per-column random sources.
// It takes precedence over WithSeed. The factory must not return nil.
func WithRandomSource(fn func(column int) Random) Option {
	return func(o *options) {
		o.random = fn
	}
}

// WithParallelism ticks up to n columns concurrently.
// Values below 1 are treated as 1 (sequential).
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithClock sets the clock used by the Rain scheduler.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithThrottle stretches the tick interval by factor while the load
// reported by probe exceeds threshold (a fraction in [0, 1]).
func WithThrottle(probe LoadProbe, threshold, factor float64) Option {
	return func(o *options) {
		o.probe = probe
		o.threshold = threshold
		if factor < 1 {
			factor = 1
		}
		o.factor = factor
	}
}

// loadSampleEvery bounds how often a LoadProbe is consulted.
const loadSampleEvery = time.Second
