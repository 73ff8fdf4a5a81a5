// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import "math/rand/v2"

// Random is the randomness a column consumes: mutation rolls, character
// picks and idle delays. Implementations need not be safe for concurrent
// use; every column owns its own source.
type Random interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// NewRandom returns a seeded PCG source. Columns of one field share the
// seed and differ by stream, so a field is reproducible from one number.
func NewRandom(seed, stream uint64) Random {
	return rand.New(rand.NewPCG(seed, stream))
}
