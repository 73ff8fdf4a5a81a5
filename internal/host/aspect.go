// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import "math"

// LogicalSize returns the size the rain is simulated at for a w×h window
// and the factor that maps it back onto the window. The logical width is
// capped at the window width and the height keeps the window's aspect.
// A logical width of zero or less renders at window size.
func LogicalSize(w, h, logical int) (lw, lh int, scale float64) {
	if w <= 0 || h <= 0 || logical <= 0 || logical >= w {
		return w, h, 1
	}
	scale = float64(w) / float64(logical)
	lh = int(math.Round(float64(h) / scale))
	return logical, max(lh, 1), scale
}
