// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import "time"

const (
	// mouseQuitHold is how long the pointer has to keep moving.
	mouseQuitHold = 400 * time.Millisecond
	// mouseQuitGap ends a gesture when no movement arrives within it.
	mouseQuitGap = 300 * time.Millisecond
)

// MouseQuit detects sustained pointer movement. A stray nudge of the mouse
// does not end the screensaver, moving it for a moment does.
type MouseQuit struct {
	moving bool
	start  time.Time
	last   time.Time
}

// Move records pointer movement at now and reports whether the gesture
// has lasted long enough to quit.
func (m *MouseQuit) Move(now time.Time) bool {
	if !m.moving || now.Sub(m.last) > mouseQuitGap {
		m.moving = true
		m.start = now
	}
	m.last = now
	return now.Sub(m.start) > mouseQuitHold
}

// Reset forgets the current gesture.
func (m *MouseQuit) Reset() { *m = MouseQuit{} }
