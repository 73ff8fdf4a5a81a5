// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"sync"
	"time"
)

// Rain owns a Field and its Scheduler and serializes every access to them.
//
// Ticks, renders, resizes and reloads all take the same lock, so a host may
// drive the simulation from one goroutine and deliver resize or reload
// events from another without ever observing a half-ticked or half-built
// field. Resize and Reload build the replacement field before swapping it
// in; on failure the previous field keeps running.
type Rain struct {
	mu    sync.Mutex
	field *Field
	sched *Scheduler
	opts  options

	rebuilds int
}

// New builds a rain for a canvas of w×h pixels.
func New(s Settings, w, h int, opts ...Option) (*Rain, error) {
	o := applyOptions(opts)
	f, err := newField(s, w, h, &o)
	if err != nil {
		return nil, err
	}

	sched := NewScheduler(s.TickInterval, o.clock)
	if o.probe != nil {
		sched.throttle(o.probe, o.threshold, o.factor)
	}
	return &Rain{field: f, sched: sched, opts: o}, nil
}

// Scheduler returns the rain's scheduler.
func (r *Rain) Scheduler() *Scheduler { return r.sched }

// Step ticks the field if a tick is due at now and reports whether it did.
func (r *Rain) Step(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stepLocked(now)
}

func (r *Rain) stepLocked(now time.Time) bool {
	if !r.sched.Due(now) {
		return false
	}
	r.field.Tick()
	r.sched.Advance(now)
	return true
}

// StepAndRender performs Step and then renders the field to t, holding
// the lock across both.
func (r *Rain) StepAndRender(now time.Time, t Target) (ticked bool, drawn int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticked = r.stepLocked(now)
	drawn = r.field.Render(t)
	Logger().Debug("matrix: frame", "ticked", ticked, "drawn", drawn)
	return ticked, drawn
}

// Render draws the current field to t.
func (r *Rain) Render(t Target) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Render(t)
}

// Snapshot returns an immutable copy of the current frame.
func (r *Rain) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Snapshot()
}

// Geometry returns the current field layout.
func (r *Rain) Geometry() Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Geometry()
}

// Settings returns a copy of the settings in effect.
func (r *Rain) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Settings()
}

// Stats returns the per-state column counts of the current field.
func (r *Rain) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.field.Stats()
}

// Resize rebuilds the field for a w×h canvas. Resizing to the current size
// is a no-op.
func (r *Rain) Resize(w, h int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.field.Geometry()
	if g.Width == w && g.Height == h {
		return nil
	}
	return r.rebuildLocked(r.field.settings, w, h)
}

// Reload rebuilds the field with new settings at the current canvas size
// and adopts the new tick interval.
func (r *Rain) Reload(s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.field.Geometry()
	if err := r.rebuildLocked(s, g.Width, g.Height); err != nil {
		return err
	}
	r.sched.SetInterval(s.TickInterval)
	return nil
}

func (r *Rain) rebuildLocked(s Settings, w, h int) error {
	o := r.opts
	if !o.seeded {
		// Fresh streams so a rebuilt field does not replay the old one.
		o.seed += uint64(r.rebuilds + 1)
	}
	f, err := newField(s, w, h, &o)
	if err != nil {
		Logger().Warn("matrix: rebuild rejected, keeping previous field", "err", err)
		return err
	}
	r.field = f
	r.rebuilds++
	Logger().Debug("matrix: field rebuilt",
		"rebuilds", r.rebuilds, "columns", f.geometry.Columns, "rows", f.geometry.Rows)
	return nil
}

// Run drives the rain until ctx is done or present fails. Each iteration
// waits for the scheduler, ticks, and hands an immutable snapshot of the
// new frame to present outside the lock.
func (r *Rain) Run(ctx context.Context, present func(*Snapshot) error) error {
	for {
		if err := r.sched.Wait(ctx); err != nil {
			return err
		}

		r.mu.Lock()
		var snap *Snapshot
		if r.stepLocked(r.opts.clock.Now()) {
			snap = r.field.Snapshot()
		}
		r.mu.Unlock()

		if snap == nil {
			continue
		}
		if err := present(snap); err != nil {
			return err
		}
	}
}
