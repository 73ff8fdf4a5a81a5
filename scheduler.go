// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current time to a Scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// LoadProbe reports system load as a fraction in [0, 1].
type LoadProbe interface {
	Load() (float64, error)
}

// Scheduler decides when the next simulation tick is due.
//
// It owns a single deadline that moves forward by one interval per tick.
// When the caller falls more than two intervals behind (a stalled host, a
// suspended laptop) the deadline is re-anchored at now+interval instead of
// replaying the missed ticks in a burst.
//
// Scheduler is safe for concurrent use.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	next     time.Time
	ticks    uint64

	probe     LoadProbe
	threshold float64
	factor    float64
	sampledAt time.Time
	throttled bool
}

// NewScheduler creates a scheduler whose first tick is due immediately.
// A nil clock means SystemClock. Non-positive intervals fall back to the
// default tick interval.
func NewScheduler(interval time.Duration, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultSettings().TickInterval
	}
	return &Scheduler{
		clock:    clock,
		interval: interval,
		next:     clock.Now(),
		factor:   1,
	}
}

// throttle installs a load probe. See WithThrottle.
func (s *Scheduler) throttle(probe LoadProbe, threshold, factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probe = probe
	s.threshold = threshold
	s.factor = max(factor, 1)
}

// Due reports whether a tick is due at now.
func (s *Scheduler) Due(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !now.Before(s.next)
}

// Advance records a tick performed at now and moves the deadline.
func (s *Scheduler) Advance(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++
	s.sampleLoad(now)

	d := s.effective()
	s.next = s.next.Add(d)
	if now.Sub(s.next) > 2*d {
		s.next = now.Add(d)
	}
}

func (s *Scheduler) sampleLoad(now time.Time) {
	if s.probe == nil {
		return
	}
	if !s.sampledAt.IsZero() && now.Sub(s.sampledAt) < loadSampleEvery {
		return
	}
	s.sampledAt = now

	load, err := s.probe.Load()
	if err != nil {
		Logger().Debug("matrix: load probe failed", "err", err)
		return
	}
	throttled := load > s.threshold
	if throttled != s.throttled {
		Logger().Info("matrix: tick throttle changed",
			"throttled", throttled, "load", load, "threshold", s.threshold)
	}
	s.throttled = throttled
}

func (s *Scheduler) effective() time.Duration {
	if s.throttled {
		return time.Duration(float64(s.interval) * s.factor)
	}
	return s.interval
}

// Next returns the deadline of the next tick.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Interval returns the effective tick interval, including any throttling.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effective()
}

// Throttled reports whether the load probe currently stretches the interval.
func (s *Scheduler) Throttled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.throttled
}

// SetInterval changes the base interval. A pending deadline further away
// than one new interval is pulled in. Non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	if limit := s.clock.Now().Add(s.effective()); s.next.After(limit) {
		s.next = limit
	}
}

// Ticks returns the number of ticks recorded by Advance.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Wait blocks until the next deadline or until ctx is done, in which case
// it returns the context's error.
func (s *Scheduler) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	d := s.next.Sub(s.clock.Now())
	s.mu.Unlock()
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
