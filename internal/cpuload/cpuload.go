// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cpuload reports system CPU usage for throttling the rain.
package cpuload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/gogpu/matrix"
)

// ErrNoSample is returned when the system reports no CPU figures.
var ErrNoSample = errors.New("cpuload: no sample")

// Probe implements matrix.LoadProbe with gopsutil.
type Probe struct {
	percent func(ctx context.Context, interval time.Duration, perCPU bool) ([]float64, error)
}

// New returns a probe measuring usage across all CPUs since its previous call.
func New() *Probe {
	return &Probe{percent: cpu.PercentWithContext}
}

// Load returns the CPU usage as a fraction in [0, 1].
func (p *Probe) Load() (float64, error) {
	v, err := p.percent(context.Background(), 0, false)
	if err != nil {
		return 0, fmt.Errorf("cpuload: %w", err)
	}
	if len(v) == 0 {
		return 0, ErrNoSample
	}
	return min(max(v[0]/100, 0), 1), nil
}

var _ matrix.LoadProbe = (*Probe)(nil)
