// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/matrix"
)

// ErrNoOutput is returned by the png host when Options.Out is empty.
var ErrNoOutput = errors.New("host: png: no output file")

func init() {
	Register("png", 10, newPNG, nil)
}

// snapshot renders a number of ticks offscreen and saves the last frame.
type snapshot struct {
	opts Options
}

func newPNG(opts Options) (Host, error) {
	if opts.Out == "" {
		return nil, ErrNoOutput
	}
	if opts.Width <= 0 {
		opts.Width = opts.Config.WindowWidth
	}
	if opts.Height <= 0 {
		opts.Height = opts.Config.WindowHeight
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("host: png: invalid size %dx%d", opts.Width, opts.Height)
	}
	opts.Frames = max(opts.Frames, 1)
	return &snapshot{opts: opts}, nil
}

func (p *snapshot) Run(ctx context.Context) error {
	dc, err := p.Render(ctx)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(p.opts.Out); err != nil {
		return fmt.Errorf("host: png: %w", err)
	}
	matrix.Logger().Info("host: snapshot written", "path", p.opts.Out,
		"width", p.opts.Width, "height", p.opts.Height, "frames", p.opts.Frames)
	return nil
}

// Render draws the configured number of ticks and returns the context
// holding the final frame. Ticks are spaced one interval apart without
// waiting in real time.
func (p *snapshot) Render(ctx context.Context) (*gg.Context, error) {
	softwareOnly()

	sc, err := newScene(p.opts.Config, p.opts.Width, p.opts.Height, p.opts.Engine)
	if err != nil {
		return nil, err
	}
	defer sc.close()

	dc := gg.NewContext(p.opts.Width, p.opts.Height)
	interval := sc.rain.Scheduler().Interval()
	now := time.Now()
	for i := 0; i < p.opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, _, err := sc.draw(dc, now); err != nil {
			return nil, err
		}
		now = now.Add(interval)
	}
	return dc, nil
}

// softwareOnly shuts down the GPU accelerator if one is registered. The
// snapshot reads the pixmap back directly, and glyphs queued on the GPU
// never reach it.
func softwareOnly() {
	if gg.Accelerator() == nil {
		return
	}
	matrix.Logger().Debug("host: png: disabling GPU accelerator for offscreen rendering")
	gg.CloseAccelerator()
}
