// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/backend/term"
	"github.com/gogpu/matrix/config"
)

func init() {
	Register("terminal", 50, newTerminal, isTerminal)
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// terminal renders into the controlling terminal with tcell.
type terminal struct {
	opts      Options
	newScreen func() (tcell.Screen, error)
}

func newTerminal(opts Options) (Host, error) {
	return &terminal{opts: opts, newScreen: tcell.NewScreen}, nil
}

// terminalSession is the state shared by the event and render goroutines.
// Only the render goroutine touches target and rain geometry.
type terminalSession struct {
	screen  tcell.Screen
	target  *term.Target
	rain    *matrix.Rain
	resized chan struct{}
	reload  <-chan config.Config
}

func (t *terminal) Run(ctx context.Context) error {
	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("host: terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("host: terminal: %w", err)
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()

	cfg := t.opts.Config
	screen.HideCursor()
	if cfg.MouseQuit {
		screen.EnableMouse(tcell.MouseMotionEvents)
	}

	settings := cfg.Settings()
	cols, rows := screen.Size()
	w, h := term.CanvasSize(cols, rows, settings)
	rain, err := matrix.New(settings, w, h, t.opts.Engine...)
	if err != nil {
		return err
	}
	s := &terminalSession{
		screen:  screen,
		target:  term.New(screen, settings),
		rain:    rain,
		resized: make(chan struct{}, 1),
		reload:  t.opts.Reload,
	}
	matrix.Logger().Info("host: terminal started", "cols", cols, "rows", rows)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		s.poll(cfg.MouseQuit)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		fini()
		return nil
	})
	g.Go(func() error {
		err := rain.Run(ctx, s.present)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// poll handles input until the user quits or the screen is finalized.
func (s *terminalSession) poll(mouseQuit bool) {
	var mq MouseQuit
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				matrix.Logger().Info("host: quit key pressed")
				return
			}
		case *tcell.EventResize:
			s.screen.Sync()
			select {
			case s.resized <- struct{}{}:
			default:
			}
		case *tcell.EventMouse:
			if mouseQuit && mq.Move(ev.When()) {
				matrix.Logger().Info("host: mouse moved")
				return
			}
		}
	}
}

// present draws snap. A snapshot taken before a resize or reload is
// dropped, the next tick draws the new layout.
func (s *terminalSession) present(snap *matrix.Snapshot) error {
	if s.reconfigure() {
		return nil
	}
	s.target.Clear()
	drawn := snap.Render(s.target)
	s.screen.Show()
	matrix.Logger().Debug("host: frame", "drawn", drawn, "glyphs", snap.Len())
	return nil
}

// reconfigure applies pending resizes and reloads and reports whether the
// layout changed.
func (s *terminalSession) reconfigure() bool {
	changed := false
	for {
		select {
		case <-s.resized:
			changed = true
		case cfg, ok := <-s.reload:
			if !ok {
				s.reload = nil
				continue
			}
			settings := cfg.Settings()
			if err := s.rain.Reload(settings); err != nil {
				matrix.Logger().Warn("host: reload rejected", "err", err)
				continue
			}
			s.target.Configure(settings)
			changed = true
		default:
			if changed {
				settings := s.rain.Settings()
				cols, rows := s.screen.Size()
				w, h := term.CanvasSize(cols, rows, settings)
				if err := s.rain.Resize(w, h); err != nil {
					matrix.Logger().Warn("host: resize rejected", "cols", cols, "rows", rows, "err", err)
				}
			}
			return changed
		}
	}
}
