// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/gogpu/gg"
	_ "github.com/gogpu/gg/gpu" // GPU accelerator for canvas uploads and text
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
)

const windowTitle = "Matrix"

func init() {
	Register("window", 100, newWindow, hasDisplay)
}

// hasDisplay reports whether a window can be opened.
func hasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// window renders into a gogpu window through a gg canvas.
type window struct {
	opts Options
}

func newWindow(opts Options) (Host, error) {
	return &window{opts: opts}, nil
}

// appConfig builds the gogpu window configuration for cfg.
func appConfig(cfg config.Config) gogpu.Config {
	c := gogpu.DefaultConfig().
		WithTitle(windowTitle).
		WithSize(cfg.WindowWidth, cfg.WindowHeight).
		WithContinuousRender(false)
	if cfg.Fullscreen {
		c = c.WithFullscreen()
	}
	return c
}

// controls maps window input to host actions: Escape quits, F11 toggles
// fullscreen and sustained pointer movement quits when enabled.
type controls struct {
	mouseQuit        bool
	mq               MouseQuit
	quit             func()
	toggleFullscreen func()
}

func (c *controls) key(key gpucontext.Key) {
	switch key {
	case gpucontext.KeyEscape:
		matrix.Logger().Info("host: escape pressed")
		c.quit()
	case gpucontext.KeyF11:
		c.toggleFullscreen()
		// The window moves under the pointer.
		c.mq.Reset()
	}
}

func (c *controls) mouseMove(now time.Time) {
	if c.mouseQuit && c.mq.Move(now) {
		matrix.Logger().Info("host: mouse moved, quitting")
		c.quit()
	}
}

func (w *window) Run(ctx context.Context) error {
	cfg := w.opts.Config
	app := gogpu.NewApp(appConfig(cfg))
	defer gg.CloseAccelerator()

	var (
		canvas *ggcanvas.Canvas
		sc     *scene
		anim   *gogpu.AnimationToken
		runErr error
	)
	fail := func(err error) {
		if runErr == nil {
			runErr = err
		}
		app.Quit()
	}
	defer func() {
		if anim != nil {
			anim.Stop()
		}
		if canvas != nil {
			_ = canvas.Close()
		}
		if sc != nil {
			_ = sc.close()
		}
	}()

	app.OnDraw(func(dc *gogpu.Context) {
		if ctx.Err() != nil {
			app.Quit()
			return
		}
		if anim == nil {
			anim = app.StartAnimation()
			matrix.Logger().Info("host: window started", "backend", dc.Backend())
		}

		width, height := dc.Width(), dc.Height()
		if width <= 0 || height <= 0 {
			return
		}

		if canvas == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			if canvas, err = ggcanvas.New(provider, width, height); err != nil {
				fail(err)
				return
			}
		}
		if sc == nil {
			var err error
			if sc, err = newScene(cfg, width, height, w.opts.Engine); err != nil {
				fail(err)
				return
			}
		}

		if cw, ch := canvas.Size(); cw != width || ch != height {
			if err := canvas.Resize(width, height); err != nil {
				matrix.Logger().Warn("host: canvas resize failed", "err", err)
			}
		}
		if err := sc.resize(width, height); err != nil {
			matrix.Logger().Warn("host: resize rejected", "width", width, "height", height, "err", err)
		}
		sc.drainReloads(w.opts.Reload)

		now := time.Now()
		if sc.due(now) {
			var drawErr error
			if err := canvas.Draw(func(cc *gg.Context) {
				_, _, drawErr = sc.draw(cc, now)
			}); err != nil {
				fail(err)
				return
			}
			if drawErr != nil {
				matrix.Logger().Warn("host: trail fade failed", "err", drawErr)
			}
		}

		if err := canvas.RenderTo(dc.AsTextureDrawer()); err != nil {
			matrix.Logger().Warn("host: present failed", "err", err)
		}
	})

	in := &controls{
		mouseQuit:        cfg.MouseQuit,
		quit:             app.Quit,
		toggleFullscreen: app.ToggleFullscreen,
	}
	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		in.key(key)
	})
	events.OnMouseMove(func(_, _ float64) {
		in.mouseMove(time.Now())
	})

	if err := app.Run(); err != nil {
		return err
	}
	return runErr
}
