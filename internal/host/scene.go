// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"time"
	"unicode/utf8"

	"github.com/gogpu/gg"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/backend/raster"
	"github.com/gogpu/matrix/config"
	"github.com/gogpu/matrix/typeface"
)

// scene is the rain drawn onto a gg canvas of window size. The rain itself
// runs at the logical size and the raster target scales it up.
type scene struct {
	cfg    config.Config
	font   *typeface.Typeface
	rain   *matrix.Rain
	target *raster.Target

	width, height int
	background    matrix.Color
	fade          uint8

	// painted is false until the canvas holds a full frame that the trail
	// can fade over.
	painted bool
}

func newScene(cfg config.Config, w, h int, engine []matrix.Option) (*scene, error) {
	font, err := loadFont(cfg.Font)
	if err != nil {
		return nil, err
	}
	s := &scene{cfg: cfg, font: font, width: w, height: h, target: raster.New(nil, nil)}

	lw, lh, scale := LogicalSize(w, h, cfg.LogicalSize)
	s.rain, err = matrix.New(s.settings(), lw, lh, engine...)
	if err != nil {
		_ = font.Close()
		return nil, err
	}
	s.setScale(scale)
	return s, nil
}

// loadFont falls back to the built-in font when name cannot be loaded.
func loadFont(name string) (*typeface.Typeface, error) {
	tf, err := typeface.Load(name)
	if err == nil {
		return tf, nil
	}
	matrix.Logger().Warn("host: font unavailable, using built-in", "font", name, "err", err)
	return typeface.Load(typeface.Mono)
}

// settings derives the engine settings from cfg for the current font.
func (s *scene) settings() matrix.Settings {
	st := s.cfg.Settings()
	if alphabet := s.font.Filter(st.Alphabet); len(alphabet) > 0 {
		st.Alphabet = alphabet
	} else if fallback := s.font.Filter([]rune(config.Default().Characters)); len(fallback) > 0 {
		matrix.Logger().Warn("host: using the default alphabet", "font", s.font.Name(),
			"alphabet", string(fallback))
		st.Alphabet = fallback
	}
	if !isASCII(st.Alphabet) {
		typeface.EnableShaping()
	}
	s.background = st.Background
	s.fade = raster.TrailAlpha(st.FadeStep)
	return st
}

func isASCII(alphabet []rune) bool {
	for _, r := range alphabet {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (s *scene) setScale(scale float64) {
	s.target.SetScale(scale)
	s.target.SetFace(s.font.Face(float64(s.cfg.FontSize) * scale))
}

// resize follows a window resize.
func (s *scene) resize(w, h int) error {
	if w == s.width && h == s.height {
		return nil
	}
	lw, lh, scale := LogicalSize(w, h, s.cfg.LogicalSize)
	if err := s.rain.Resize(lw, lh); err != nil {
		return err
	}
	s.width, s.height = w, h
	s.setScale(scale)
	s.painted = false
	return nil
}

// reload adopts cfg. On failure the previous configuration stays in effect.
func (s *scene) reload(cfg config.Config) error {
	prevCfg, prevFont := s.cfg, s.font
	font := prevFont
	if cfg.Font != prevCfg.Font {
		f, err := loadFont(cfg.Font)
		if err != nil {
			return err
		}
		font = f
	}

	s.cfg, s.font = cfg, font
	if err := s.rain.Reload(s.settings()); err != nil {
		if font != prevFont {
			_ = font.Close()
		}
		s.cfg, s.font = prevCfg, prevFont
		s.settings()
		return err
	}

	lw, lh, scale := LogicalSize(s.width, s.height, cfg.LogicalSize)
	if err := s.rain.Resize(lw, lh); err != nil {
		matrix.Logger().Warn("host: logical size rejected", "err", err)
	}
	s.setScale(scale)
	if font != prevFont {
		_ = prevFont.Close()
	}
	s.painted = false
	return nil
}

// drainReloads applies every configuration waiting on ch.
func (s *scene) drainReloads(ch <-chan config.Config) {
	for {
		select {
		case cfg, ok := <-ch:
			if !ok {
				return
			}
			if err := s.reload(cfg); err != nil {
				matrix.Logger().Warn("host: reload rejected", "err", err)
			}
		default:
			return
		}
	}
}

// due reports whether a draw at now would produce a new frame.
func (s *scene) due(now time.Time) bool {
	return s.rain.Scheduler().Due(now)
}

// draw advances the rain to now and, when it ticked, paints the new frame
// onto dc. It returns the number of glyph passes drawn.
func (s *scene) draw(dc *gg.Context, now time.Time) (ticked bool, drawn int, err error) {
	if !s.rain.Step(now) {
		return false, 0, nil
	}
	s.target.SetContext(dc)
	if s.cfg.Trail && s.painted {
		if err := s.target.Fade(s.background, s.fade); err != nil {
			return true, 0, err
		}
	} else {
		s.target.Clear(s.background)
		s.painted = true
	}
	drawn = s.rain.Render(s.target)
	matrix.Logger().Debug("host: frame", "drawn", drawn, "ticks", s.rain.Scheduler().Ticks())
	return true, drawn, nil
}

func (s *scene) close() error {
	return s.font.Close()
}
