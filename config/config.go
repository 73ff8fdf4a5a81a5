// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config persists the screensaver settings.
//
// Settings live in Config.toml inside the user configuration directory
// (see Dir). A missing file means defaults. Every key can be overridden
// from the environment as MATRIX_<KEY>, e.g. MATRIX_FONT_SIZE=16.
//
// A Config holds raw user values. Normalize clamps them into range and
// Settings converts them into the engine's matrix.Settings.
//
// The field has ceil(height / (font_size + spacing)) rows, so a partly
// visible bottom row is always laid out; row_margin adds rows below it.
// Columns are floor(width / (font_size + column_spacing)), plus one for a
// partly visible right edge when partial_column is set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mazznoer/csscolorparser"

	"github.com/gogpu/matrix"
)

// FileName is the name of the configuration file.
const FileName = "Config.toml"

// AppDir is the directory created under the user configuration directory.
const AppDir = "matrix"

// Sentinel errors for the config package.
var (
	// ErrUnknownKey is returned by Get and Set for keys Config does not have.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalidValue is returned by Set when a value cannot be parsed.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrUnknownPreset is returned for alphabet preset names that do not exist.
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// Config is the persisted configuration.
type Config struct {
	Characters   string  `toml:"characters" env:"MATRIX_CHARACTERS"`
	Font         string  `toml:"font" env:"MATRIX_FONT"`
	FontSize     int     `toml:"font_size" env:"MATRIX_FONT_SIZE"`
	Color        string  `toml:"color" env:"MATRIX_COLOR"`
	LightColor   string  `toml:"light_color" env:"MATRIX_LIGHT_COLOR"`
	LightSpeed   int     `toml:"light_speed" env:"MATRIX_LIGHT_SPEED"`
	Background   string  `toml:"background" env:"MATRIX_BACKGROUND"`
	FadeSpeed    int     `toml:"fade_speed" env:"MATRIX_FADE_SPEED"`
	Spacing      int     `toml:"spacing" env:"MATRIX_SPACING"`
	ColumnSpace  int     `toml:"column_spacing" env:"MATRIX_COLUMN_SPACING"`
	RowMargin    int     `toml:"row_margin" env:"MATRIX_ROW_MARGIN"`
	PartialCol   bool    `toml:"partial_column" env:"MATRIX_PARTIAL_COLUMN"`
	Fullscreen   bool    `toml:"fullscreen" env:"MATRIX_FULLSCREEN"`
	WindowWidth  int     `toml:"window_width" env:"MATRIX_WINDOW_WIDTH"`
	WindowHeight int     `toml:"window_height" env:"MATRIX_WINDOW_HEIGHT"`
	LogicalSize  int     `toml:"logical_size" env:"MATRIX_LOGICAL_SIZE"`
	MutationRate float64 `toml:"mutation_rate" env:"MATRIX_MUTATION_RATE"`
	FrameDelay   int     `toml:"frame_delay" env:"MATRIX_FRAME_DELAY"`
	MouseQuit    bool    `toml:"mouse_quit" env:"MATRIX_MOUSE_QUIT"`
	IdleDelayMin int     `toml:"idle_delay_min" env:"MATRIX_IDLE_DELAY_MIN"`
	IdleDelayMax int     `toml:"idle_delay_max" env:"MATRIX_IDLE_DELAY_MAX"`
	Trail        bool    `toml:"trail" env:"MATRIX_TRAIL"`
}

// Default color strings.
const (
	DefaultColor      = "rgb(0, 255, 70)"
	DefaultLightColor = "white"
	DefaultBackground = "black"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Characters:   "01",
		Font:         "mono",
		FontSize:     12,
		Color:        DefaultColor,
		LightColor:   DefaultLightColor,
		LightSpeed:   200,
		Background:   DefaultBackground,
		FadeSpeed:    10,
		Spacing:      0,
		Fullscreen:   true,
		WindowWidth:  900,
		WindowHeight: 600,
		LogicalSize:  640,
		MutationRate: 0.001,
		FrameDelay:   50,
		MouseQuit:    true,
		IdleDelayMin: 0,
		IdleDelayMax: 6000,
		Trail:        true,
	}
}

// Dir returns the directory holding the configuration file.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
// Keys the file does not set keep their default value.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		matrix.Logger().Warn("config: ignoring unknown keys", "path", path, "keys", keys)
	}
	return c, nil
}

// Save writes c to path atomically, creating the directory if needed.
func (c Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: replace %s: %w", path, err)
	}
	return nil
}

// Value ranges enforced by Normalize.
const (
	minFontSize    = 4
	maxFontSize    = 512
	maxSpacing     = 512
	maxRowMargin   = 64
	minWindow      = 64
	maxWindow      = 16384
	maxFrameDelay  = 10000
	maxIdleDelayMs = 60000
)

// Normalize clamps every value into its valid range and sanitizes the
// alphabet. Empty color strings fall back to the defaults.
func (c *Config) Normalize() {
	c.Characters = Sanitize(c.Characters)
	if c.Characters == "" {
		c.Characters = Default().Characters
	}
	c.Font = strings.TrimSpace(c.Font)

	c.FontSize = clamp(c.FontSize, minFontSize, maxFontSize)
	c.Spacing = clamp(c.Spacing, 0, maxSpacing)
	c.ColumnSpace = clamp(c.ColumnSpace, 0, maxSpacing)
	c.RowMargin = clamp(c.RowMargin, 0, maxRowMargin)
	c.LightSpeed = clamp(c.LightSpeed, 1, 255)
	c.FadeSpeed = clamp(c.FadeSpeed, 1, 255)
	c.WindowWidth = clamp(c.WindowWidth, minWindow, maxWindow)
	c.WindowHeight = clamp(c.WindowHeight, minWindow, maxWindow)
	c.LogicalSize = clamp(c.LogicalSize, 0, maxWindow)
	c.FrameDelay = clamp(c.FrameDelay, 1, maxFrameDelay)

	if math.IsNaN(c.MutationRate) {
		c.MutationRate = Default().MutationRate
	}
	c.MutationRate = math.Min(1, math.Max(0, c.MutationRate))

	c.IdleDelayMin = clamp(c.IdleDelayMin, 0, maxIdleDelayMs)
	c.IdleDelayMax = clamp(c.IdleDelayMax, c.IdleDelayMin, maxIdleDelayMs)

	for _, s := range []*string{&c.Color, &c.LightColor, &c.Background} {
		*s = strings.TrimSpace(*s)
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.LightColor == "" {
		c.LightColor = DefaultLightColor
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

// Settings converts a normalized copy of c into engine settings. Colors
// that fail to parse are replaced by their defaults with a warning.
func (c Config) Settings() matrix.Settings {
	c.Normalize()
	return matrix.Settings{
		Alphabet:      []rune(c.Characters),
		Color:         parseColor("color", c.Color, matrix.MatrixGreen),
		FlashColor:    parseColor("light_color", c.LightColor, matrix.White),
		Background:    parseColor("background", c.Background, matrix.Black),
		FontSize:      c.FontSize,
		Spacing:       c.Spacing,
		ColumnSpacing: c.ColumnSpace,
		RowMargin:     c.RowMargin,
		PartialColumn: c.PartialCol,
		FadeStep:      c.FadeSpeed,
		FlashStep:     c.LightSpeed,
		MutationRate:  c.MutationRate,
		TickInterval:  time.Duration(c.FrameDelay) * time.Millisecond,
		IdleDelay: matrix.DelayRange{
			Min: time.Duration(c.IdleDelayMin) * time.Millisecond,
			Max: time.Duration(c.IdleDelayMax) * time.Millisecond,
		},
	}
}

// ParseColor parses a CSS color string: names, #hex, rgb(), hsl() and so on.
func ParseColor(s string) (matrix.Color, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return matrix.Color{}, fmt.Errorf("%w: color %q: %w", ErrInvalidValue, s, err)
	}
	r, g, b, a := c.RGBA255()
	return matrix.Color{R: r, G: g, B: b, A: a}, nil
}

func parseColor(key, s string, fallback matrix.Color) matrix.Color {
	c, err := ParseColor(s)
	if err != nil {
		matrix.Logger().Warn("config: invalid color, using default", "key", key, "value", s, "err", err)
		return fallback
	}
	return c
}
