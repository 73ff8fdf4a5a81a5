// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package typeface loads the font the rain is drawn with.
//
// A font is named either by a built-in name or by a file path:
//
//	"", "mono"   Go Mono (golang.org/x/image/font/gofont/gomono); "1" is an alias
//	"regular"    Go Regular
//	"cjk"        the first installed system font covering kana and Han
//	other        a TTF/OTF/TTC file on disk
//
// Glyph coverage is checked against the font's cmap with go-text/typesetting
// so that characters the font cannot draw can be reported before the first
// frame instead of rendering as blank cells.
package typeface

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/matrix"
)

// Built-in font names.
const (
	Mono    = "mono"
	Regular = "regular"
	CJK     = "cjk"
)

// Sentinel errors for the typeface package.
var (
	// ErrNotFound is returned when a font file does not exist.
	ErrNotFound = errors.New("typeface: font not found")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("typeface: invalid font data")
)

// Typeface is a loaded font. It is safe for concurrent use.
type Typeface struct {
	name   string
	source *text.FontSource
	cmap   *font.Font
}

// Load resolves name to a built-in font or a font file and parses it.
func Load(name string) (*Typeface, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Mono, "1":
		return Parse(Mono, gomono.TTF)
	case Regular:
		return Parse(Regular, goregular.TTF)
	case CJK:
		return loadCJK(systemCJKFonts())
	}

	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("typeface: read %s: %w", name, err)
	}
	return Parse(name, data)
}

// Parse builds a typeface from TTF/OTF data or a font collection.
func Parse(name string, data []byte) (*Typeface, error) {
	source, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFont, name, err)
	}
	// Collections are read through their first face, as gg does.
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err == nil && len(faces) == 0 {
		err = errors.New("empty collection")
	}
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFont, name, err)
	}

	tf := &Typeface{name: name, source: source, cmap: faces[0].Font}
	matrix.Logger().Info("typeface: loaded", "name", name, "family", source.Name())
	return tf, nil
}

// Name returns the name the typeface was loaded with.
func (t *Typeface) Name() string { return t.name }

// Family returns the family name stored in the font.
func (t *Typeface) Family() string { return t.source.Name() }

// Face returns a face of the given pixel size.
func (t *Typeface) Face(size float64) text.Face { return t.source.Face(size) }

// Covers reports whether the font maps r to a glyph.
func (t *Typeface) Covers(r rune) bool {
	_, ok := t.cmap.NominalGlyph(r)
	return ok
}

// Missing returns the runes of alphabet the font cannot draw, in order.
func (t *Typeface) Missing(alphabet []rune) []rune {
	var missing []rune
	for _, r := range alphabet {
		if !t.Covers(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Filter drops the runes the font cannot draw and logs them. It returns
// nil when the font covers no rune of the alphabet.
func (t *Typeface) Filter(alphabet []rune) []rune {
	missing := t.Missing(alphabet)
	if len(missing) == 0 {
		return alphabet
	}
	if len(missing) == len(alphabet) {
		matrix.Logger().Error("typeface: font covers no character of the alphabet",
			"font", t.name, "alphabet", string(alphabet))
		return nil
	}

	matrix.Logger().Warn("typeface: dropping characters missing from font",
		"font", t.name, "missing", string(missing))
	kept := make([]rune, 0, len(alphabet)-len(missing))
	for _, r := range alphabet {
		if t.Covers(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Close releases the font source.
func (t *Typeface) Close() error { return t.source.Close() }

var shaperOnce sync.Once

// EnableShaping installs the HarfBuzz-based go-text shaper for all gg text
// drawing. Alphabets outside Latin render with correct glyph selection only
// with it. Calling it more than once has no further effect.
func EnableShaping() {
	shaperOnce.Do(func() {
		text.SetShaper(text.NewGoTextShaper())
	})
}
