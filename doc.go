// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package matrix implements the "digital rain" animation engine.
//
// # Overview
//
// The engine simulates falling columns of mutating glyphs. Each glyph is
// drawn twice at the same cell: an ink pass in the base color and a flash
// pass in the highlight color. Both passes fade independently; a glyph is
// dropped once both are fully transparent. A column spawns one glyph per
// tick from top to bottom, waits for its glyphs to fade, then pauses for a
// random idle delay before it starts over.
//
// # Quick Start
//
//	import "github.com/gogpu/matrix"
//
//	s := matrix.DefaultSettings()
//	r, err := matrix.New(s, 640, 480, matrix.WithSeed(1))
//	if err != nil {
//		return err
//	}
//
//	// Host loop: tick when due, draw through any Target.
//	ticked, drawn := r.StepAndRender(time.Now(), target)
//
// # Architecture
//
// The package is organized into:
//   - Model: Glyph, Column, Field, Geometry
//   - Timing: Scheduler, Clock, LoadProbe
//   - Ownership: Rain serializes ticks, renders, resizes and reloads
//   - Drawing: Target is the only capability the engine needs
//
// Backends implementing Target live in backend/raster (gogpu/gg) and
// backend/term (tcell). Settings are normally produced by package config.
//
// # Coordinate System
//
// Glyph positions are the top-left corner of their cell in canvas pixels:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Randomness
//
// Every column owns its random source, so columns never share state and
// may be ticked in parallel (see WithParallelism). WithSeed makes a run
// reproducible.
package matrix

// Version information
const (
	// Version is the current version of the engine
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
