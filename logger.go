// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with a running animation.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for matrix and all its sub-packages.
// By default, matrix produces no log output. Call SetLogger to enable logging.
//
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by matrix:
//   - [slog.LevelDebug]: per-frame diagnostics (draw pass counts, field rebuilds)
//   - [slog.LevelInfo]: lifecycle events (backend selected, font loaded, config reloaded)
//   - [slog.LevelWarn]: recoverable issues (bad colors, runes missing from the font)
//
// Example:
//
//	matrix.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by matrix.
// Sub-packages (config/, typeface/, backend/, internal/host/) call this to
// share the same logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
