// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"github.com/gogpu/matrix"
)

const logFileName = "matrix.log"

// parseLevel maps a --log-level value to a slog level. "off" disables
// logging.
func parseLevel(s string) (level slog.Level, off bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return 0, true, nil
	case "":
		return slog.LevelWarn, false, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, false, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, false, nil
}

func (a *app) setupLogging(w io.Writer) error {
	level, off, err := parseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.level, a.logOff = level, off
	a.installLogger(w)
	return nil
}

// installLogger routes the engine's and gg's logs to w.
func (a *app) installLogger(w io.Writer) {
	var l *slog.Logger
	if !a.logOff {
		l = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: a.level}))
	}
	matrix.SetLogger(l)
	gg.SetLogger(l)
}

// logToFile moves logging into logs/matrix.log next to the configuration,
// keeping the terminal free for the rain. The returned function closes
// the file.
func (a *app) logToFile(configPath string) (func() error, error) {
	if a.logOff {
		return func() error { return nil }, nil
	}
	dir := filepath.Join(filepath.Dir(configPath), "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.installLogger(f)
	return func() error {
		matrix.SetLogger(nil)
		gg.SetLogger(nil)
		return f.Close()
	}, nil
}
