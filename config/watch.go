// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/matrix"
)

// debounce collapses the bursts of events editors produce on save.
const debounce = 150 * time.Millisecond

// Watch calls fn with the reloaded configuration every time path changes,
// until ctx is done. The directory is watched rather than the file so that
// editors replacing the file by rename are noticed too. A file that fails
// to parse is reported to fn with its error.
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}
	matrix.Logger().Debug("config: watching", "dir", dir)

	target := filepath.Clean(path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			matrix.Logger().Warn("config: watcher error", "err", err)

		case <-fire:
			fire = nil
			c, err := LoadWithEnv(path)
			if err == nil {
				matrix.Logger().Info("config: reloaded", "path", path)
			}
			fn(c, err)
		}
	}
}
