// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/matrix"
	"github.com/gogpu/matrix/config"
)

// execute runs the CLI with args against a config file in a temp dir.
func execute(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { matrix.SetLogger(nil) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", path, "--log-level", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), config.FileName)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, tempConfig(t), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if want := "matrix " + matrix.Version; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSettingsPath(t *testing.T) {
	path := tempConfig(t)
	out, err := execute(t, path, "settings", "path")
	if err != nil {
		t.Fatalf("settings path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("output = %q, want %q", out, path)
	}
}

func TestSettingsSetShow(t *testing.T) {
	path := tempConfig(t)
	if _, err := execute(t, path, "settings", "set", "font_size", "20"); err != nil {
		t.Fatalf("settings set: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FontSize != 20 {
		t.Errorf("saved font_size = %d, want 20", cfg.FontSize)
	}

	out, err := execute(t, path, "settings", "show")
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(out, "font_size = 20") {
		t.Errorf("show output missing font_size = 20:\n%s", out)
	}
}

func TestSettingsSetClamps(t *testing.T) {
	path := tempConfig(t)
	out, err := execute(t, path, "settings", "set", "font_size", "1")
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if !strings.Contains(out, "font_size = 4") {
		t.Errorf("output = %q, want clamped font_size = 4", out)
	}
}

func TestSettingsSetErrors(t *testing.T) {
	path := tempConfig(t)
	if _, err := execute(t, path, "settings", "set", "nope", "1"); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("unknown key error = %v, want ErrUnknownKey", err)
	}
	if _, err := execute(t, path, "settings", "set", "font_size", "big"); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("bad value error = %v, want ErrInvalidValue", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed set wrote the config file: %v", err)
	}
}

func TestSettingsReset(t *testing.T) {
	path := tempConfig(t)
	if _, err := execute(t, path, "settings", "set", "spacing", "7"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, path, "settings", "reset"); err != nil {
		t.Fatalf("settings reset: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("after reset = %+v, want defaults", cfg)
	}
}

func TestSettingsPresets(t *testing.T) {
	path := tempConfig(t)
	out, err := execute(t, path, "settings", "presets")
	if err != nil {
		t.Fatalf("settings presets: %v", err)
	}
	for _, p := range config.Presets() {
		if !strings.Contains(out, p.Name) {
			t.Errorf("preset list missing %q", p.Name)
		}
	}

	if _, err := execute(t, path, "settings", "presets", "KATAKANA"); err != nil {
		t.Fatalf("apply preset: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := config.LookupPreset("katakana")
	if cfg.Characters != want.Characters {
		t.Errorf("characters = %q, want %q", cfg.Characters, want.Characters)
	}

	if _, err := execute(t, path, "settings", "presets", "klingon"); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("unknown preset error = %v, want ErrUnknownPreset", err)
	}
}

func TestSnapshotCmd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "rain.png")
	stdout, err := execute(t, filepath.Join(dir, config.FileName),
		"snapshot", "--out", out, "--width", "96", "--height", "64", "--frames", "4", "--seed", "9")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(stdout, "wrote "+out) {
		t.Errorf("output = %q", stdout)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("snapshot file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
		t.Errorf("image size = %dx%d, want 96x64", b.Dx(), b.Dy())
	}

	// The default background is black; anything lit is a glyph.
	lit := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r|g|bl != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("snapshot holds only the background color")
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := execute(t, tempConfig(t), "--backend", "hologram")
	if err == nil || !strings.Contains(err.Error(), "hologram") {
		t.Fatalf("error = %v, want unknown host", err)
	}
	if !strings.Contains(err.Error(), "available: ") || !strings.Contains(err.Error(), "png") {
		t.Errorf("error = %v, want the available hosts listed", err)
	}
}

func TestHostsCmd(t *testing.T) {
	out, err := execute(t, tempConfig(t), "hosts")
	if err != nil {
		t.Fatalf("hosts: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("hosts output = %q, want 3 lines", out)
	}
	for i, name := range []string{"window", "terminal", "png"} {
		if !strings.HasPrefix(lines[i], name) {
			t.Errorf("line %d = %q, want %s first", i, lines[i], name)
		}
	}
	if !strings.Contains(lines[2], "10  available") {
		t.Errorf("png line = %q, want priority 10 and available", lines[2])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		off     bool
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false, false},
		{"INFO", slog.LevelInfo, false, false},
		{"warn", slog.LevelWarn, false, false},
		{"error", slog.LevelError, false, false},
		{"", slog.LevelWarn, false, false},
		{"off", 0, true, false},
		{"loud", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, off, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && (got != tt.want || off != tt.off) {
				t.Errorf("parseLevel(%q) = %v, %v, want %v, %v", tt.in, got, off, tt.want, tt.off)
			}
		})
	}
}

func TestLogToFile(t *testing.T) {
	path := tempConfig(t)
	a := &app{level: slog.LevelInfo}
	closeLog, err := a.logToFile(path)
	if err != nil {
		t.Fatalf("logToFile: %v", err)
	}
	matrix.Logger().Info("hello from test")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "logs", logFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file = %q", data)
	}
}
