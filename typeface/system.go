// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package typeface

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/matrix"
)

// cjkSample must be covered for a font to serve the CJK presets.
var cjkSample = []rune("ア中")

// cjkFonts are CJK-capable font files, most preferred first.
var cjkFonts = []string{
	// Linux
	"NotoSansCJK-Regular.ttc",
	"NotoSansCJKjp-Regular.otf",
	"NotoSansCJKsc-Regular.otf",
	"NotoSerifCJK-Regular.ttc",
	"NotoSansJP-Regular.otf",
	"NotoSansSC-Regular.otf",
	"SourceHanSans-Regular.ttc",
	"SourceHanSansJP-Regular.otf",
	"wqy-zenhei.ttc",
	"wqy-microhei.ttc",
	"DroidSansFallbackFull.ttf",
	"DroidSansFallback.ttf",
	"ipag.ttf",
	"fonts-japanese-gothic.ttf",
	// macOS
	"Hiragino Sans GB.ttc",
	"PingFang.ttc",
	"Arial Unicode.ttf",
	// Windows
	"msgothic.ttc",
	"YuGothR.ttc",
	"msyh.ttc",
	"simsun.ttc",
}

// fontDirs returns the directories searched for system fonts.
func fontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = append(dirs, filepath.Join(windir, "Fonts"))
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/System/Library/Fonts", "/Library/Fonts")
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			dirs = append(dirs, filepath.Join(data, "fonts"))
		} else if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"))
		}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".fonts"))
		}
		dirs = append(dirs, "/usr/local/share/fonts", "/usr/share/fonts")
	}
	return dirs
}

// findFonts walks dirs and returns the files whose base name is in names,
// case-insensitively, ordered by their position in names.
func findFonts(dirs, names []string) []string {
	rank := make(map[string]int, len(names))
	for i, n := range names {
		rank[strings.ToLower(n)] = i
	}

	type hit struct {
		path string
		rank int
	}
	var hits []hit
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if r, ok := rank[strings.ToLower(d.Name())]; ok {
				hits = append(hits, hit{path: path, rank: r})
			}
			return nil
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })
	paths := make([]string, len(hits))
	for i, h := range hits {
		paths[i] = h.path
	}
	return paths
}

var systemCJKFonts = sync.OnceValue(func() []string {
	return findFonts(fontDirs(), cjkFonts)
})

// loadCJK returns the first of paths that covers the sample runes.
func loadCJK(paths []string) (*Typeface, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			matrix.Logger().Debug("typeface: skipping font", "path", path, "err", err)
			continue
		}
		tf, err := Parse(path, data)
		if err != nil {
			matrix.Logger().Debug("typeface: skipping font", "path", path, "err", err)
			continue
		}
		if missing := tf.Missing(cjkSample); len(missing) > 0 {
			matrix.Logger().Debug("typeface: skipping font without CJK coverage", "path", path)
			_ = tf.Close()
			continue
		}
		tf.name = CJK
		matrix.Logger().Info("typeface: using system CJK font", "path", path)
		return tf, nil
	}
	return nil, fmt.Errorf("%w: no installed font covers %q", ErrNotFound, string(cjkSample))
}
