// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import "strings"

// screensaverArgs translates the arguments Windows passes to a screensaver:
// /s runs it, /c opens its settings and /p asks for a preview, which is
// not supported. Matching is case-insensitive and ignores suffixes such
// as the window handle in "/p:1234". Other arguments pass through.
func screensaverArgs(args []string) (out []string, exit bool) {
	out = make([]string, 0, len(args))
	for _, arg := range args {
		switch lower := strings.ToLower(arg); {
		case strings.HasPrefix(lower, "/p"):
			return nil, true
		case strings.HasPrefix(lower, "/c"):
			return []string{"settings", "show"}, false
		case strings.HasPrefix(lower, "/s"):
		default:
			out = append(out, arg)
		}
	}
	return out, false
}
