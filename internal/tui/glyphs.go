package tui

import (
	"os"
	"strings"
	"sync/atomic"
)

// Glyphs degrade to ASCII for terminals/fonts without the unicode set.

var asciiGlyphs atomic.Bool

func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(configured))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(os.Getenv("COTO_TUI_GLYPHS")))
	}
	asciiGlyphs.Store(v == "ascii")
}

func glyphPosting() string {
	if asciiGlyphs.Load() {
		return "~"
	}
	return "◌"
}

func glyphActive() string {
	if asciiGlyphs.Load() {
		return ">"
	}
	return "▌"
}

func glyphCurrent() string {
	if asciiGlyphs.Load() {
		return "*"
	}
	return "●"
}

func glyphRoom() string {
	if asciiGlyphs.Load() {
		return "#"
	}
	return "◆"
}
