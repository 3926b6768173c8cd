package tui

import (
	"strings"
	"sync"
	"unicode"

	"tiles-cli/internal/model"
)

// Terminals can't change the user's font. Icon code points only render with an icon font (e.g. a
// Nerd Font); the ASCII set falls back to the tile's initial.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// tileGlyph is the one-cell mark shown in front of a tile.
func tileGlyph(icon model.Icon, found bool, title string) string {
	if found && glyphs() == glyphSetUnicode {
		if g := icon.Glyph(); g != "" {
			return g
		}
	}
	for _, r := range strings.TrimSpace(title) {
		return string(unicode.ToUpper(r))
	}
	return glyphBullet()
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphSwatch() string {
	if glyphs() == glyphSetASCII {
		return "#"
	}
	return "█"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}
