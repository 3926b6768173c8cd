package model

import (
	"fmt"
	"strings"
)

// Instance is a user-created dashboard shortcut.
//
// Icon refers to an Icon by name and is not validated against the catalog.
type Instance struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Href  string `json:"href"`
	Color string `json:"color"`
	ID    string `json:"id"`
}

// Icon is a read-only glyph description derived from icon-family metadata.
type Icon struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Unicode string    `json:"unicode"`
	Styles  []string  `json:"styles"`
	ViewBox []float64 `json:"viewBox"`
	SVGPath string    `json:"svgPath"`
	Terms   []string  `json:"terms"`
}

// Glyph returns the icon's code point as a string, or "" when unicode is not a valid hex code point.
func (i Icon) Glyph() string {
	var r rune
	if _, err := fmt.Sscanf(strings.TrimSpace(i.Unicode), "%x", &r); err != nil || r <= 0 {
		return ""
	}
	return string(r)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Themes lists every theme marker, in display order.
var Themes = []Theme{ThemeLight, ThemeDark}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme. Anything that is not light toggles to light.
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid theme: %q (expected light|dark)", s)
	}
	return t, nil
}
