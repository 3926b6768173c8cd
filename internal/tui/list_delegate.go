package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// tileDelegate renders one instance per row: swatch, glyph, title, then the link, muted.
type tileDelegate struct{}

func (d tileDelegate) Height() int                             { return 1 }
func (d tileDelegate) Spacing() int                            { return 0 }
func (d tileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d tileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(tileItem)
	contentW := m.Width()
	if !ok || contentW < 8 {
		fmt.Fprint(w, "")
		return
	}
	selected := index == m.Index()

	swatch := " "
	if c, ok := swatchColor(it.inst.Color); ok {
		swatch = lipgloss.NewStyle().Foreground(c).Render(glyphSwatch())
	}
	glyph := lipgloss.NewStyle().Foreground(colorAccent).Render(tileGlyph(it.icon, it.found, it.inst.Title))

	title := strings.TrimSpace(it.inst.Title)
	if title == "" {
		title = "(untitled)"
	}
	titleSt := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if selected {
		titleSt = titleSt.Foreground(colorSelectedFg).Bold(true)
	}

	prefix := fmt.Sprintf(" %s %s ", swatch, glyph)
	line := prefix + titleSt.Render(title)
	if href := strings.TrimSpace(it.inst.Href); href != "" {
		line += "  " + styleMuted().Render(glyphArrow()+" "+href)
	}
	line = fitWidth(line, contentW)
	if selected {
		line = lipgloss.NewStyle().Background(colorSelectedBg).Render(line)
	}
	fmt.Fprint(w, line)
}

// iconDelegate renders picker rows: glyph, name, then the label.
type iconDelegate struct{}

func (d iconDelegate) Height() int                             { return 1 }
func (d iconDelegate) Spacing() int                            { return 0 }
func (d iconDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d iconDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(iconItem)
	contentW := m.Width()
	if !ok || contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	st := lipgloss.NewStyle()
	if index == m.Index() {
		st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	line := fmt.Sprintf(" %s %s", tileGlyph(it.icon, true, it.icon.Name), it.icon.Name)
	if it.icon.Label != "" && !strings.EqualFold(it.icon.Label, it.icon.Name) {
		line += "  " + it.icon.Label
	}
	if xansi.StringWidth(line) > contentW {
		line = truncate(line, contentW)
	}
	fmt.Fprint(w, st.Width(contentW).Render(line))
}
