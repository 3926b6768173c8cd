package theme

import (
	"sort"
	"strings"
	"sync"

	"tiles-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// ClassList is a set of class markers on a presentation root (the web UI's <body>).
// Applying a theme removes every theme marker and adds exactly one.
type ClassList struct {
	mu      sync.RWMutex
	classes map[string]struct{}
}

func NewClassList(base ...string) *ClassList {
	c := &ClassList{classes: map[string]struct{}{}}
	for _, name := range base {
		if name = strings.TrimSpace(name); name != "" {
			c.classes[name] = struct{}{}
		}
	}
	return c
}

func (c *ClassList) ApplyTheme(t model.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range model.Themes {
		delete(c.classes, string(m))
	}
	c.classes[string(t)] = struct{}{}
}

func (c *ClassList) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.classes[name]
	return ok
}

// Classes returns the markers in sorted order.
func (c *ClassList) Classes() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.classes))
	for name := range c.classes {
		out = append(out, name)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// String renders the list as a class attribute value.
func (c *ClassList) String() string {
	return strings.Join(c.Classes(), " ")
}

// Presenters applies a theme to each presenter in order.
type Presenters []Presenter

func (ps Presenters) ApplyTheme(t model.Theme) {
	for _, p := range ps {
		if p != nil {
			p.ApplyTheme(t)
		}
	}
}

// TerminalPresenter points lipgloss's adaptive colors at the theme.
type TerminalPresenter struct{}

func (TerminalPresenter) ApplyTheme(t model.Theme) {
	lipgloss.SetHasDarkBackground(t == model.ThemeDark)
}
