package tui

import (
	"tiles-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Workspace string

	// Glyphs is "unicode" (icon font code points) or "ascii".
	Glyphs  string
	NoColor bool
}

// Run starts the interactive dashboard. sess must have been opened with a terminal presenter.
func Run(sess *session.Session, opts Options) error {
	applyColorProfilePreference(opts.NoColor)
	applyGlyphPreference(opts.Glyphs)

	sess.Icons.Load()
	m := newAppModel(sess, opts.Workspace)
	defer m.close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
