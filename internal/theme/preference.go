// Package theme holds the persisted light/dark preference and mirrors it onto a presentation root.
package theme

import (
	"tiles-cli/internal/model"
	"tiles-cli/internal/store"
)

// Presenter is the presentation root a theme is applied to.
//
// ApplyTheme runs while the preference holds its lock and must not call back into the Preference.
type Presenter interface {
	ApplyTheme(t model.Theme)
}

type PresenterFunc func(t model.Theme)

func (f PresenterFunc) ApplyTheme(t model.Theme) { f(t) }

// Ambient reports the host environment's color-scheme preference.
type Ambient interface {
	PrefersDark() bool
}

type AmbientFunc func() bool

func (f AmbientFunc) PrefersDark() bool { return f() }

// Preference is the persisted theme, stored under "theme".
type Preference struct {
	p         *store.Persisted[model.Theme]
	presenter Presenter
}

// Open restores the stored theme and, when a presenter is given, applies the initial theme to it once:
// the stored value if there is one, otherwise dark or light according to ambient.
// A nil ambient counts as "does not prefer dark". Without a presenter nothing is applied and an
// unset preference reads as dark.
func Open(backend store.Backend, presenter Presenter, ambient Ambient) (*Preference, error) {
	p, err := store.NewPersisted(backend, store.KeyTheme, model.ThemeDark,
		store.WithValidator(model.Theme.Valid))
	if err != nil {
		return nil, err
	}
	pr := &Preference{p: p, presenter: presenter}
	if presenter == nil {
		return pr, nil
	}

	initial := p.Get()
	if !p.Stored() {
		initial = model.ThemeLight
		if ambient != nil && ambient.PrefersDark() {
			initial = model.ThemeDark
		}
	}
	if err := pr.Set(initial); err != nil {
		return nil, err
	}
	return pr, nil
}

func (pr *Preference) Current() model.Theme { return pr.p.Get() }

// Stored reports whether a theme was found in storage when the preference was opened.
func (pr *Preference) Stored() bool { return pr.p.Stored() }

func (pr *Preference) Subscribe(fn func(model.Theme)) func() { return pr.p.Subscribe(fn) }

// Set applies t to the presenter, then persists and publishes it.
func (pr *Preference) Set(t model.Theme) error {
	if !t.Valid() {
		_, err := model.ParseTheme(string(t))
		return err
	}
	return pr.p.Update(func(model.Theme) model.Theme {
		pr.apply(t)
		return t
	})
}

// Toggle switches to the opposite of the current theme and returns it.
func (pr *Preference) Toggle() (model.Theme, error) {
	var next model.Theme
	err := pr.p.Update(func(cur model.Theme) model.Theme {
		next = cur.Opposite()
		pr.apply(next)
		return next
	})
	return next, err
}

// Sync picks up a theme written by another process. Like Set, it applies the theme before
// subscribers hear about it.
func (pr *Preference) Sync() (bool, error) {
	return pr.p.ReloadFunc(pr.apply)
}

func (pr *Preference) apply(t model.Theme) {
	if pr.presenter != nil {
		pr.presenter.ApplyTheme(t)
	}
}
