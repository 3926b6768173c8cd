// Package session opens a workspace's stores for one process.
package session

import (
	"context"
	"errors"
	"strings"

	"tiles-cli/internal/icons"
	"tiles-cli/internal/instances"
	"tiles-cli/internal/store"
	"tiles-cli/internal/theme"
)

type Options struct {
	Dir     string
	Storage store.BackendKind

	// IconsFile replaces the bundled icon metadata when set.
	IconsFile string

	// Presenter receives theme changes. Nil means no presentation root: the theme is read
	// but never applied, and nothing is written on open.
	Presenter theme.Presenter
	Ambient   theme.Ambient
}

// Session holds the three stores of one workspace.
type Session struct {
	Dir       string
	Backend   store.Backend
	Instances *instances.Registry
	Theme     *theme.Preference
	Icons     *icons.Catalog
}

func Open(ctx context.Context, opts Options) (*Session, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" && opts.Storage != store.BackendMemory {
		return nil, errors.New("session: dir is empty")
	}
	backend, err := (store.Store{Dir: dir}).Open(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}
	reg, err := instances.Open(backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	pref, err := theme.Open(backend, opts.Presenter, opts.Ambient)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return &Session{
		Dir:       dir,
		Backend:   backend,
		Instances: reg,
		Theme:     pref,
		// Not loaded yet: surfaces call Icons.Load when they need the catalog.
		Icons: icons.NewCatalog(icons.SourceFor(opts.IconsFile)),
	}, nil
}

// Sync reloads instances and theme written by other processes. It reports whether anything changed.
func (s *Session) Sync() (bool, error) {
	a, err := s.Instances.Reload()
	if err != nil {
		return false, err
	}
	b, err := s.Theme.Sync()
	if err != nil {
		return a, err
	}
	return a || b, nil
}

func (s *Session) Close() error {
	if s == nil || s.Backend == nil {
		return nil
	}
	return s.Backend.Close()
}
