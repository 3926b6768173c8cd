package store

import (
	"context"
	"os"
	"path/filepath"
)

const (
	sqliteFileName = "local.sqlite"

	// Storage keys of the workspace's local storage.
	KeyInstances = "instances"
	KeyTheme     = "theme"
)

// Store is a workspace directory.
type Store struct {
	Dir string
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) SQLitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Open returns the workspace's local storage.
func (s Store) Open(ctx context.Context, kind BackendKind) (Backend, error) {
	switch kind {
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		if err := s.Ensure(); err != nil {
			return nil, err
		}
		return OpenSQLiteBackend(ctx, s.SQLitePath())
	}
}
