package session

import (
	"context"
	"testing"

	"tiles-cli/internal/model"
	"tiles-cli/internal/store"
	"tiles-cli/internal/theme"
)

func TestOpen_TwoSessionsShareWorkspace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	root := theme.NewClassList()
	a, err := Open(ctx, Options{Dir: dir, Storage: store.BackendSQLite, Presenter: root, Ambient: theme.AmbientFunc(func() bool { return true })})
	if err != nil {
		t.Fatalf("Open(a): %v", err)
	}
	defer a.Close()
	if a.Icons.Loaded() {
		t.Fatalf("expected catalog to stay unloaded until asked")
	}

	b, err := Open(ctx, Options{Dir: dir, Storage: store.BackendSQLite})
	if err != nil {
		t.Fatalf("Open(b): %v", err)
	}
	defer b.Close()

	if err := b.Instances.Add(model.Instance{ID: "x", Title: "X"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Theme.Set(model.ThemeLight); err != nil {
		t.Fatalf("Set: %v", err)
	}

	changed, err := a.Sync()
	if err != nil || !changed {
		t.Fatalf("Sync = (%v, %v)", changed, err)
	}
	if got := a.Instances.List(); len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected synced instances; got %#v", got)
	}
	if a.Theme.Current() != model.ThemeLight || !root.Has("light") || root.Has("dark") {
		t.Fatalf("expected synced theme on root; current=%q root=%v", a.Theme.Current(), root.Classes())
	}

	if changed, err := a.Sync(); err != nil || changed {
		t.Fatalf("second Sync = (%v, %v)", changed, err)
	}
}

func TestOpen_MemoryNeedsNoDir(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Options{Storage: store.BackendMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if s.Theme.Current() != model.ThemeDark {
		t.Fatalf("expected dark default without presenter; got %q", s.Theme.Current())
	}
}

func TestOpen_RequiresDirForSQLite(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Options{Storage: store.BackendSQLite}); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
