package store

import (
	"context"
	"reflect"
	"testing"
)

func TestSQLiteBackend_SetGetRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	b, err := s.Open(ctx, BackendSQLite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if _, ok, err := b.GetItem(ctx, KeyTheme); err != nil || ok {
		t.Fatalf("GetItem(missing) = ok=%v err=%v", ok, err)
	}
	if err := b.SetItem(ctx, KeyTheme, `"dark"`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := b.SetItem(ctx, KeyInstances, `[]`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := b.SetItem(ctx, KeyTheme, `"light"`); err != nil {
		t.Fatalf("SetItem (replace): %v", err)
	}
	v, ok, err := b.GetItem(ctx, KeyTheme)
	if err != nil || !ok || v != `"light"` {
		t.Fatalf("GetItem = (%q, %v, %v)", v, ok, err)
	}
	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{KeyInstances, KeyTheme}) {
		t.Fatalf("Keys = %v", keys)
	}
	if err := b.RemoveItem(ctx, KeyTheme); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := b.GetItem(ctx, KeyTheme); ok {
		t.Fatalf("expected key to be removed")
	}
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	b1, err := s.Open(ctx, BackendSQLite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p, err := NewPersisted(b1, KeyInstances, []string{})
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	if err := p.Set([]string{"a", "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b2, err := s.Open(ctx, BackendSQLite)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b2.Close()
	p2, err := NewPersisted(b2, KeyInstances, []string{})
	if err != nil {
		t.Fatalf("NewPersisted (reopen): %v", err)
	}
	if !reflect.DeepEqual(p2.Get(), []string{"a", "b"}) {
		t.Fatalf("unexpected value after reopen: %v", p2.Get())
	}
}

func TestParseBackendKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]BackendKind{"": BackendSQLite, "SQLite": BackendSQLite, "memory": BackendMemory} {
		got, err := ParseBackendKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseBackendKind(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseBackendKind("postgres"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
