package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBackupJSONLRoundTripAndRestore(t *testing.T) {
	ctx := context.Background()

	src, err := Store{Dir: t.TempDir()}.Open(ctx, BackendSQLite)
	if err != nil {
		t.Fatalf("open src: %v", err)
	}
	defer src.Close()
	if err := src.SetItem(ctx, KeyTheme, `"light"`); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := src.SetItem(ctx, KeyInstances, `[{"id":"a"}]`); err != nil {
		t.Fatalf("set instances: %v", err)
	}

	entries, err := ReadEntries(ctx, src)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	want := []Entry{{Key: KeyInstances, Value: `[{"id":"a"}]`}, {Key: KeyTheme, Value: `"light"`}}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("ReadEntries = %#v, want %#v", entries, want)
	}

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	if err := WriteEntriesJSONL(path, entries); err != nil {
		t.Fatalf("WriteEntriesJSONL: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected backup file to exist: %v", err)
	}
	back, err := ReadEntriesJSONL(path)
	if err != nil {
		t.Fatalf("ReadEntriesJSONL: %v", err)
	}
	if !reflect.DeepEqual(back, want) {
		t.Fatalf("jsonl round trip = %#v, want %#v", back, want)
	}

	dst := NewMemoryBackend()
	if err := dst.SetItem(ctx, "stale", "x"); err != nil {
		t.Fatalf("set stale: %v", err)
	}
	if err := ReplaceEntries(ctx, dst, back, false); err != nil {
		t.Fatalf("ReplaceEntries (merge): %v", err)
	}
	if _, ok, _ := dst.GetItem(ctx, "stale"); !ok {
		t.Fatalf("expected merge to keep unrelated keys")
	}
	if err := ReplaceEntries(ctx, dst, back, true); err != nil {
		t.Fatalf("ReplaceEntries (replace): %v", err)
	}
	got, err := ReadEntries(ctx, dst)
	if err != nil {
		t.Fatalf("ReadEntries (dst): %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("restored = %#v, want %#v", got, want)
	}
}

func TestReadEntriesJSONL_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{\"key\":\"a\",\"value\":\"b\"}\n\nnot json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadEntriesJSONL(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
