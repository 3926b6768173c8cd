package store

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
)

type failingBackend struct {
	*MemoryBackend
}

func (f failingBackend) SetItem(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestPersisted_RestoresStoredValue(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	p, err := NewPersisted(b, "nums", []int{})
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	if p.Stored() {
		t.Fatalf("expected empty backend to report not stored")
	}
	if err := p.Update(func(xs []int) []int { return append(xs, 1, 2) }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	raw, ok, _ := b.GetItem(context.Background(), "nums")
	if !ok || raw != "[1,2]" {
		t.Fatalf("unexpected stored raw: ok=%v raw=%q", ok, raw)
	}

	p2, err := NewPersisted(b, "nums", []int{})
	if err != nil {
		t.Fatalf("NewPersisted (reopen): %v", err)
	}
	if !p2.Stored() {
		t.Fatalf("expected reopen to report stored")
	}
	if !reflect.DeepEqual(p2.Get(), []int{1, 2}) {
		t.Fatalf("unexpected restored value: %v", p2.Get())
	}
}

func TestPersisted_CorruptOrInvalidValueFallsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.SetItem(ctx, "word", "{not json")
	p, err := NewPersisted(b, "word", "dflt")
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	if p.Stored() || p.Get() != "dflt" {
		t.Fatalf("expected fallback to initial; stored=%v value=%q", p.Stored(), p.Get())
	}

	_ = b.SetItem(ctx, "word", `"nope"`)
	p, err = NewPersisted(b, "word", "dflt", WithValidator(func(s string) bool { return s != "nope" }))
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	if p.Stored() || p.Get() != "dflt" {
		t.Fatalf("expected validator to reject stored value; stored=%v value=%q", p.Stored(), p.Get())
	}
}

func TestPersisted_WritesBeforeNotifying(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	p, err := NewPersisted(b, "n", 0)
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	var rawSeen []string
	unsub := p.Subscribe(func(int) {
		raw, _, _ := b.GetItem(context.Background(), "n")
		rawSeen = append(rawSeen, raw)
	})
	defer unsub()

	if err := p.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !reflect.DeepEqual(rawSeen, []string{"", "5"}) {
		t.Fatalf("expected subscriber to observe the written value; got %q", rawSeen)
	}
}

func TestPersisted_WriteFailureStillPublishes(t *testing.T) {
	t.Parallel()

	p, err := NewPersisted[int](failingBackend{NewMemoryBackend()}, "n", 0)
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	got := 0
	unsub := p.Subscribe(func(v int) { got = v })
	defer unsub()

	if err := p.Set(9); err == nil {
		t.Fatalf("expected write error")
	}
	if p.Get() != 9 || got != 9 {
		t.Fatalf("expected in-memory value and subscribers to move on; get=%d sub=%d", p.Get(), got)
	}
}

func TestPersisted_ReloadPicksUpExternalWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewMemoryBackend()
	p, err := NewPersisted(b, "n", 0)
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}
	if err := p.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	calls := 0
	unsub := p.Subscribe(func(int) { calls++ })
	defer unsub()

	if changed, err := p.Reload(); err != nil || changed {
		t.Fatalf("Reload without external change = (%v, %v)", changed, err)
	}

	_ = b.SetItem(ctx, "n", "2")
	if changed, err := p.Reload(); err != nil || !changed {
		t.Fatalf("Reload after external change = (%v, %v)", changed, err)
	}
	if p.Get() != 2 || calls != 2 {
		t.Fatalf("expected reload to publish 2 once; value=%d calls=%d", p.Get(), calls)
	}

	_ = b.SetItem(ctx, "n", "garbage")
	if changed, _ := p.Reload(); changed || p.Get() != 2 {
		t.Fatalf("expected undecodable reload to be ignored; value=%d", p.Get())
	}
}

func TestPersisted_ReloadFuncRunsHookBeforeSubscribers(t *testing.T) {
	t.Parallel()

	b := NewMemoryBackend()
	p, err := NewPersisted(b, "n", 0)
	if err != nil {
		t.Fatalf("NewPersisted: %v", err)
	}

	var order []string
	unsub := p.Subscribe(func(v int) { order = append(order, "sub:"+strconv.Itoa(v)) })
	defer unsub()

	hook := func(v int) { order = append(order, "hook:"+strconv.Itoa(v)) }
	if changed, err := p.ReloadFunc(hook); err != nil || changed {
		t.Fatalf("ReloadFunc on an empty slot = (%v, %v)", changed, err)
	}

	_ = b.SetItem(context.Background(), "n", "5")
	if changed, err := p.ReloadFunc(hook); err != nil || !changed {
		t.Fatalf("ReloadFunc after external change = (%v, %v)", changed, err)
	}
	if want := []string{"sub:0", "hook:5", "sub:5"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}
