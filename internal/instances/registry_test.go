package instances

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"tiles-cli/internal/model"
	"tiles-cli/internal/store"
)

func openTestRegistry(t *testing.T, backend store.Backend, seed ...model.Instance) *Registry {
	t.Helper()
	r, err := Open(backend)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, inst := range seed {
		if err := r.Add(inst); err != nil {
			t.Fatalf("Add(%s): %v", inst.ID, err)
		}
	}
	return r
}

func TestRegistry_AddAppends(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend())
	a := model.Instance{ID: "a", Icon: "x", Title: "A", Href: "#", Color: "#fff"}
	if err := r.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := r.List(); !reflect.DeepEqual(got, []model.Instance{a}) {
		t.Fatalf("List = %#v", got)
	}

	dup := model.Instance{ID: "a", Title: "again"}
	if err := r.Add(dup); err != nil {
		t.Fatalf("Add(dup): %v", err)
	}
	if got := r.List(); !reflect.DeepEqual(got, []model.Instance{a, dup}) {
		t.Fatalf("expected duplicate id to be appended; got %#v", got)
	}
}

func TestRegistry_UpdateForcesOriginalID(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend(),
		model.Instance{ID: "a", Icon: "x", Title: "A", Href: "#", Color: "#fff"},
	)
	if err := r.Update("a", model.Instance{ID: "b", Icon: "y", Title: "B", Href: "#", Color: "#000"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []model.Instance{{ID: "a", Icon: "y", Title: "B", Href: "#", Color: "#000"}}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %#v, want %#v", got, want)
	}
}

func TestRegistry_UpdateReplacesInPlace(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend(),
		model.Instance{ID: "a", Title: "A"},
		model.Instance{ID: "b", Title: "B"},
		model.Instance{ID: "a", Title: "A2"},
	)
	if err := r.Update("a", model.Instance{Title: "Z"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []model.Instance{{ID: "a", Title: "Z"}, {ID: "b", Title: "B"}, {ID: "a", Title: "Z"}}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %#v, want %#v", got, want)
	}
}

func TestRegistry_UpdateNoMatchIsNoop(t *testing.T) {
	t.Parallel()

	a := model.Instance{ID: "a", Icon: "x", Title: "A", Href: "#", Color: "#fff"}
	r := openTestRegistry(t, store.NewMemoryBackend(), a)
	if err := r.Update("z", model.Instance{ID: "z", Title: "nope"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := r.List(); !reflect.DeepEqual(got, []model.Instance{a}) {
		t.Fatalf("expected unchanged list; got %#v", got)
	}
}

func TestRegistry_Remove(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend(),
		model.Instance{ID: "a"},
		model.Instance{ID: "b"},
	)
	if err := r.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := r.List(); !reflect.DeepEqual(got, []model.Instance{{ID: "b"}}) {
		t.Fatalf("List = %#v", got)
	}
	if err := r.Remove("missing"); err != nil {
		t.Fatalf("Remove(missing): %v", err)
	}
	if got := r.List(); !reflect.DeepEqual(got, []model.Instance{{ID: "b"}}) {
		t.Fatalf("expected no-op remove; got %#v", got)
	}
}

func TestRegistry_PersistsEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := store.NewMemoryBackend()
	r := openTestRegistry(t, b, model.Instance{ID: "a", Icon: "house", Title: "Home", Href: "https://example.com", Color: "#123456"})

	raw, ok, err := b.GetItem(ctx, store.KeyInstances)
	if err != nil || !ok {
		t.Fatalf("expected instances to be stored; ok=%v err=%v", ok, err)
	}
	var stored []map[string]any
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored value is not a JSON array: %v\n%s", err, raw)
	}
	want := []map[string]any{{"id": "a", "icon": "house", "title": "Home", "href": "https://example.com", "color": "#123456"}}
	if !reflect.DeepEqual(stored, want) {
		t.Fatalf("stored = %#v", stored)
	}

	if err := r.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	raw, _, _ = b.GetItem(ctx, store.KeyInstances)
	if raw != "[]" {
		t.Fatalf("expected empty array after remove; got %s", raw)
	}

	reopened := openTestRegistry(t, b)
	if got := reopened.List(); len(got) != 0 {
		t.Fatalf("expected reopened registry to be empty; got %#v", got)
	}
}

func TestRegistry_SubscribeNotifiesAfterEachOperation(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend())
	var lens []int
	unsub := r.Subscribe(func(list []model.Instance) { lens = append(lens, len(list)) })
	defer unsub()

	_ = r.Add(model.Instance{ID: "a"})
	_ = r.Add(model.Instance{ID: "b"})
	_ = r.Update("a", model.Instance{Title: "A"})
	_ = r.Remove("b")

	if !reflect.DeepEqual(lens, []int{0, 1, 2, 2, 1}) {
		t.Fatalf("unexpected notifications: %v", lens)
	}
}

func TestRegistry_ListIsACopy(t *testing.T) {
	t.Parallel()

	r := openTestRegistry(t, store.NewMemoryBackend(), model.Instance{ID: "a", Title: "A"})
	got := r.List()
	got[0].Title = "mutated"
	if inst, _ := r.Find("a"); inst.Title != "A" {
		t.Fatalf("expected registry to be unaffected by caller mutation; got %q", inst.Title)
	}
}
