package theme

import (
	"context"
	"reflect"
	"testing"

	"tiles-cli/internal/model"
	"tiles-cli/internal/store"
)

func TestOpen_NoStoredTheme_FollowsAmbient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		prefersDark bool
		want        model.Theme
	}{
		{name: "prefers dark", prefersDark: true, want: model.ThemeDark},
		{name: "prefers light", prefersDark: false, want: model.ThemeLight},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := store.NewMemoryBackend()
			root := NewClassList()
			pr, err := Open(b, root, AmbientFunc(func() bool { return tt.prefersDark }))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if pr.Current() != tt.want {
				t.Fatalf("Current() = %q, want %q", pr.Current(), tt.want)
			}
			if !reflect.DeepEqual(root.Classes(), []string{string(tt.want)}) {
				t.Fatalf("root classes = %v", root.Classes())
			}
			raw, ok, _ := b.GetItem(context.Background(), store.KeyTheme)
			if !ok || raw != `"`+string(tt.want)+`"` {
				t.Fatalf("expected initial theme to be stored; ok=%v raw=%s", ok, raw)
			}
		})
	}
}

func TestOpen_StoredThemeIsReappliedWithoutAskingAmbient(t *testing.T) {
	t.Parallel()

	b := store.NewMemoryBackend()
	_ = b.SetItem(context.Background(), store.KeyTheme, `"light"`)

	asked := false
	root := NewClassList("dark")
	pr, err := Open(b, root, AmbientFunc(func() bool { asked = true; return true }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if asked {
		t.Fatalf("expected ambient signal to be ignored when a theme is stored")
	}
	if pr.Current() != model.ThemeLight || !pr.Stored() {
		t.Fatalf("Current() = %q stored=%v", pr.Current(), pr.Stored())
	}
	if !reflect.DeepEqual(root.Classes(), []string{"light"}) {
		t.Fatalf("expected stored theme to be applied to root; got %v", root.Classes())
	}
}

func TestOpen_InvalidStoredThemeCountsAsMissing(t *testing.T) {
	t.Parallel()

	b := store.NewMemoryBackend()
	_ = b.SetItem(context.Background(), store.KeyTheme, `"sepia"`)

	pr, err := Open(b, NewClassList(), AmbientFunc(func() bool { return false }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if pr.Stored() || pr.Current() != model.ThemeLight {
		t.Fatalf("expected ambient fallback; stored=%v current=%q", pr.Stored(), pr.Current())
	}
}

func TestOpen_WithoutPresenterHasNoSideEffects(t *testing.T) {
	t.Parallel()

	b := store.NewMemoryBackend()
	pr, err := Open(b, nil, AmbientFunc(func() bool { t.Fatalf("ambient must not be consulted"); return false }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if pr.Current() != model.ThemeDark {
		t.Fatalf("expected dark default; got %q", pr.Current())
	}
	if _, ok, _ := b.GetItem(context.Background(), store.KeyTheme); ok {
		t.Fatalf("expected nothing to be written without a presenter")
	}
	if next, err := pr.Toggle(); err != nil || next != model.ThemeLight {
		t.Fatalf("Toggle() = (%q, %v)", next, err)
	}
}

func TestToggle_IsInvolutiveAndKeepsExactlyOneMarker(t *testing.T) {
	t.Parallel()

	root := NewClassList("app")
	pr, err := Open(store.NewMemoryBackend(), root, AmbientFunc(func() bool { return true }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	start := pr.Current()

	markers := func() int {
		n := 0
		for _, m := range model.Themes {
			if root.Has(string(m)) {
				n++
			}
		}
		return n
	}

	for i := 0; i < 5; i++ {
		next, err := pr.Toggle()
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		if next != pr.Current() || !root.Has(string(next)) {
			t.Fatalf("toggle %d: returned %q, current %q, root %v", i, next, pr.Current(), root.Classes())
		}
		if n := markers(); n != 1 {
			t.Fatalf("toggle %d: expected exactly one theme marker; got %v", i, root.Classes())
		}
		if !root.Has("app") {
			t.Fatalf("expected unrelated classes to survive; got %v", root.Classes())
		}
	}

	_, _ = pr.Toggle()
	if pr.Current() != start {
		t.Fatalf("expected an even number of toggles to restore %q; got %q", start, pr.Current())
	}
}

func TestSet_AppliesBeforePublishing(t *testing.T) {
	t.Parallel()

	root := NewClassList()
	pr, err := Open(store.NewMemoryBackend(), root, AmbientFunc(func() bool { return false }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var seen []string
	unsub := pr.Subscribe(func(th model.Theme) { seen = append(seen, string(th)+"/"+root.String()) })
	defer unsub()

	if err := pr.Set(model.ThemeDark); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"light/light", "dark/dark"}) {
		t.Fatalf("unexpected publish order: %v", seen)
	}
	if err := pr.Set("sepia"); err == nil {
		t.Fatalf("expected invalid theme to be rejected")
	}
	if pr.Current() != model.ThemeDark {
		t.Fatalf("expected invalid Set to leave theme alone; got %q", pr.Current())
	}
}

func TestSync_AppliesExternalChange(t *testing.T) {
	t.Parallel()

	b := store.NewMemoryBackend()
	root := NewClassList()
	pr, err := Open(b, root, AmbientFunc(func() bool { return true }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if changed, err := pr.Sync(); err != nil || changed {
		t.Fatalf("Sync without change = (%v, %v)", changed, err)
	}

	_ = b.SetItem(context.Background(), store.KeyTheme, `"light"`)
	if changed, err := pr.Sync(); err != nil || !changed {
		t.Fatalf("Sync after external change = (%v, %v)", changed, err)
	}
	if pr.Current() != model.ThemeLight || !reflect.DeepEqual(root.Classes(), []string{"light"}) {
		t.Fatalf("expected external theme applied; current=%q root=%v", pr.Current(), root.Classes())
	}
}

func TestSync_AppliesBeforePublishing(t *testing.T) {
	t.Parallel()

	b := store.NewMemoryBackend()
	root := NewClassList()
	pr, err := Open(b, root, AmbientFunc(func() bool { return true }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var seen []string
	unsub := pr.Subscribe(func(th model.Theme) { seen = append(seen, string(th)+"/"+root.String()) })
	defer unsub()

	_ = b.SetItem(context.Background(), store.KeyTheme, `"light"`)
	if _, err := pr.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"dark/dark", "light/light"}) {
		t.Fatalf("subscribers saw the theme before the root changed: %v", seen)
	}
}

func TestPresenters_FanOut(t *testing.T) {
	t.Parallel()

	a, b := NewClassList(), NewClassList()
	var got []model.Theme
	ps := Presenters{a, nil, b, PresenterFunc(func(th model.Theme) { got = append(got, th) })}
	ps.ApplyTheme(model.ThemeLight)
	if !a.Has("light") || !b.Has("light") || !reflect.DeepEqual(got, []model.Theme{model.ThemeLight}) {
		t.Fatalf("expected every presenter to receive the theme")
	}
}

func TestTerminalAmbient(t *testing.T) {
	t.Parallel()

	probe := func(v bool) func() bool { return func() bool { return v } }
	tests := []struct {
		name string
		a    TerminalAmbient
		want bool
	}{
		{name: "darkbg true wins", a: TerminalAmbient{DarkBG: "true", ColorFGBG: "0;15", Probe: probe(false)}, want: true},
		{name: "darkbg false wins", a: TerminalAmbient{DarkBG: "0", ColorFGBG: "15;0", Probe: probe(true)}, want: false},
		{name: "invalid darkbg falls through", a: TerminalAmbient{DarkBG: "maybe", ColorFGBG: "15;0", Probe: probe(false)}, want: true},
		{name: "colorfgbg light bg", a: TerminalAmbient{ColorFGBG: "0;15", Probe: probe(true)}, want: false},
		{name: "colorfgbg three segments", a: TerminalAmbient{ColorFGBG: "15;default;0", Probe: probe(false)}, want: true},
		{name: "probe fallback", a: TerminalAmbient{ColorFGBG: "garbage", Probe: probe(true)}, want: true},
	}
	for _, tt := range tests {
		if got := tt.a.PrefersDark(); got != tt.want {
			t.Fatalf("%s: PrefersDark() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
