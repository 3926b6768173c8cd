package model

import "testing"

func TestParseTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{in: "light", want: ThemeLight},
		{in: " Dark ", want: ThemeDark},
		{in: "DARK", want: ThemeDark},
		{in: "", wantErr: true},
		{in: "solarized", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseTheme(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTheme(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestThemeOpposite(t *testing.T) {
	t.Parallel()

	if ThemeLight.Opposite() != ThemeDark || ThemeDark.Opposite() != ThemeLight {
		t.Fatalf("expected light<->dark")
	}
	if ThemeDark.Opposite().Opposite() != ThemeDark {
		t.Fatalf("expected opposite to be involutive")
	}
}

func TestIconGlyph(t *testing.T) {
	t.Parallel()

	if got := (Icon{Unicode: "f015"}).Glyph(); got != "\uf015" {
		t.Fatalf("Glyph(f015) = %q", got)
	}
	if got := (Icon{Unicode: "zz"}).Glyph(); got != "" {
		t.Fatalf("expected empty glyph for invalid unicode; got %q", got)
	}
	if got := (Icon{}).Glyph(); got != "" {
		t.Fatalf("expected empty glyph for empty unicode; got %q", got)
	}
}
