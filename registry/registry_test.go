package registry

import (
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
)

func TestUniqueCollisions(t *testing.T) {
	r := New()
	if got := r.Unique("card"); got != "card" {
		t.Errorf("first: got %q, want card", got)
	}
	if got := r.Unique("card"); got != "card-2" {
		t.Errorf("second: got %q, want card-2", got)
	}
	if got := r.Unique("card"); got != "card-3" {
		t.Errorf("third: got %q, want card-3", got)
	}
}

func TestResetClearsState(t *testing.T) {
	r := New()
	r.Unique("card")
	r.Reset()
	if got := r.Unique("card"); got != "card" {
		t.Errorf("after reset: got %q, want card (no cross-run leakage)", got)
	}
}

func TestColorName(t *testing.T) {
	r := New()
	plain := r.ColorName(bridge.ColorToken{Value: "#ff5733"})
	if plain != "color/ff5733" {
		t.Errorf("hex fallback: got %q, want color/ff5733", plain)
	}

	fromVar := r.ColorName(bridge.ColorToken{Value: "#ff5733", SourceVariable: "--brand-primary"})
	if fromVar != "brand/primary" {
		t.Errorf("variable path: got %q, want brand/primary", fromVar)
	}
}

func TestTypographyName(t *testing.T) {
	r := New()
	tests := []struct {
		tok  bridge.TypographyToken
		want string
	}{
		{bridge.TypographyToken{Size: 32, Weight: 700}, "text/32-bold"},
		{bridge.TypographyToken{Size: 16, Weight: 500}, "text/16-medium"},
		{bridge.TypographyToken{Size: 14.4, Weight: 400}, "text/14-regular"},
	}
	for _, tt := range tests {
		if got := r.TypographyName(tt.tok); got != tt.want {
			t.Errorf("TypographyName(%+v): got %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestEffectName(t *testing.T) {
	r := New()
	if got := r.EffectName(bridge.EffectDropShadow, 1); got != "effect/drop-shadow-1" {
		t.Errorf("got %q, want effect/drop-shadow-1", got)
	}
	// Same kind and ordinal collides and gets a suffix.
	if got := r.EffectName(bridge.EffectDropShadow, 1); got != "effect/drop-shadow-1-2" {
		t.Errorf("collision: got %q, want effect/drop-shadow-1-2", got)
	}
}

func TestVariablePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"--color-primary-dark", "color/primary/dark"},
		{"--spacing", "spacing"},
		{"--", "variable"},
		{"--a--b", "a/b"},
	}
	for _, tt := range tests {
		if got := VariablePath(tt.in); got != tt.want {
			t.Errorf("VariablePath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
