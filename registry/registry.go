// Package registry assigns unique, hierarchical, human-readable names to
// tokens and shared styles. Naming is deterministic; uniqueness is enforced
// by a conversion-scoped used-name set that must never leak between
// independent runs.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
)

// Names tracks used names within one conversion. Create one per run with
// New; never share across runs.
type Names struct {
	used map[string]bool
}

// New returns an empty name tracker.
func New() *Names {
	return &Names{used: make(map[string]bool)}
}

// Unique returns name unchanged on first request, then name-2, name-3, …
// on collisions.
func (r *Names) Unique(name string) string {
	if !r.used[name] {
		r.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if !r.used[candidate] {
			r.used[candidate] = true
			return candidate
		}
	}
}

// Reset clears the tracker for a fresh conversion run.
func (r *Names) Reset() {
	r.used = make(map[string]bool)
}

// ColorName derives the path-style name for a color token: variable-derived
// names become slash-separated paths, plain colors fall back to a hex path.
func (r *Names) ColorName(t bridge.ColorToken) string {
	if t.SourceVariable != "" {
		return r.Unique(VariablePath(t.SourceVariable))
	}
	return r.Unique("color/" + strings.TrimPrefix(t.Value, "#"))
}

// TypographyName encodes rounded size and a weight bucket:
// bold >= 700, medium >= 500, else regular.
func (r *Names) TypographyName(t bridge.TypographyToken) string {
	bucket := "regular"
	switch {
	case t.Weight >= 700:
		bucket = "bold"
	case t.Weight >= 500:
		bucket = "medium"
	}
	size := strconv.Itoa(int(t.Size + 0.5))
	return r.Unique("text/" + size + "-" + bucket)
}

// EffectName encodes the effect kind and an ordinal.
func (r *Names) EffectName(kind bridge.EffectKind, ordinal int) string {
	return r.Unique(fmt.Sprintf("effect/%s-%d", kind, ordinal))
}

// VariablePath converts a CSS custom-property name into a slash-separated
// hierarchy: --color-primary-dark -> color/primary/dark.
func VariablePath(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "--")
	if name == "" {
		return "variable"
	}
	parts := strings.Split(name, "-")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "variable"
	}
	return strings.Join(kept, "/")
}
