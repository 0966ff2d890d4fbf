package generate

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fallbackFamilies are tried in order when the requested family has no
// catalog entry at all.
var fallbackFamilies = []string{"Inter", "Roboto", "Arial", "Helvetica"}

// defaultFont is the hard floor when even the fallback chain resolves
// nothing.
var defaultFont = FontDescriptor{Family: "Inter", Style: "Regular"}

// fontResolver maps a CSS family/weight pair onto the closest font the host
// actually has. Resolution order: exact family+style, family+Regular, first
// style of the family, the fallback chain, then defaultFont. Results are
// cached; catalog queries hit the host.
type fontResolver struct {
	canvas  Canvas
	catalog []FontDescriptor
	byFam   map[string][]string
	cache   *lru.Cache[string, FontDescriptor]
}

func newFontResolver(canvas Canvas) (*fontResolver, error) {
	cache, err := lru.New[string, FontDescriptor](256)
	if err != nil {
		return nil, fmt.Errorf("generate: font cache: %w", err)
	}
	return &fontResolver{canvas: canvas, cache: cache}, nil
}

func (r *fontResolver) loadCatalog() error {
	if r.byFam != nil {
		return nil
	}
	fonts, err := r.canvas.Fonts()
	if err != nil {
		return fmt.Errorf("generate: font catalog: %w", err)
	}
	r.catalog = fonts
	r.byFam = make(map[string][]string)
	for _, f := range fonts {
		key := strings.ToLower(f.Family)
		r.byFam[key] = append(r.byFam[key], f.Style)
	}
	return nil
}

// weightStyle buckets a CSS numeric weight into a style name.
func weightStyle(weight int) string {
	switch {
	case weight >= 700:
		return "Bold"
	case weight >= 500:
		return "Medium"
	default:
		return "Regular"
	}
}

// firstFamily strips a CSS font-family list down to its first entry,
// unquoted.
func firstFamily(family string) string {
	first := family
	if i := strings.IndexByte(family, ','); i >= 0 {
		first = family[:i]
	}
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// Resolve returns the closest available font for a family/weight pair and
// loads it on the host. The resolve-then-load ordering is required: hosts
// refuse text formatting with an unregistered font.
func (r *fontResolver) Resolve(family string, weight int) (FontDescriptor, error) {
	fam := firstFamily(family)
	style := weightStyle(weight)
	key := strings.ToLower(fam) + "|" + style

	if f, ok := r.cache.Get(key); ok {
		return f, nil
	}
	if err := r.loadCatalog(); err != nil {
		return FontDescriptor{}, err
	}

	f := r.lookup(fam, style)
	if err := r.canvas.LoadFont(f); err != nil {
		return FontDescriptor{}, fmt.Errorf("generate: load font %s %s: %w", f.Family, f.Style, err)
	}
	r.cache.Add(key, f)
	return f, nil
}

func (r *fontResolver) lookup(fam, style string) FontDescriptor {
	if f, ok := r.inFamily(fam, style); ok {
		return f
	}
	for _, fb := range fallbackFamilies {
		if f, ok := r.inFamily(fb, style); ok {
			return f
		}
	}
	return defaultFont
}

func (r *fontResolver) inFamily(fam, style string) (FontDescriptor, bool) {
	styles := r.byFam[strings.ToLower(fam)]
	if len(styles) == 0 {
		return FontDescriptor{}, false
	}
	canonical := styles[0]
	hasRegular := false
	for _, s := range styles {
		if strings.EqualFold(s, style) {
			return FontDescriptor{Family: fam, Style: s}, true
		}
		if strings.EqualFold(s, "Regular") {
			hasRegular = true
		}
	}
	if hasRegular {
		return FontDescriptor{Family: fam, Style: "Regular"}, true
	}
	return FontDescriptor{Family: fam, Style: canonical}, true
}
