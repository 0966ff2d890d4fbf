// Package tokens collects deduplicated design tokens from an extracted tree.
// Each category runs as an independent full-tree pass with exact-match dedup
// on the normalized value and a running usage count, sorted descending by
// usage. Transparent and unparseable values never appear in the output.
package tokens

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/cssval"
	"github.com/pagebridge/pagebridge/registry"
)

// RawVariable is a custom property read from an in-document style rule
// source. Cross-origin sources that cannot be introspected are skipped by
// the extractor without failing the scan.
type RawVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// colorProps are the style properties scanned for color usage. Computed
// styles carry the per-side border color; the shorthand is accepted for
// payloads built outside the walker.
var colorProps = []string{"color", "background-color", "border-top-color", "border-color"}

// textTags bound the typography pass to text-bearing elements.
var textTags = map[string]bool{
	"p": true, "span": true, "a": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"label": true, "button": true, "strong": true, "em": true, "b": true,
	"i": true, "small": true, "blockquote": true, "figcaption": true,
	"dt": true, "dd": true, "caption": true, "legend": true, "summary": true,
}

// Scan runs all four token passes over one extracted tree and names every
// token, so payloads carry display names without a canvas in the loop. The
// name tracker is created per scan; names never leak between runs.
func Scan(root *bridge.BridgeNode, vars []RawVariable) bridge.DesignTokens {
	variables := CollectVariables(vars)
	t := bridge.DesignTokens{
		Colors:     ScanColors(root, variables),
		Typography: ScanTypography(root),
		Effects:    ScanEffects(root),
		Variables:  variables,
	}

	names := registry.New()
	for i := range t.Colors {
		t.Colors[i].Name = names.ColorName(t.Colors[i])
	}
	for i := range t.Typography {
		t.Typography[i].Name = names.TypographyName(t.Typography[i])
	}
	for i := range t.Effects {
		t.Effects[i].Name = names.EffectName(t.Effects[i].Kind, i+1)
	}
	return t
}

// ScanColors deduplicates every non-transparent, parseable color in the tree
// by normalized hex value. When a collected variable resolves to the same
// hex, the token records that variable as its source name.
func ScanColors(root *bridge.BridgeNode, vars []bridge.VariableToken) []bridge.ColorToken {
	// First variable resolving to a hex wins as its source name.
	varByHex := map[string]string{}
	for _, v := range vars {
		if v.Kind != bridge.VarColor {
			continue
		}
		if c := cssval.ParseColor(v.Value); c != nil {
			if _, ok := varByHex[c.Hex()]; !ok {
				varByHex[c.Hex()] = v.Name
			}
		}
	}

	seen := map[string]*bridge.ColorToken{}
	var order []string

	root.Walk(func(n *bridge.BridgeNode) bool {
		for _, prop := range colorProps {
			raw := n.Style(prop)
			if cssval.IsTransparent(raw) {
				continue
			}
			c := cssval.ParseColor(raw)
			if c == nil {
				continue
			}
			hex := c.Hex()
			if tok, ok := seen[hex]; ok {
				tok.UsageCount++
				continue
			}
			seen[hex] = &bridge.ColorToken{Value: hex, UsageCount: 1, SourceVariable: varByHex[hex]}
			order = append(order, hex)
		}
		return true
	})

	out := make([]bridge.ColorToken, 0, len(order))
	for _, hex := range order {
		out = append(out, *seen[hex])
	}
	sortByUsage(out, func(t bridge.ColorToken) (int, string) { return t.UsageCount, t.Value })
	return out
}

// ScanTypography deduplicates font combinations on text-bearing tags by the
// exact family/size/weight/line-height/letter-spacing tuple.
func ScanTypography(root *bridge.BridgeNode) []bridge.TypographyToken {
	seen := map[string]*bridge.TypographyToken{}
	var order []string

	root.Walk(func(n *bridge.BridgeNode) bool {
		if !textTags[n.Tag] && n.Type != bridge.NodeText {
			return true
		}
		family := PrimaryFontFamily(n.Style("font-family"))
		if family == "" {
			return true
		}
		size := Px(n.Style("font-size"))
		if size <= 0 {
			return true
		}
		weight := ParseFontWeight(n.Style("font-weight"))
		lh := strings.TrimSpace(n.Style("line-height"))
		ls := strings.TrimSpace(n.Style("letter-spacing"))

		key := TypographyKey(family, size, weight, lh, ls)
		if tok, ok := seen[key]; ok {
			tok.UsageCount++
			return true
		}
		seen[key] = &bridge.TypographyToken{
			Family:        family,
			Size:          size,
			Weight:        weight,
			LineHeight:    lh,
			LetterSpacing: ls,
			UsageCount:    1,
		}
		order = append(order, key)
		return true
	})

	out := make([]bridge.TypographyToken, 0, len(order))
	for _, key := range order {
		out = append(out, *seen[key])
	}
	sortByUsage(out, func(t bridge.TypographyToken) (int, string) {
		return t.UsageCount, t.Family + strconv.FormatFloat(t.Size, 'f', -1, 64)
	})
	return out
}

// ScanEffects deduplicates shadows and blurs by their raw serialized value.
func ScanEffects(root *bridge.BridgeNode) []bridge.EffectToken {
	seen := map[string]*bridge.EffectToken{}
	var order []string

	record := func(kind bridge.EffectKind, value string) {
		value = strings.TrimSpace(value)
		if value == "" || value == "none" {
			return
		}
		if tok, ok := seen[value]; ok {
			tok.UsageCount++
			return
		}
		seen[value] = &bridge.EffectToken{Kind: kind, Value: value, UsageCount: 1}
		order = append(order, value)
	}

	root.Walk(func(n *bridge.BridgeNode) bool {
		if raw := n.Style("box-shadow"); raw != "" && raw != "none" {
			// One token per raw value; kind comes from the first layer.
			if layers := cssval.ParseShadowList(raw); len(layers) > 0 {
				kind := bridge.EffectDropShadow
				if layers[0].Inner {
					kind = bridge.EffectInnerShadow
				}
				record(kind, raw)
			}
		}
		if raw := n.Style("filter"); strings.Contains(raw, "blur(") {
			record(bridge.EffectBlur, raw)
		}
		if raw := n.Style("backdrop-filter"); strings.Contains(raw, "blur(") {
			record(bridge.EffectBlur, raw)
		}
		return true
	})

	out := make([]bridge.EffectToken, 0, len(order))
	for _, key := range order {
		out = append(out, *seen[key])
	}
	sortByUsage(out, func(t bridge.EffectToken) (int, string) { return t.UsageCount, t.Value })
	return out
}

var (
	numberValueRe = regexp.MustCompile(`^-?\d+(\.\d+)?(px|rem|em|%|vw|vh|pt|s|ms)?$`)
	colorLookRe   = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\(|hsla?\()`)
)

// CollectVariables deduplicates custom properties by raw name, first
// occurrence wins, and infers each variable's type.
func CollectVariables(vars []RawVariable) []bridge.VariableToken {
	seen := map[string]bool{}
	var out []bridge.VariableToken
	for _, v := range vars {
		name := strings.TrimSpace(v.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, bridge.VariableToken{
			Name:  name,
			Value: strings.TrimSpace(v.Value),
			Kind:  inferVariableKind(v.Value),
		})
	}
	return out
}

func inferVariableKind(value string) bridge.VariableKind {
	value = strings.TrimSpace(value)
	if colorLookRe.MatchString(value) {
		return bridge.VarColor
	}
	if numberValueRe.MatchString(value) {
		return bridge.VarNumber
	}
	return bridge.VarString
}

// TypographyKey is the exact-match dedup key for one font combination. The
// generator uses the same key to link text nodes back to their shared style.
func TypographyKey(family string, size float64, weight int, lineHeight, letterSpacing string) string {
	return family + "|" + strconv.FormatFloat(size, 'f', -1, 64) + "|" +
		strconv.Itoa(weight) + "|" + lineHeight + "|" + letterSpacing
}

// PrimaryFontFamily strips quotes and takes the first family of the stack.
func PrimaryFontFamily(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
	return strings.Trim(first, `"'`)
}

// ParseFontWeight maps a computed font-weight value to its numeric form.
func ParseFontWeight(v string) int {
	switch strings.TrimSpace(v) {
	case "", "normal":
		return 400
	case "bold":
		return 700
	}
	w, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || w < 1 {
		return 400
	}
	return w
}

// Px parses a pixel-suffixed computed value, returning 0 when unparseable.
func Px(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// sortByUsage sorts descending by usage with a stable value tie-break so
// output order is deterministic across runs.
func sortByUsage[T any](s []T, key func(T) (int, string)) {
	sort.SliceStable(s, func(i, j int) bool {
		ui, vi := key(s[i])
		uj, vj := key(s[j])
		if ui != uj {
			return ui > uj
		}
		return vi < vj
	})
}
