package tokens

import (
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
)

func textNode(tag, color, size string) *bridge.BridgeNode {
	return &bridge.BridgeNode{
		Tag:  tag,
		Type: bridge.NodeText,
		Styles: map[string]string{
			"color":       color,
			"font-family": "Inter, sans-serif",
			"font-size":   size,
		},
	}
}

func TestScanColorsDedup(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			textNode("p", "rgb(51, 51, 51)", "16px"),
			textNode("p", "#333333", "16px"),
			textNode("span", "rgb(51,51,51)", "14px"),
		},
	}

	colors := ScanColors(root, nil)
	if len(colors) != 1 {
		t.Fatalf("colors: got %d, want 1", len(colors))
	}
	if colors[0].Value != "#333333" {
		t.Errorf("Value: got %q, want #333333", colors[0].Value)
	}
	if colors[0].UsageCount != 3 {
		t.Errorf("UsageCount: got %d, want 3", colors[0].UsageCount)
	}
}

func TestScanColorsSkipsTransparentAndInvalid(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "div", Type: bridge.NodeFrame,
		Styles: map[string]string{
			"color":            "transparent",
			"background-color": "rgba(0,0,0,0)",
			"border-color":     "hsl(10, 20%, 30%)",
		},
	}
	if colors := ScanColors(root, nil); len(colors) != 0 {
		t.Errorf("colors: got %v, want empty", colors)
	}
}

func TestScanColorsSourceVariable(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "div", Type: bridge.NodeFrame,
		Styles: map[string]string{"background-color": "rgb(255, 87, 51)"},
	}
	vars := CollectVariables([]RawVariable{{Name: "--brand-primary", Value: "#ff5733"}})
	colors := ScanColors(root, vars)
	if len(colors) != 1 {
		t.Fatalf("colors: got %d, want 1", len(colors))
	}
	if colors[0].SourceVariable != "--brand-primary" {
		t.Errorf("SourceVariable: got %q, want --brand-primary", colors[0].SourceVariable)
	}
}

func TestScanColorsSortedByUsage(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			textNode("p", "#111111", "16px"),
			textNode("p", "#222222", "16px"),
			textNode("p", "#222222", "16px"),
		},
	}
	colors := ScanColors(root, nil)
	if len(colors) != 2 {
		t.Fatalf("colors: got %d, want 2", len(colors))
	}
	if colors[0].Value != "#222222" || colors[0].UsageCount != 2 {
		t.Errorf("first token: got %+v, want #222222 x2", colors[0])
	}
}

func TestScanColorsBorderSides(t *testing.T) {
	// The walker emits the per-side border-top-color; hand-built payloads
	// may carry the shorthand. Both count toward the same token.
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"border-top-color": "rgb(255, 0, 0)"}},
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"border-color": "#ff0000"}},
		},
	}
	colors := ScanColors(root, nil)
	if len(colors) != 1 {
		t.Fatalf("colors: got %d, want 1", len(colors))
	}
	if colors[0].Value != "#ff0000" || colors[0].UsageCount != 2 {
		t.Errorf("border color token: got %+v, want #ff0000 x2", colors[0])
	}
}

func TestScanNamesTokens(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			{
				Tag: "h1", Type: bridge.NodeText,
				Styles: map[string]string{
					"font-family": "Inter",
					"font-size":   "32px",
					"font-weight": "700",
				},
			},
			textNode("p", "#333333", "16px"),
			textNode("p", "#333333", "16px"),
			{
				Tag: "div", Type: bridge.NodeFrame,
				Styles: map[string]string{"box-shadow": "0px 2px 4px rgba(0, 0, 0, 0.1)"},
			},
		},
	}

	toks := Scan(root, nil)
	if len(toks.Colors) != 1 || toks.Colors[0].Name != "color/333333" {
		t.Errorf("color names: got %+v", toks.Colors)
	}

	names := map[string]bool{}
	for _, ty := range toks.Typography {
		if ty.Name == "" {
			t.Errorf("unnamed typography token: %+v", ty)
		}
		names[ty.Name] = true
	}
	if !names["text/32-bold"] || !names["text/16-regular"] {
		t.Errorf("typography names: got %v, want text/32-bold and text/16-regular", names)
	}

	if len(toks.Effects) != 1 || toks.Effects[0].Name != "effect/drop-shadow-1" {
		t.Errorf("effect names: got %+v", toks.Effects)
	}
}

func TestScanTypography(t *testing.T) {
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			{
				Tag: "h1", Type: bridge.NodeText,
				Styles: map[string]string{
					"font-family": `"Inter", sans-serif`,
					"font-size":   "32px",
					"font-weight": "700",
				},
			},
			textNode("p", "#333333", "16px"),
			textNode("p", "#333333", "16px"),
			// Non-text tags are not scanned for typography.
			{
				Tag: "div", Type: bridge.NodeFrame,
				Styles: map[string]string{"font-family": "Inter", "font-size": "16px"},
			},
		},
	}

	typo := ScanTypography(root)
	if len(typo) != 2 {
		t.Fatalf("typography: got %d, want 2", len(typo))
	}
	// Sorted by usage: the 16px body pair first.
	if typo[0].Size != 16 || typo[0].UsageCount != 2 {
		t.Errorf("first token: got %+v", typo[0])
	}
	if typo[1].Size != 32 || typo[1].Weight != 700 || typo[1].UsageCount != 1 {
		t.Errorf("second token: got %+v", typo[1])
	}
	if typo[0].Family != "Inter" {
		t.Errorf("Family: got %q, want Inter", typo[0].Family)
	}
}

func TestScanEffects(t *testing.T) {
	shadow := "0px 2px 4px rgba(0, 0, 0, 0.1)"
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame,
		Children: []*bridge.BridgeNode{
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"box-shadow": shadow}},
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"box-shadow": shadow}},
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"box-shadow": "inset 0px 1px 1px rgba(0,0,0,0.3)"}},
			{Tag: "div", Type: bridge.NodeFrame, Styles: map[string]string{"filter": "blur(4px)"}},
		},
	}

	effects := ScanEffects(root)
	if len(effects) != 3 {
		t.Fatalf("effects: got %d, want 3", len(effects))
	}
	if effects[0].Value != shadow || effects[0].UsageCount != 2 {
		t.Errorf("first effect: got %+v", effects[0])
	}
	if effects[0].Kind != bridge.EffectDropShadow {
		t.Errorf("Kind: got %q, want drop-shadow", effects[0].Kind)
	}

	kinds := map[bridge.EffectKind]bool{}
	for _, e := range effects {
		kinds[e.Kind] = true
	}
	if !kinds[bridge.EffectInnerShadow] || !kinds[bridge.EffectBlur] {
		t.Errorf("kinds: got %v, want inner-shadow and blur present", kinds)
	}
}

func TestCollectVariablesFirstSeenWins(t *testing.T) {
	vars := CollectVariables([]RawVariable{
		{Name: "--primary", Value: "#ff0000"},
		{Name: "--primary", Value: "#00ff00"},
		{Name: "--spacing", Value: "16px"},
		{Name: "--title", Value: "Inter"},
	})
	if len(vars) != 3 {
		t.Fatalf("variables: got %d, want 3", len(vars))
	}
	if vars[0].Value != "#ff0000" {
		t.Errorf("first-seen: got %q, want #ff0000", vars[0].Value)
	}
	if vars[0].Kind != bridge.VarColor {
		t.Errorf("color kind: got %q", vars[0].Kind)
	}
	if vars[1].Kind != bridge.VarNumber {
		t.Errorf("number kind: got %q", vars[1].Kind)
	}
	if vars[2].Kind != bridge.VarString {
		t.Errorf("string kind: got %q", vars[2].Kind)
	}
}
