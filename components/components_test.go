package components

import (
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/structhash"
)

func hashedCard(text string) *bridge.BridgeNode {
	n := &bridge.BridgeNode{
		Tag:  "div",
		Type: bridge.NodeFrame,
		Styles: map[string]string{
			"display":        "flex",
			"flex-direction": "column",
		},
		Children: []*bridge.BridgeNode{
			{Tag: "img", Type: bridge.NodeImage},
			{Tag: "h3", Type: bridge.NodeText, Text: text},
		},
	}
	n.ComponentHash = structhash.Hash(n)
	return n
}

func treeWith(children ...*bridge.BridgeNode) *bridge.BridgeNode {
	root := &bridge.BridgeNode{Tag: "body", Type: bridge.NodeFrame, Children: children}
	root.ComponentHash = structhash.Hash(root)
	return root
}

func TestDetectThreeIdenticalSiblings(t *testing.T) {
	root := treeWith(hashedCard("one"), hashedCard("two"), hashedCard("three"))

	comps := Detect(root, DefaultThreshold)
	if len(comps) != 1 {
		t.Fatalf("components: got %d, want 1", len(comps))
	}
	c := comps[0]
	if len(c.Instances) != 3 {
		t.Errorf("instances: got %d, want 3", len(c.Instances))
	}
	if c.Representative != c.Instances[0] {
		t.Error("representative is not the first instance")
	}
	if c.Hash == "" {
		t.Error("empty hash")
	}
}

func TestDetectBelowThreshold(t *testing.T) {
	root := treeWith(hashedCard("one"), hashedCard("two"))
	if comps := Detect(root, DefaultThreshold); len(comps) != 0 {
		t.Errorf("components: got %d, want 0", len(comps))
	}
}

func TestDetectIgnoresLeaves(t *testing.T) {
	leaves := make([]*bridge.BridgeNode, 5)
	for i := range leaves {
		n := &bridge.BridgeNode{Tag: "span", Type: bridge.NodeText, Text: "x"}
		n.ComponentHash = structhash.Hash(n)
		leaves[i] = n
	}
	root := treeWith(leaves...)
	if comps := Detect(root, DefaultThreshold); len(comps) != 0 {
		t.Errorf("leaf components: got %d, want 0", len(comps))
	}
}

func TestDetectBoundaries(t *testing.T) {
	mk := func() *bridge.BridgeNode {
		n := hashedCard("x")
		n.DataAttrs = map[string]string{"data-framer-name": "HeroCard"}
		return n
	}
	root := treeWith(mk(), mk())

	comps := DetectBoundaries(root, BoundaryThreshold)
	if len(comps) != 1 {
		t.Fatalf("boundaries: got %d, want 1", len(comps))
	}
	if comps[0].Name != "Hero Card" {
		t.Errorf("Name: got %q, want %q", comps[0].Name, "Hero Card")
	}
	if len(comps[0].Instances) != 2 {
		t.Errorf("instances: got %d, want 2", len(comps[0].Instances))
	}
}

func TestMergeNamedWins(t *testing.T) {
	named := hashedCard("a")
	named.DataAttrs = map[string]string{"data-framer-name": "Card"}
	named2 := hashedCard("b")
	named2.DataAttrs = map[string]string{"data-framer-name": "Card"}
	plain := hashedCard("c")

	root := treeWith(named, named2, plain)

	hashed := Detect(root, DefaultThreshold)
	if len(hashed) != 1 {
		t.Fatalf("hash groups: got %d, want 1", len(hashed))
	}
	boundaries := DetectBoundaries(root, BoundaryThreshold)
	if len(boundaries) != 1 {
		t.Fatalf("boundary groups: got %d, want 1", len(boundaries))
	}

	merged := Merge(hashed, boundaries)
	if len(merged) != 1 {
		t.Fatalf("merged: got %d, want 1 (named wins, hash group dropped)", len(merged))
	}
	if merged[0].Name != "Card" {
		t.Errorf("Name: got %q, want Card", merged[0].Name)
	}
}

func TestMergeSortedByInstanceCount(t *testing.T) {
	a := bridge.DetectedComponent{Hash: "h1", Name: "A", Instances: make([]*bridge.BridgeNode, 3)}
	b := bridge.DetectedComponent{Hash: "h2", Name: "B", Instances: make([]*bridge.BridgeNode, 5)}
	for i := range a.Instances {
		a.Instances[i] = &bridge.BridgeNode{ComponentHash: "h1"}
	}
	for i := range b.Instances {
		b.Instances[i] = &bridge.BridgeNode{ComponentHash: "h2"}
	}

	merged := Merge([]bridge.DetectedComponent{a, b}, nil)
	if merged[0].Name != "B" {
		t.Errorf("sort order: got %q first, want B", merged[0].Name)
	}
}

func TestCleanBoundaryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HeroSection", "Hero Section"},
		{"hero__a1b2c", "hero"},
		{"card_x9k2mfq", "card"},
		{"framer-HeroCard", "Hero Card"},
		{"Pricing   Table", "Pricing Table"},
		{"FAQList", "FAQ List"},
		{"  nav  ", "nav"},
	}
	for _, tt := range tests {
		if got := CleanBoundaryName(tt.in); got != tt.want {
			t.Errorf("CleanBoundaryName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
