package reimport

import (
	"context"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/dbopen"
)

func testTree() *bridge.BridgeNode {
	return &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{Width: 1440, Height: 900},
		Children: []*bridge.BridgeNode{
			{
				Tag: "div", Type: bridge.NodeFrame, Visible: true,
				Bounds: bridge.Rect{Y: 0, Width: 1440, Height: 400},
				Styles: map[string]string{"background-color": "rgb(255, 255, 255)"},
				Children: []*bridge.BridgeNode{
					{Tag: "h1", Type: bridge.NodeText, Text: "Hello", Visible: true,
						Bounds: bridge.Rect{Width: 300, Height: 40}},
					{Tag: "p", Type: bridge.NodeText, Text: "World", Visible: true,
						Bounds: bridge.Rect{Y: 40, Width: 300, Height: 20}},
				},
			},
			{Tag: "footer", Type: bridge.NodeFrame, Visible: true,
				Bounds: bridge.Rect{Y: 400, Width: 1440, Height: 100}},
		},
	}
}

func TestFingerprintIgnoresPosition(t *testing.T) {
	a := &bridge.BridgeNode{Tag: "div", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{X: 0, Y: 0, Width: 100, Height: 50}}
	b := &bridge.BridgeNode{Tag: "div", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{X: 500, Y: 900, Width: 100, Height: 50}}
	if ComputeFingerprint(a) != ComputeFingerprint(b) {
		t.Error("fingerprint should ignore x/y")
	}

	b.Bounds.Width = 200
	if ComputeFingerprint(a) == ComputeFingerprint(b) {
		t.Error("fingerprint should include size")
	}
}

func TestFingerprintIgnoresChildren(t *testing.T) {
	a := &bridge.BridgeNode{Tag: "div", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{Width: 100, Height: 50}}
	b := &bridge.BridgeNode{Tag: "div", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{Width: 100, Height: 50},
		Children: []*bridge.BridgeNode{
			{Tag: "span", Type: bridge.NodeText, Text: "x", Visible: true},
		}}
	if ComputeFingerprint(a) != ComputeFingerprint(b) {
		t.Error("fingerprint should exclude children")
	}
}

func TestBuildFingerprintMapPaths(t *testing.T) {
	m := BuildFingerprintMap(testTree())
	for _, path := range []string{"root", "root-0", "root-0-0", "root-0-1", "root-1"} {
		if _, ok := m[path]; !ok {
			t.Errorf("missing path %q", path)
		}
	}
	if len(m) != 5 {
		t.Errorf("map size: got %d, want 5", len(m))
	}
}

func TestDiffIdempotent(t *testing.T) {
	tree := testTree()
	d := ComputeDiff(BuildFingerprintMap(tree), BuildFingerprintMap(tree))
	if d.Added != 0 || d.Removed != 0 || d.Modified != 0 {
		t.Errorf("self-diff: added=%d removed=%d modified=%d, want all 0",
			d.Added, d.Removed, d.Modified)
	}
	if d.Unchanged != 5 {
		t.Errorf("unchanged: got %d, want 5", d.Unchanged)
	}
	if len(d.Changes) != 0 {
		t.Errorf("changes: got %d, want 0", len(d.Changes))
	}
}

func TestDiffSensitivity(t *testing.T) {
	before := BuildFingerprintMap(testTree())

	mutated := testTree()
	mutated.Children[0].Children[0].Text = "Goodbye"
	after := BuildFingerprintMap(mutated)

	d := ComputeDiff(after, before)
	if d.Modified != 1 {
		t.Fatalf("modified: got %d, want 1", d.Modified)
	}
	if d.Changes[0].Path != "root-0-0" {
		t.Errorf("modified path: got %q, want root-0-0", d.Changes[0].Path)
	}
	// Ancestors are not re-fingerprinted transitively.
	if d.Unchanged != 4 {
		t.Errorf("unchanged: got %d, want 4", d.Unchanged)
	}
}

func TestDiffAddedRemoved(t *testing.T) {
	before := BuildFingerprintMap(testTree())

	grown := testTree()
	grown.Children[0].Children = append(grown.Children[0].Children,
		&bridge.BridgeNode{Tag: "a", Type: bridge.NodeText, Text: "link", Visible: true})
	after := BuildFingerprintMap(grown)

	d := ComputeDiff(after, before)
	if d.Added != 1 || d.Removed != 0 {
		t.Errorf("added=%d removed=%d, want 1/0", d.Added, d.Removed)
	}

	rev := ComputeDiff(before, after)
	if rev.Added != 0 || rev.Removed != 1 {
		t.Errorf("reverse: added=%d removed=%d, want 0/1", rev.Added, rev.Removed)
	}
}

func TestParentPath(t *testing.T) {
	cases := map[string]string{
		"root":     "",
		"root-0":   "root",
		"root-0-3": "root-0",
	}
	for in, want := range cases {
		if got := ParentPath(in); got != want {
			t.Errorf("ParentPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewStore(db)
	ctx := context.Background()

	m := BuildFingerprintMap(testTree())
	m["root-0"] = Entry{Fingerprint: m["root-0"].Fingerprint, NodeID: "node_abc"}

	if err := store.Save(ctx, "https://example.com", m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(m) {
		t.Fatalf("size: got %d, want %d", len(got), len(m))
	}
	if got["root-0"].NodeID != "node_abc" {
		t.Errorf("node ID: got %q", got["root-0"].NodeID)
	}

	// Save replaces, not appends.
	if err := store.Save(ctx, "https://example.com", map[string]Entry{"root": {Fingerprint: "f"}}); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, err = store.Load(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("after replace: got %d entries, want 1", len(got))
	}
}

func TestStoreLoadUnknownURL(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	got, err := NewStore(db).Load(context.Background(), "https://never-saved.example")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}
