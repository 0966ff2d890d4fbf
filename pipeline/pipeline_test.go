package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/generate/memdoc"
	"github.com/pagebridge/pagebridge/structhash"
)

func testResult(width int) *bridge.ExtractionResult {
	card := func(text string) *bridge.BridgeNode {
		return &bridge.BridgeNode{
			Tag: "li", Type: bridge.NodeFrame, Visible: true,
			Bounds: bridge.Rect{Width: 300, Height: 80},
			Children: []*bridge.BridgeNode{
				{Tag: "span", Type: bridge.NodeText, Text: text, Visible: true,
					Bounds: bridge.Rect{Width: 280, Height: 20},
					Styles: map[string]string{"font-family": "Inter", "font-size": "14px"}},
			},
		}
	}
	root := &bridge.BridgeNode{
		Tag: "body", Type: bridge.NodeFrame, Visible: true,
		Bounds: bridge.Rect{Width: float64(width), Height: 900},
		Children: []*bridge.BridgeNode{
			{Tag: "h1", Type: bridge.NodeText, Text: "Hello", Visible: true,
				Bounds: bridge.Rect{Width: 400, Height: 48},
				Styles: map[string]string{"font-family": "Inter", "font-size": "32px", "font-weight": "700"}},
			{Tag: "ul", Type: bridge.NodeFrame, Visible: true,
				Bounds:   bridge.Rect{Y: 48, Width: 900, Height: 240},
				Children: []*bridge.BridgeNode{card("one"), card("two"), card("three")}},
		},
	}
	ul := root.Children[1]
	for _, c := range ul.Children {
		c.ComponentHash = structhash.Hash(c)
	}

	return &bridge.ExtractionResult{
		URL:      "https://example.com",
		Viewport: bridge.Viewport{Width: width, Height: 900},
		Root:     root,
		Components: []bridge.DetectedComponent{{
			Hash:           ul.Children[0].ComponentHash,
			Name:           "List Item",
			Instances:      ul.Children,
			Representative: ul.Children[0],
		}},
		Meta: bridge.PageMeta{Title: "Example"},
	}
}

func testPayload(t *testing.T) []byte {
	t.Helper()
	data, err := bridge.MarshalResult(testResult(1440))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func newTestPipeline(t *testing.T, storePath string) *Pipeline {
	t.Helper()
	cfg := Default()
	cfg.Extractor.Mode = "http"
	cfg.StorePath = storePath
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestConvertEndToEnd(t *testing.T) {
	p := newTestPipeline(t, "")
	doc := memdoc.New()

	report, err := p.Convert(context.Background(), doc, testPayload(t))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if report.Variants != 1 {
		t.Errorf("variants: got %d, want 1", report.Variants)
	}
	if report.Stats.Components != 1 || report.Stats.Instances != 2 {
		t.Errorf("components/instances: %+v", report.Stats)
	}
	if report.Fingerprints == 0 {
		t.Error("no fingerprints counted")
	}
	if report.ConversionID == "" {
		t.Error("empty conversion ID")
	}
	if doc.CountKind("variant-group") != 1 {
		t.Error("no variant group created")
	}
}

func TestConvertIsConversionScoped(t *testing.T) {
	p := newTestPipeline(t, "")

	first, err := p.Convert(context.Background(), memdoc.New(), testPayload(t))
	if err != nil {
		t.Fatalf("first Convert: %v", err)
	}
	second, err := p.Convert(context.Background(), memdoc.New(), testPayload(t))
	if err != nil {
		t.Fatalf("second Convert: %v", err)
	}

	// No cross-run leakage: identical inputs yield identical counts, and
	// each run gets its own ID.
	if first.Stats != second.Stats {
		t.Errorf("stats drifted between runs: %+v vs %+v", first.Stats, second.Stats)
	}
	if first.ConversionID == second.ConversionID {
		t.Error("conversion IDs must be unique per run")
	}
}

func TestConvertMalformedPayloadIsTerminal(t *testing.T) {
	p := newTestPipeline(t, "")
	doc := memdoc.New()

	if _, err := p.Convert(context.Background(), doc, []byte(`{"nope":`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := p.Convert(context.Background(), doc, []byte(`{"hello":"world"}`)); err == nil {
		t.Fatal("expected error for schema mismatch")
	}
	// Nothing partial committed.
	if len(doc.Nodes) != 0 {
		t.Errorf("nodes created from malformed payload: %d", len(doc.Nodes))
	}
}

func TestDiffPayloads(t *testing.T) {
	p := newTestPipeline(t, "")

	oldPayload := testPayload(t)

	changed := testResult(1440)
	changed.Root.Children[0].Text = "Goodbye"
	newPayload, err := bridge.MarshalResult(changed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	d, err := p.DiffPayloads(oldPayload, newPayload)
	if err != nil {
		t.Fatalf("DiffPayloads: %v", err)
	}
	if d.Modified != 1 || d.Added != 0 || d.Removed != 0 {
		t.Errorf("diff: %+v", d)
	}
	if len(d.Changes) != 1 || d.Changes[0].Path != "root-0" {
		t.Errorf("changes: %+v", d.Changes)
	}
}

func TestConvertThenDiffStored(t *testing.T) {
	store := filepath.Join(t.TempDir(), "fp.db")
	p := newTestPipeline(t, store)
	ctx := context.Background()

	payload := testPayload(t)
	if _, err := p.Convert(ctx, memdoc.New(), payload); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	d, err := p.DiffStored(ctx, payload)
	if err != nil {
		t.Fatalf("DiffStored: %v", err)
	}
	if d.Modified != 0 || d.Added != 0 || d.Removed != 0 {
		t.Errorf("unchanged payload should diff clean: %+v", d)
	}
	if d.Unchanged == 0 {
		t.Error("unchanged count should be positive")
	}
}
