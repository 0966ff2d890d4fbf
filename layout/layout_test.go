package layout

import (
	"testing"

	"github.com/pagebridge/pagebridge/bridge"
)

func TestInferNonFlex(t *testing.T) {
	info := Infer(ComputedBox{
		Display:     "block",
		PaddingTop:  "10px",
		PaddingLeft: "20px",
	})
	if info.IsAutoLayout {
		t.Error("IsAutoLayout: got true, want false")
	}
	if info.Direction != bridge.DirNone {
		t.Errorf("Direction: got %q, want %q", info.Direction, bridge.DirNone)
	}
	// Padding is extracted regardless of auto layout.
	if info.Padding.Top != 10 || info.Padding.Left != 20 {
		t.Errorf("Padding: got %+v", info.Padding)
	}
}

func TestInferFlexColumn(t *testing.T) {
	info := Infer(ComputedBox{
		Display:        "flex",
		FlexDirection:  "column",
		Gap:            "16px",
		JustifyContent: "center",
	})
	if !info.IsAutoLayout {
		t.Fatal("IsAutoLayout: got false, want true")
	}
	if info.Direction != bridge.DirVertical {
		t.Errorf("Direction: got %q, want vertical", info.Direction)
	}
	if info.Gap != 16 {
		t.Errorf("Gap: got %v, want 16", info.Gap)
	}
	if info.MainAxisAlignment != bridge.AlignCenter {
		t.Errorf("MainAxisAlignment: got %q, want center", info.MainAxisAlignment)
	}
}

func TestInferFlexDirectionMapping(t *testing.T) {
	tests := []struct {
		dir  string
		want bridge.Direction
	}{
		{"row", bridge.DirHorizontal},
		{"row-reverse", bridge.DirHorizontal},
		{"column", bridge.DirVertical},
		{"column-reverse", bridge.DirVertical},
		{"", bridge.DirHorizontal},
	}
	for _, tt := range tests {
		info := Infer(ComputedBox{Display: "flex", FlexDirection: tt.dir})
		if info.Direction != tt.want {
			t.Errorf("direction %q: got %q, want %q", tt.dir, info.Direction, tt.want)
		}
	}
}

func TestInferWrap(t *testing.T) {
	for _, tt := range []struct {
		wrap string
		want bool
	}{
		{"wrap", true},
		{"wrap-reverse", true},
		{"nowrap", false},
		{"", false},
	} {
		info := Infer(ComputedBox{Display: "flex", FlexWrap: tt.wrap})
		if info.Wrap != tt.want {
			t.Errorf("wrap %q: got %v, want %v", tt.wrap, info.Wrap, tt.want)
		}
	}
}

func TestInferGridApproximation(t *testing.T) {
	multi := Infer(ComputedBox{Display: "grid", GridTemplateColumns: "200px 200px 200px"})
	if multi.Direction != bridge.DirHorizontal || !multi.Wrap {
		t.Errorf("multi-column grid: got %q wrap=%v, want horizontal wrap=true",
			multi.Direction, multi.Wrap)
	}

	single := Infer(ComputedBox{Display: "grid", GridTemplateColumns: "1fr"})
	if single.Direction != bridge.DirVertical || single.Wrap {
		t.Errorf("single-column grid: got %q wrap=%v, want vertical wrap=false",
			single.Direction, single.Wrap)
	}
}

func TestInferGapFallback(t *testing.T) {
	info := Infer(ComputedBox{Display: "flex", RowGap: "8px"})
	if info.Gap != 8 {
		t.Errorf("row-gap fallback: got %v, want 8", info.Gap)
	}
	info = Infer(ComputedBox{Display: "flex"})
	if info.Gap != 0 {
		t.Errorf("no gap: got %v, want 0", info.Gap)
	}
}

func TestInferSizing(t *testing.T) {
	tests := []struct {
		name string
		box  ComputedBox
		want bridge.SizingMode
	}{
		{"percent fill", ComputedBox{RawWidth: "100%"}, bridge.SizingFill},
		{"grow fill", ComputedBox{RawWidth: "300px", FlexGrow: "1"}, bridge.SizingFill},
		{"parent fill", ComputedBox{RawWidth: "1200px", Width: 1200, ParentWidth: 1200}, bridge.SizingFill},
		{"auto hug", ComputedBox{RawWidth: "auto", Width: 300, ParentWidth: 1200}, bridge.SizingHug},
		{"fit-content hug", ComputedBox{RawWidth: "fit-content"}, bridge.SizingHug},
		{"fixed", ComputedBox{RawWidth: "320px", Width: 320, ParentWidth: 1200}, bridge.SizingFixed},
	}
	for _, tt := range tests {
		info := Infer(tt.box)
		if info.Sizing.Width != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, info.Sizing.Width, tt.want)
		}
	}
}

func TestInferGrowFollowsParentAxis(t *testing.T) {
	// flex-grow fills the parent's main axis, not always the width.
	col := Infer(ComputedBox{
		RawWidth: "300px", RawHeight: "auto",
		FlexGrow:            "1",
		ParentFlexDirection: "column",
	})
	if col.Sizing.Height != bridge.SizingFill {
		t.Errorf("column parent height: got %q, want fill", col.Sizing.Height)
	}
	if col.Sizing.Width == bridge.SizingFill {
		t.Error("column parent width: grow leaked onto the cross axis")
	}

	row := Infer(ComputedBox{
		RawWidth: "300px", RawHeight: "auto",
		FlexGrow:            "1",
		ParentFlexDirection: "row",
	})
	if row.Sizing.Width != bridge.SizingFill {
		t.Errorf("row parent width: got %q, want fill", row.Sizing.Width)
	}
}

func TestAlignmentSynonyms(t *testing.T) {
	tests := []struct {
		in   string
		want bridge.Align
	}{
		{"flex-end", bridge.AlignEnd},
		{"end", bridge.AlignEnd},
		{"right", bridge.AlignEnd},
		{"center", bridge.AlignCenter},
		{"safe center", bridge.AlignCenter},
		{"space-between", bridge.AlignSpaceBetween},
		{"flex-start", bridge.AlignStart},
		{"", bridge.AlignStart},
	}
	for _, tt := range tests {
		info := Infer(ComputedBox{Display: "flex", JustifyContent: tt.in})
		if info.MainAxisAlignment != tt.want {
			t.Errorf("justify %q: got %q, want %q", tt.in, info.MainAxisAlignment, tt.want)
		}
	}
}

func TestInferIsPure(t *testing.T) {
	box := ComputedBox{Display: "flex", FlexDirection: "column", Gap: "12px"}
	a := Infer(box)
	b := Infer(box)
	if a != b {
		t.Errorf("Infer not pure: %+v != %+v", a, b)
	}
}
