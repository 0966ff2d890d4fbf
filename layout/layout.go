// Package layout infers a generalized auto-layout descriptor from a box's
// computed flow properties. Infer is a pure function: the same ComputedBox
// always yields the same LayoutInfo, independent of call order.
package layout

import (
	"strconv"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
)

// ComputedBox carries the raw computed values layout inference consumes.
// String fields hold the computed CSS serialization; RawWidth/RawHeight hold
// the authored values ("auto", "100%", "fit-content", a length) because the
// computed form always resolves to pixels and loses the sizing intent.
type ComputedBox struct {
	Display             string
	FlexDirection       string
	FlexWrap            string
	FlexGrow            string
	Gap                 string
	RowGap              string
	JustifyContent      string
	AlignItems          string
	PaddingTop          string
	PaddingRight        string
	PaddingBottom       string
	PaddingLeft         string
	GridTemplateColumns string
	RawWidth            string
	RawHeight           string

	// ParentFlexDirection is the parent's flex-direction when the parent is
	// a flex container, empty otherwise. It decides which axis flex-grow
	// fills.
	ParentFlexDirection string

	// Geometry for the 100%-of-axis fill test.
	Width        float64
	Height       float64
	ParentWidth  float64
	ParentHeight float64
}

// Infer maps a box's flow mode to an auto-layout descriptor. Non-flex,
// non-grid boxes come back with IsAutoLayout=false and direction none, but
// padding is still extracted: padding is independent of auto layout.
func Infer(box ComputedBox) bridge.LayoutInfo {
	// flex-grow fills the parent's main axis: the height for column
	// parents, the width otherwise.
	growWidth, growHeight := box.FlexGrow, ""
	if strings.HasPrefix(strings.TrimSpace(box.ParentFlexDirection), "column") {
		growWidth, growHeight = "", box.FlexGrow
	}

	info := bridge.LayoutInfo{
		Direction:          bridge.DirNone,
		Padding:            inferPadding(box),
		MainAxisAlignment:  bridge.AlignStart,
		CrossAxisAlignment: bridge.AlignStart,
		Sizing: bridge.Sizing{
			Width:  inferSizing(box.RawWidth, growWidth, box.Width, box.ParentWidth),
			Height: inferSizing(box.RawHeight, growHeight, box.Height, box.ParentHeight),
		},
	}

	display := strings.TrimSpace(box.Display)
	isFlex := display == "flex" || display == "inline-flex"
	isGrid := display == "grid" || display == "inline-grid"
	if !isFlex && !isGrid {
		return info
	}

	info.IsAutoLayout = true
	info.Gap = inferGap(box.Gap, box.RowGap)
	info.MainAxisAlignment = mapAlignment(box.JustifyContent)
	info.CrossAxisAlignment = mapCrossAlignment(box.AlignItems)

	if isFlex {
		switch box.FlexDirection {
		case "column", "column-reverse":
			info.Direction = bridge.DirVertical
		default:
			info.Direction = bridge.DirHorizontal
		}
		info.Wrap = box.FlexWrap == "wrap" || box.FlexWrap == "wrap-reverse"
		return info
	}

	// Grid approximation: single-track grids stack vertically; multi-column
	// grids become wrapping rows. A heuristic, not a grid-track model.
	if countGridTracks(box.GridTemplateColumns) > 1 {
		info.Direction = bridge.DirHorizontal
		info.Wrap = true
	} else {
		info.Direction = bridge.DirVertical
	}
	return info
}

func inferPadding(box ComputedBox) bridge.Padding {
	return bridge.Padding{
		Top:    pxValue(box.PaddingTop),
		Right:  pxValue(box.PaddingRight),
		Bottom: pxValue(box.PaddingBottom),
		Left:   pxValue(box.PaddingLeft),
	}
}

// inferGap falls back from the combined gap to row-gap to 0.
func inferGap(gap, rowGap string) float64 {
	if v := pxValue(gap); v > 0 {
		return v
	}
	return pxValue(rowGap)
}

// inferSizing decides the per-axis sizing mode: fill when the box occupies
// 100% of its axis or grows, hug when the raw size is content-driven,
// otherwise fixed.
func inferSizing(raw, flexGrow string, size, parentSize float64) bridge.SizingMode {
	raw = strings.TrimSpace(raw)
	if raw == "100%" {
		return bridge.SizingFill
	}
	if g, err := strconv.ParseFloat(strings.TrimSpace(flexGrow), 64); err == nil && g > 0 {
		return bridge.SizingFill
	}
	if parentSize > 0 && size > 0 && parentSize-size <= 1 && parentSize-size >= -1 {
		return bridge.SizingFill
	}
	switch raw {
	case "auto", "fit-content", "min-content", "max-content", "":
		return bridge.SizingHug
	}
	return bridge.SizingFixed
}

// mapAlignment is substring-based and order-insensitive across vendor-style
// synonyms: flex-end/end/right collapse to end.
func mapAlignment(v string) bridge.Align {
	switch {
	case strings.Contains(v, "space-between"):
		return bridge.AlignSpaceBetween
	case strings.Contains(v, "end") || strings.Contains(v, "right"):
		return bridge.AlignEnd
	case strings.Contains(v, "center"):
		return bridge.AlignCenter
	default:
		return bridge.AlignStart
	}
}

func mapCrossAlignment(v string) bridge.Align {
	switch {
	case strings.Contains(v, "stretch"):
		return bridge.AlignStretch
	case strings.Contains(v, "end") || strings.Contains(v, "right"):
		return bridge.AlignEnd
	case strings.Contains(v, "center"):
		return bridge.AlignCenter
	default:
		return bridge.AlignStart
	}
}

// countGridTracks counts top-level tracks in a grid-template-columns value.
// Computed grid templates serialise as space-separated track sizes; "none"
// and the empty string are zero tracks.
func countGridTracks(v string) int {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return 0
	}
	depth := 0
	tracks := 1
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ':
			if depth == 0 {
				tracks++
			}
		}
	}
	return tracks
}

func pxValue(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
