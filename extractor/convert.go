package extractor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/layout"
	"github.com/pagebridge/pagebridge/structhash"
)

// textTags are the content tags classified as text when they carry no
// element children.
var textTags = map[string]bool{
	"p": true, "span": true, "a": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"label": true, "button": true, "strong": true, "em": true, "b": true,
	"i": true, "small": true, "blockquote": true, "figcaption": true,
	"dt": true, "dd": true, "caption": true, "legend": true, "summary": true,
	"pre": true, "code": true, "time": true,
}

var inputTags = map[string]bool{
	"input": true, "textarea": true, "select": true,
}

// placeholderTags render as an unknown placeholder frame, per the non-goal
// of not interpreting embedded rendering surfaces.
var placeholderTags = map[string]bool{
	"canvas": true, "iframe": true, "embed": true, "object": true,
}

// svgPolicy keeps structural and shape markup of an inline SVG and strips
// scripts and event handlers.
var svgPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"svg", "g", "path", "circle", "ellipse", "rect", "line", "polyline",
		"polygon", "defs", "use", "symbol", "mask", "clipPath", "pattern",
		"linearGradient", "radialGradient", "stop", "text", "tspan", "title",
	)
	p.AllowAttrs(
		"d", "fill", "stroke", "stroke-width", "stroke-linecap",
		"stroke-linejoin", "stroke-dasharray", "fill-rule", "clip-rule",
		"cx", "cy", "r", "rx", "ry", "x", "y", "x1", "y1", "x2", "y2",
		"width", "height", "viewBox", "xmlns", "points", "transform",
		"opacity", "fill-opacity", "stroke-opacity", "offset", "stop-color",
		"stop-opacity", "gradientUnits", "gradientTransform", "href", "id",
		"class",
	).Globally()
	p.SkipElementsContent("script", "style", "foreignObject")
	return p
}()

// convertTree turns the raw walker output into a BridgeNode tree, running
// layout inference and structural hashing per node.
func convertTree(raw *rawNode, maxDepth int) *bridge.BridgeNode {
	return convertNode(raw, nil, 0, maxDepth)
}

func convertNode(raw *rawNode, parent *rawNode, depth, maxDepth int) *bridge.BridgeNode {
	if raw == nil {
		return nil
	}

	n := &bridge.BridgeNode{
		Tag:       raw.Tag,
		Bounds:    raw.Rect,
		Visible:   raw.Visible,
		Styles:    raw.Styles,
		Classes:   raw.Classes,
		Role:      raw.Role,
		DataAttrs: raw.Data,
	}
	n.Type = classify(raw)
	n.Layout = layout.Infer(computedBox(raw, parent))

	switch n.Type {
	case bridge.NodeText:
		n.Text = flattenText(raw)
	case bridge.NodeSVG:
		n.VectorMarkup = svgPolicy.Sanitize(raw.SVG)
	case bridge.NodeImage, bridge.NodeVideo:
		n.ImageURL = raw.ImageURL
	}

	// Beyond the depth cap the node itself still appears, children are not
	// visited.
	if depth < maxDepth {
		for _, c := range raw.Children {
			if child := convertNode(c, raw, depth+1, maxDepth); child != nil {
				n.Children = append(n.Children, child)
			}
		}
	}

	if before := pseudoNode(raw.Before, "before", raw); before != nil {
		n.Children = append([]*bridge.BridgeNode{before}, n.Children...)
	}
	if after := pseudoNode(raw.After, "after", raw); after != nil {
		n.Children = append(n.Children, after)
	}

	n.ComponentHash = structhash.Hash(n)
	return n
}

func classify(raw *rawNode) bridge.NodeType {
	switch {
	case raw.SVG != "":
		return bridge.NodeSVG
	case raw.Tag == "img" || raw.Tag == "picture":
		return bridge.NodeImage
	case raw.Tag == "video":
		return bridge.NodeVideo
	case inputTags[raw.Tag]:
		return bridge.NodeInput
	case placeholderTags[raw.Tag]:
		return bridge.NodeUnknown
	case raw.TextOnly && textTags[raw.Tag]:
		return bridge.NodeText
	case raw.TextOnly && len(raw.Children) == 0:
		// A div holding nothing but text still reads as text.
		return bridge.NodeText
	default:
		return bridge.NodeFrame
	}
}

// flattenText returns the node's literal text. Inline formatting markup is
// flattened to markdown so emphasis and links survive the round trip; on
// conversion failure the plain text wins.
func flattenText(raw *rawNode) string {
	if raw.HTML == "" {
		return raw.Text
	}
	md, err := htmltomarkdown.ConvertString(raw.HTML)
	if err != nil {
		return raw.Text
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return raw.Text
	}
	return md
}

// pseudoNode synthesizes a decorative ::before/::after child.
func pseudoNode(p *rawPseudo, tag string, host *rawNode) *bridge.BridgeNode {
	if p == nil {
		return nil
	}
	n := &bridge.BridgeNode{
		Tag:     tag,
		Type:    bridge.NodeFrame,
		Styles:  p.Styles,
		Visible: true,
		Bounds:  bridge.Rect{X: host.Rect.X, Y: host.Rect.Y, Width: p.Width, Height: p.Height},
	}
	if p.Content != "" && p.Content != `""` {
		n.Type = bridge.NodeText
		n.Text = p.Content
	}
	n.ComponentHash = structhash.Hash(n)
	return n
}

func computedBox(raw *rawNode, parent *rawNode) layout.ComputedBox {
	s := func(prop string) string { return raw.Styles[prop] }
	box := layout.ComputedBox{
		Display:             s("display"),
		FlexDirection:       s("flex-direction"),
		FlexWrap:            s("flex-wrap"),
		FlexGrow:            s("flex-grow"),
		Gap:                 s("gap"),
		RowGap:              s("row-gap"),
		JustifyContent:      s("justify-content"),
		AlignItems:          s("align-items"),
		PaddingTop:          s("padding-top"),
		PaddingRight:        s("padding-right"),
		PaddingBottom:       s("padding-bottom"),
		PaddingLeft:         s("padding-left"),
		GridTemplateColumns: s("grid-template-columns"),
		RawWidth:            raw.Raw.Width,
		RawHeight:           raw.Raw.Height,
		Width:               raw.Rect.Width,
		Height:              raw.Rect.Height,
	}
	if parent != nil {
		box.ParentWidth = parent.Rect.Width
		box.ParentHeight = parent.Rect.Height
		if d := parent.Styles["display"]; d == "flex" || d == "inline-flex" {
			box.ParentFlexDirection = parent.Styles["flex-direction"]
			if box.ParentFlexDirection == "" {
				box.ParentFlexDirection = "row"
			}
		}
	}
	return box
}
