// Package bridge defines the intermediate tree and the wire contract between
// the extraction side and the generation side. These are the public API
// contract: any consumer (relay, canvas plugin, custom pipelines) imports
// this package to produce or receive extraction payloads.
//
// Field names are part of the wire contract and use camelCase: both sides of
// the bridge must agree on every name and on the "multi-viewport" discriminant
// exactly, since the serialized payload is the only channel between them.
package bridge

// NodeType is the closed classification of a BridgeNode.
type NodeType string

const (
	NodeFrame   NodeType = "frame"
	NodeText    NodeType = "text"
	NodeImage   NodeType = "image"
	NodeSVG     NodeType = "svg"
	NodeInput   NodeType = "input"
	NodeVideo   NodeType = "video"
	NodeUnknown NodeType = "unknown"
)

// Rect is a node's geometry in page pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Direction is the main axis of an auto layout.
type Direction string

const (
	DirHorizontal Direction = "horizontal"
	DirVertical   Direction = "vertical"
	DirNone       Direction = "none"
)

// SizingMode describes how a node sizes along one axis.
type SizingMode string

const (
	SizingFixed SizingMode = "fixed"
	SizingHug   SizingMode = "hug"
	SizingFill  SizingMode = "fill"
)

// Align is an axis alignment value.
type Align string

const (
	AlignStart        Align = "start"
	AlignCenter       Align = "center"
	AlignEnd          Align = "end"
	AlignSpaceBetween Align = "space-between"
	AlignStretch      Align = "stretch"
)

// Padding holds per-side padding in pixels.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Sizing holds the per-axis sizing modes.
type Sizing struct {
	Width  SizingMode `json:"width"`
	Height SizingMode `json:"height"`
}

// LayoutInfo is the generalized auto-layout descriptor inferred from a box's
// computed flow properties.
type LayoutInfo struct {
	IsAutoLayout       bool      `json:"isAutoLayout"`
	Direction          Direction `json:"direction"`
	Wrap               bool      `json:"wrap"`
	Gap                float64   `json:"gap"`
	Padding            Padding   `json:"padding"`
	Sizing             Sizing    `json:"sizing"`
	MainAxisAlignment  Align     `json:"mainAxisAlignment"`
	CrossAxisAlignment Align     `json:"crossAxisAlignment"`
}

// BridgeNode is one node of the intermediate tree. Children order is document
// order and must be preserved end-to-end: diffing and variant combination
// address nodes by positional path, not identity.
type BridgeNode struct {
	Tag           string            `json:"tag"`
	Type          NodeType          `json:"type"`
	Children      []*BridgeNode     `json:"children,omitempty"`
	Text          string            `json:"text,omitempty"`
	Styles        map[string]string `json:"styles,omitempty"`
	Layout        LayoutInfo        `json:"layout"`
	Bounds        Rect              `json:"bounds"`
	Visible       bool              `json:"visible"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	ImageBytes    []byte            `json:"imageBytes,omitempty"`
	VectorMarkup  string            `json:"vectorMarkup,omitempty"`
	ComponentHash string            `json:"componentHash,omitempty"`
	Classes       []string          `json:"classes,omitempty"`
	Role          string            `json:"role,omitempty"`
	DataAttrs     map[string]string `json:"dataAttrs,omitempty"`
}

// Style returns a style property value, or "" when absent.
func (n *BridgeNode) Style(prop string) string {
	if n.Styles == nil {
		return ""
	}
	return n.Styles[prop]
}

// Walk visits n and every descendant depth-first in document order.
// Returning false from fn prunes the subtree below the current node.
func (n *BridgeNode) Walk(fn func(*BridgeNode) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ColorToken is a deduplicated color value with usage count.
type ColorToken struct {
	Name           string `json:"name"`
	Value          string `json:"value"` // normalized hex
	UsageCount     int    `json:"usageCount"`
	SourceVariable string `json:"sourceVariable,omitempty"`
}

// TypographyToken is a deduplicated font combination.
type TypographyToken struct {
	Name          string  `json:"name"`
	Family        string  `json:"family"`
	Size          float64 `json:"size"`
	Weight        int     `json:"weight"`
	LineHeight    string  `json:"lineHeight,omitempty"`
	LetterSpacing string  `json:"letterSpacing,omitempty"`
	UsageCount    int     `json:"usageCount"`
}

// EffectKind classifies an effect token.
type EffectKind string

const (
	EffectDropShadow  EffectKind = "drop-shadow"
	EffectInnerShadow EffectKind = "inner-shadow"
	EffectBlur        EffectKind = "blur"
)

// EffectToken is a deduplicated shadow or blur.
type EffectToken struct {
	Name       string     `json:"name"`
	Kind       EffectKind `json:"kind"`
	Value      string     `json:"value"` // raw value, dedup key
	UsageCount int        `json:"usageCount"`
}

// VariableKind is the inferred type of a custom CSS variable.
type VariableKind string

const (
	VarColor  VariableKind = "color"
	VarNumber VariableKind = "number"
	VarString VariableKind = "string"
)

// VariableToken is a custom property read from in-document style rules.
type VariableToken struct {
	Name  string       `json:"name"`
	Value string       `json:"value"`
	Kind  VariableKind `json:"kind"`
}

// DesignTokens are the four deduplicated, usage-sorted token lists of one
// scan. Color/typography/effect dedup keys are exact-match on normalized
// value; the variable dedup key is the raw variable name, first occurrence
// wins.
type DesignTokens struct {
	Colors     []ColorToken      `json:"colors"`
	Typography []TypographyToken `json:"typography"`
	Effects    []EffectToken     `json:"effects"`
	Variables  []VariableToken   `json:"variables"`
}

// DetectedComponent is a repeated structural pattern: one representative plus
// every instance, including the representative itself.
type DetectedComponent struct {
	Hash           string        `json:"hash"`
	Name           string        `json:"name"`
	Instances      []*BridgeNode `json:"instances"`
	Representative *BridgeNode   `json:"representative"`
}

// PageMeta is page-level metadata collected during extraction.
type PageMeta struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Favicon        string `json:"favicon,omitempty"`
	SocialImage    string `json:"socialImage,omitempty"`
	DesignToolSite bool   `json:"designToolSite,omitempty"`
	DesignToolID   string `json:"designToolId,omitempty"`
}

// Viewport is a captured viewport size.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExtractionResult is one encoding of one page at one viewport.
type ExtractionResult struct {
	URL        string              `json:"url"`
	Viewport   Viewport            `json:"viewport"`
	Timestamp  int64               `json:"timestamp"` // epoch milliseconds
	Framework  string              `json:"framework"`
	Root       *BridgeNode         `json:"root"`
	Tokens     DesignTokens        `json:"tokens"`
	Components []DetectedComponent `json:"components,omitempty"`
	Fonts      []string            `json:"fonts,omitempty"`
	Meta       PageMeta            `json:"meta"`
}

// MultiViewportDiscriminant is the type tag distinguishing a multi-viewport
// payload from a single ExtractionResult on the wire.
const MultiViewportDiscriminant = "multi-viewport"

// ViewportCapture is one entry of a MultiViewportResult.
type ViewportCapture struct {
	Label  string            `json:"label"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Result *ExtractionResult `json:"result"`
}

// MultiViewportResult wraps an ordered list of per-viewport captures. It is
// the unit consumed by the viewport variant combiner.
type MultiViewportResult struct {
	Type      string            `json:"type"` // always MultiViewportDiscriminant
	Viewports []ViewportCapture `json:"viewports"`
}
