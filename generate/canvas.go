// Package generate turns a bridge tree into nodes on a target canvas. The
// canvas itself is a capability interface so the generator never assumes a
// particular host: the CLI and tests run against generate/memdoc, a plugin
// host wires its own implementation.
package generate

import (
	"errors"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/cssval"
)

// NodeID identifies a created canvas node.
type NodeID string

// StyleID identifies a created shared style.
type StyleID string

// ErrUnavailable is returned by capability methods the host does not
// implement. Callers degrade the feature to a no-op and continue; it is
// never a conversion-fatal error.
var ErrUnavailable = errors.New("generate: capability unavailable")

// FontDescriptor is one entry of the host font catalog.
type FontDescriptor struct {
	Family string
	Style  string
}

// AutoLayout is the canvas-side auto-layout descriptor. Unlike
// bridge.LayoutInfo it is axis-relative: sizing is expressed along the
// primary and counter axes, so the generator swaps width/height sizing for
// vertical layouts before calling SetAutoLayout.
type AutoLayout struct {
	Direction        bridge.Direction
	Wrap             bool
	Gap              float64
	Padding          bridge.Padding
	PrimarySizing    bridge.SizingMode
	CounterSizing    bridge.SizingMode
	PrimaryAlignment bridge.Align
	CounterAlignment bridge.Align
}

// Canvas is the full capability surface the generator drives. Every method
// may fail per call; the generator recovers per-node failures locally and
// reports them in the conversion counts. Hosts lacking an optional
// capability (CreateVariable, CreateSection) return ErrUnavailable.
type Canvas interface {
	// Node creation.
	CreateFrame(name string) (NodeID, error)
	CreateText(name string) (NodeID, error)
	CreateImage(name string, data []byte, url string) (NodeID, error)
	CreateVector(name string, markup string) (NodeID, error)
	CreateGroup(name string, children []NodeID) (NodeID, error)
	CreateVariantGroup(name string, members []NodeID) (NodeID, error)
	CreateSection(name string, children []NodeID) (NodeID, error)
	AppendChild(parent, child NodeID) error

	// Component promotion and instancing.
	MarkComponent(id NodeID, name string) error
	CreateInstance(component NodeID, name string) (NodeID, error)

	// Geometry and appearance.
	SetPosition(id NodeID, x, y float64) error
	SetSize(id NodeID, w, h float64) error
	SetRotation(id NodeID, degrees float64) error
	SetOpacity(id NodeID, opacity float64) error
	SetCornerRadius(id NodeID, radius cssval.CornerRadius) error
	SetSolidFill(id NodeID, color cssval.RGBA) error
	SetGradientFill(id NodeID, gradient cssval.Gradient) error
	SetStroke(id NodeID, color cssval.RGBA, weight float64) error
	SetShadows(id NodeID, shadows []cssval.Shadow) error
	SetAutoLayout(id NodeID, layout AutoLayout) error

	// Shared styles.
	CreatePaintStyle(name string, color cssval.RGBA) (StyleID, error)
	CreateTextStyle(name string, token bridge.TypographyToken) (StyleID, error)
	CreateEffectStyle(name string, shadows []cssval.Shadow) (StyleID, error)
	ApplyFillStyle(id NodeID, style StyleID) error
	ApplyTextStyle(id NodeID, style StyleID) error
	ApplyEffectStyle(id NodeID, style StyleID) error

	// Variables. Hosts without a variable API return ErrUnavailable.
	CreateVariable(collection, name, value string, kind bridge.VariableKind) error

	// Fonts. LoadFont must complete before SetText for that font.
	Fonts() ([]FontDescriptor, error)
	LoadFont(font FontDescriptor) error
	SetText(id NodeID, text string, font FontDescriptor, sizePx float64) error

	// Opaque per-node key/value storage, persisted by the host across
	// sessions. Used to attach fingerprint paths for re-import.
	SetPluginData(id NodeID, key, value string) error
}
