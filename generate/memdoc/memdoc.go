// Package memdoc is an in-memory generate.Canvas. The CLI uses it to run
// conversions without a plugin host; tests use it as a deterministic fake.
// It enforces the same ordering rules as real hosts, notably that a font
// must be loaded before SetText uses it.
package memdoc

import (
	"fmt"
	"strconv"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/cssval"
	"github.com/pagebridge/pagebridge/generate"
)

// Node is one created canvas node with everything the generator applied.
type Node struct {
	ID       generate.NodeID
	Kind     string // frame, text, image, vector, group, variant-group, section, instance
	Name     string
	Parent   generate.NodeID
	Children []generate.NodeID

	X, Y, W, H float64
	Rotation   float64
	Opacity    float64

	Fill         *cssval.RGBA
	Gradient     *cssval.Gradient
	StrokeColor  *cssval.RGBA
	StrokeWeight float64
	Radius       *cssval.CornerRadius
	Shadows      []cssval.Shadow
	Layout       *generate.AutoLayout

	Text     string
	Font     generate.FontDescriptor
	FontSize float64

	FillStyle   generate.StyleID
	TextStyle   generate.StyleID
	EffectStyle generate.StyleID

	IsComponent bool
	InstanceOf  generate.NodeID

	ImageURL   string
	ImageBytes []byte
	Markup     string

	PluginData map[string]string
}

// Style is one created shared style.
type Style struct {
	ID      generate.StyleID
	Kind    string // paint, text, effect
	Name    string
	Color   cssval.RGBA
	Token   bridge.TypographyToken
	Shadows []cssval.Shadow
}

// Variable is one created variable.
type Variable struct {
	Collection string
	Name       string
	Value      string
	Kind       bridge.VariableKind
}

// Doc holds every node and style created during a conversion.
type Doc struct {
	Nodes     map[generate.NodeID]*Node
	Order     []generate.NodeID
	Styles    map[generate.StyleID]*Style
	Variables []Variable

	// VariablesOff makes CreateVariable return ErrUnavailable, modelling a
	// host without the variable API. SectionsOff does the same for
	// CreateSection.
	VariablesOff bool
	SectionsOff  bool

	catalog []generate.FontDescriptor
	loaded  map[generate.FontDescriptor]bool
	seq     int
}

// DefaultCatalog mirrors a typical host font inventory.
func DefaultCatalog() []generate.FontDescriptor {
	return []generate.FontDescriptor{
		{Family: "Inter", Style: "Regular"},
		{Family: "Inter", Style: "Medium"},
		{Family: "Inter", Style: "Bold"},
		{Family: "Roboto", Style: "Regular"},
		{Family: "Roboto", Style: "Bold"},
		{Family: "Georgia", Style: "Regular"},
	}
}

var _ generate.Canvas = (*Doc)(nil)

// New returns an empty document with the default font catalog.
func New() *Doc {
	return &Doc{
		Nodes:   make(map[generate.NodeID]*Node),
		Styles:  make(map[generate.StyleID]*Style),
		catalog: DefaultCatalog(),
		loaded:  make(map[generate.FontDescriptor]bool),
	}
}

// SetCatalog replaces the font catalog.
func (d *Doc) SetCatalog(fonts []generate.FontDescriptor) { d.catalog = fonts }

func (d *Doc) newNode(kind, name string) *Node {
	d.seq++
	n := &Node{
		ID:         generate.NodeID("n" + strconv.Itoa(d.seq)),
		Kind:       kind,
		Name:       name,
		Opacity:    1,
		PluginData: make(map[string]string),
	}
	d.Nodes[n.ID] = n
	d.Order = append(d.Order, n.ID)
	return n
}

func (d *Doc) node(id generate.NodeID) (*Node, error) {
	n, ok := d.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("memdoc: unknown node %q", id)
	}
	return n, nil
}

func (d *Doc) CreateFrame(name string) (generate.NodeID, error) {
	return d.newNode("frame", name).ID, nil
}

func (d *Doc) CreateText(name string) (generate.NodeID, error) {
	return d.newNode("text", name).ID, nil
}

func (d *Doc) CreateImage(name string, data []byte, url string) (generate.NodeID, error) {
	n := d.newNode("image", name)
	n.ImageBytes = data
	n.ImageURL = url
	return n.ID, nil
}

func (d *Doc) CreateVector(name string, markup string) (generate.NodeID, error) {
	n := d.newNode("vector", name)
	n.Markup = markup
	return n.ID, nil
}

func (d *Doc) CreateGroup(name string, children []generate.NodeID) (generate.NodeID, error) {
	n := d.newNode("group", name)
	return n.ID, d.adopt(n, children)
}

func (d *Doc) CreateVariantGroup(name string, members []generate.NodeID) (generate.NodeID, error) {
	n := d.newNode("variant-group", name)
	return n.ID, d.adopt(n, members)
}

func (d *Doc) CreateSection(name string, children []generate.NodeID) (generate.NodeID, error) {
	if d.SectionsOff {
		return "", generate.ErrUnavailable
	}
	n := d.newNode("section", name)
	return n.ID, d.adopt(n, children)
}

func (d *Doc) adopt(parent *Node, children []generate.NodeID) error {
	for _, id := range children {
		c, err := d.node(id)
		if err != nil {
			return err
		}
		// Reparent: drop from the old parent's child list first.
		if c.Parent != "" {
			if old, err := d.node(c.Parent); err == nil {
				for i, cid := range old.Children {
					if cid == id {
						old.Children = append(old.Children[:i], old.Children[i+1:]...)
						break
					}
				}
			}
		}
		c.Parent = parent.ID
		parent.Children = append(parent.Children, id)
	}
	return nil
}

func (d *Doc) AppendChild(parent, child generate.NodeID) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	return d.adopt(p, []generate.NodeID{child})
}

// Rename sets a node's display name. Used by the variant combiner for the
// axis=label convention.
func (d *Doc) Rename(id generate.NodeID, name string) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Name = name
	return nil
}

func (d *Doc) MarkComponent(id generate.NodeID, name string) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.IsComponent = true
	if name != "" {
		n.Name = name
	}
	return nil
}

func (d *Doc) CreateInstance(component generate.NodeID, name string) (generate.NodeID, error) {
	c, err := d.node(component)
	if err != nil {
		return "", err
	}
	if !c.IsComponent {
		return "", fmt.Errorf("memdoc: %q is not a component", component)
	}
	n := d.newNode("instance", name)
	n.InstanceOf = component
	return n.ID, nil
}

func (d *Doc) SetPosition(id generate.NodeID, x, y float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.X, n.Y = x, y
	return nil
}

func (d *Doc) SetSize(id generate.NodeID, w, h float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("memdoc: invalid size %gx%g", w, h)
	}
	n.W, n.H = w, h
	return nil
}

func (d *Doc) SetRotation(id generate.NodeID, degrees float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Rotation = degrees
	return nil
}

func (d *Doc) SetOpacity(id generate.NodeID, opacity float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Opacity = opacity
	return nil
}

func (d *Doc) SetCornerRadius(id generate.NodeID, radius cssval.CornerRadius) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Radius = &radius
	return nil
}

func (d *Doc) SetSolidFill(id generate.NodeID, color cssval.RGBA) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Fill = &color
	n.Gradient = nil
	return nil
}

func (d *Doc) SetGradientFill(id generate.NodeID, gradient cssval.Gradient) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Gradient = &gradient
	n.Fill = nil
	return nil
}

func (d *Doc) SetStroke(id generate.NodeID, color cssval.RGBA, weight float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.StrokeColor = &color
	n.StrokeWeight = weight
	return nil
}

func (d *Doc) SetShadows(id generate.NodeID, shadows []cssval.Shadow) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Shadows = shadows
	return nil
}

func (d *Doc) SetAutoLayout(id generate.NodeID, layout generate.AutoLayout) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.Layout = &layout
	return nil
}

func (d *Doc) CreatePaintStyle(name string, color cssval.RGBA) (generate.StyleID, error) {
	return d.newStyle("paint", name, func(s *Style) { s.Color = color }), nil
}

func (d *Doc) CreateTextStyle(name string, token bridge.TypographyToken) (generate.StyleID, error) {
	return d.newStyle("text", name, func(s *Style) { s.Token = token }), nil
}

func (d *Doc) CreateEffectStyle(name string, shadows []cssval.Shadow) (generate.StyleID, error) {
	return d.newStyle("effect", name, func(s *Style) { s.Shadows = shadows }), nil
}

func (d *Doc) newStyle(kind, name string, fill func(*Style)) generate.StyleID {
	d.seq++
	s := &Style{ID: generate.StyleID("s" + strconv.Itoa(d.seq)), Kind: kind, Name: name}
	fill(s)
	d.Styles[s.ID] = s
	return s.ID
}

func (d *Doc) ApplyFillStyle(id generate.NodeID, style generate.StyleID) error {
	return d.applyStyle(id, style, "paint", func(n *Node) { n.FillStyle = style })
}

func (d *Doc) ApplyTextStyle(id generate.NodeID, style generate.StyleID) error {
	return d.applyStyle(id, style, "text", func(n *Node) { n.TextStyle = style })
}

func (d *Doc) ApplyEffectStyle(id generate.NodeID, style generate.StyleID) error {
	return d.applyStyle(id, style, "effect", func(n *Node) { n.EffectStyle = style })
}

func (d *Doc) applyStyle(id generate.NodeID, style generate.StyleID, kind string, set func(*Node)) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	s, ok := d.Styles[style]
	if !ok || s.Kind != kind {
		return fmt.Errorf("memdoc: no %s style %q", kind, style)
	}
	set(n)
	return nil
}

func (d *Doc) CreateVariable(collection, name, value string, kind bridge.VariableKind) error {
	if d.VariablesOff {
		return generate.ErrUnavailable
	}
	d.Variables = append(d.Variables, Variable{
		Collection: collection, Name: name, Value: value, Kind: kind,
	})
	return nil
}

func (d *Doc) Fonts() ([]generate.FontDescriptor, error) {
	out := make([]generate.FontDescriptor, len(d.catalog))
	copy(out, d.catalog)
	return out, nil
}

func (d *Doc) LoadFont(font generate.FontDescriptor) error {
	for _, f := range d.catalog {
		if f == font {
			d.loaded[font] = true
			return nil
		}
	}
	return fmt.Errorf("memdoc: font %s %s not in catalog", font.Family, font.Style)
}

func (d *Doc) SetText(id generate.NodeID, text string, font generate.FontDescriptor, sizePx float64) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	if n.Kind != "text" {
		return fmt.Errorf("memdoc: SetText on %s node", n.Kind)
	}
	if !d.loaded[font] {
		return fmt.Errorf("memdoc: font %s %s not loaded", font.Family, font.Style)
	}
	n.Text = text
	n.Font = font
	n.FontSize = sizePx
	return nil
}

func (d *Doc) SetPluginData(id generate.NodeID, key, value string) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.PluginData[key] = value
	return nil
}

// Roots returns every parentless node in creation order.
func (d *Doc) Roots() []*Node {
	var out []*Node
	for _, id := range d.Order {
		if n := d.Nodes[id]; n.Parent == "" {
			out = append(out, n)
		}
	}
	return out
}

// CountKind returns how many nodes of one kind exist.
func (d *Doc) CountKind(kind string) int {
	c := 0
	for _, n := range d.Nodes {
		if n.Kind == kind {
			c++
		}
	}
	return c
}
