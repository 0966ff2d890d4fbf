package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/components"
	"github.com/pagebridge/pagebridge/cssval"
	"github.com/pagebridge/pagebridge/registry"
	"github.com/pagebridge/pagebridge/reimport"
	"github.com/pagebridge/pagebridge/tokens"
)

// PluginDataPathKey is the per-node key under which the fingerprint path is
// stored on the canvas, read back on re-import.
const PluginDataPathKey = "pagebridge:path"

// Stats are the aggregate counts of one generation pass. Partial success is
// normal: per-node failures are recovered and show up in Degraded, not as an
// error.
type Stats struct {
	Nodes      int `json:"nodes"`
	Styles     int `json:"styles"`
	Variables  int `json:"variables"`
	Components int `json:"components"`
	Instances  int `json:"instances"`
	Sections   int `json:"sections"`
	Degraded   int `json:"degraded"`
}

func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.Styles += o.Styles
	s.Variables += o.Variables
	s.Components += o.Components
	s.Instances += o.Instances
	s.Sections += o.Sections
	s.Degraded += o.Degraded
}

// Generator translates a bridge tree into canvas nodes, linking shared
// styles and substituting component instances. One Generator serves one
// conversion: its style map, component map, and name registry are
// conversion-scoped and must not be reused across independent runs.
type Generator struct {
	canvas Canvas
	set    bridge.Settings
	names  *registry.Names
	fonts  *fontResolver
	log    *slog.Logger

	fillStyles   map[string]StyleID // normalized hex -> paint style
	textStyles   map[string]StyleID // typography key -> text style
	effectStyles map[string]StyleID // raw effect value -> effect style
	componentIDs map[string]NodeID  // structural hash -> component node
	compNames    map[string]string  // structural hash -> component name
	nodePaths    map[string]NodeID  // fingerprint path -> created node
	ensured      bool
	varsMissing  bool

	stats Stats
}

// New builds a conversion-scoped Generator. Settings are defaulted; the
// logger falls back to slog.Default.
func New(canvas Canvas, set bridge.Settings, names *registry.Names, log *slog.Logger) (*Generator, error) {
	set.ApplyDefaults()
	if names == nil {
		names = registry.New()
	}
	if log == nil {
		log = slog.Default()
	}
	fonts, err := newFontResolver(canvas)
	if err != nil {
		return nil, err
	}
	return &Generator{
		canvas:       canvas,
		set:          set,
		names:        names,
		fonts:        fonts,
		log:          log,
		fillStyles:   make(map[string]StyleID),
		textStyles:   make(map[string]StyleID),
		effectStyles: make(map[string]StyleID),
		componentIDs: make(map[string]NodeID),
		compNames:    make(map[string]string),
		nodePaths:    make(map[string]NodeID),
	}, nil
}

// Stats returns the running counts of this conversion.
func (g *Generator) Stats() Stats { return g.stats }

// NodePaths returns the fingerprint-path -> node map built during
// generation, for mirroring into the re-import store.
func (g *Generator) NodePaths() map[string]NodeID { return g.nodePaths }

// EnsureStyles creates shared styles and variables for one token set. It
// runs at most once per Generator: the variant combiner calls it against the
// widest viewport and later viewports reuse the same maps. A host without a
// variable API degrades to creating no variables, never to a failed
// conversion.
func (g *Generator) EnsureStyles(t bridge.DesignTokens) error {
	if g.ensured {
		return nil
	}
	g.ensured = true
	if !g.set.CreateStyles {
		return nil
	}

	for _, c := range t.Colors {
		rgba := cssval.ParseColor(c.Value)
		if rgba == nil {
			continue
		}
		name := c.Name
		if name == "" {
			name = g.names.ColorName(c)
		}
		id, err := g.canvas.CreatePaintStyle(name, *rgba)
		if err != nil {
			g.degrade("paint style", name, err)
			continue
		}
		g.fillStyles[c.Value] = id
		g.stats.Styles++
	}

	for _, ty := range t.Typography {
		name := ty.Name
		if name == "" {
			name = g.names.TypographyName(ty)
		}
		id, err := g.canvas.CreateTextStyle(name, ty)
		if err != nil {
			g.degrade("text style", name, err)
			continue
		}
		g.textStyles[tokens.TypographyKey(ty.Family, ty.Size, ty.Weight, ty.LineHeight, ty.LetterSpacing)] = id
		g.stats.Styles++
	}

	for i, e := range t.Effects {
		shadows := cssval.ParseShadowList(e.Value)
		if len(shadows) == 0 && e.Kind != bridge.EffectBlur {
			continue
		}
		if e.Kind == bridge.EffectBlur {
			// Blur effects carry no shadow geometry; hosts style them from
			// the kind alone.
			shadows = nil
		}
		name := e.Name
		if name == "" {
			name = g.names.EffectName(e.Kind, i+1)
		}
		id, err := g.canvas.CreateEffectStyle(name, shadows)
		if err != nil {
			g.degrade("effect style", name, err)
			continue
		}
		g.effectStyles[e.Value] = id
		g.stats.Styles++
	}

	if g.set.CreateVariables {
		g.ensureVariables(t.Variables)
	}
	return nil
}

func (g *Generator) ensureVariables(vars []bridge.VariableToken) {
	for _, v := range vars {
		if g.varsMissing {
			return
		}
		err := g.canvas.CreateVariable("tokens", registry.VariablePath(v.Name), v.Value, v.Kind)
		switch {
		case errors.Is(err, ErrUnavailable):
			// No variable API on this host. Skip the rest silently.
			g.varsMissing = true
			g.stats.Degraded++
			g.log.Info("variables unavailable, skipping", "count", len(vars))
		case err != nil:
			g.degrade("variable", v.Name, err)
		default:
			g.stats.Variables++
		}
	}
}

// Generate builds the canvas tree for one extraction result and returns the
// root node. EnsureStyles must already have run (the pipeline and variant
// combiner enforce the ordering).
func (g *Generator) Generate(res *bridge.ExtractionResult) (NodeID, error) {
	if res == nil || res.Root == nil {
		return "", fmt.Errorf("generate: empty extraction result")
	}

	if g.set.CreateComponents {
		for _, c := range res.Components {
			if c.Hash == "" {
				continue
			}
			g.compNames[c.Hash] = c.Name
		}
	}

	siteAware := g.set.SiteAware && res.Meta.DesignToolSite

	root, err := g.buildNode(res.Root, reimport.RootPath, 0, siteAware)
	if err != nil {
		return "", err
	}
	if root == "" {
		return "", fmt.Errorf("generate: root node skipped")
	}

	if siteAware {
		g.wrapSections(res.Root, root)
	}
	return root, nil
}

// buildNode creates one node and its subtree. A "" result with nil error
// means the node was skipped (hidden, beyond depth, or its creation failed
// and was degraded).
func (g *Generator) buildNode(n *bridge.BridgeNode, path string, depth int, siteAware bool) (NodeID, error) {
	if n == nil {
		return "", nil
	}
	if !n.Visible && !g.set.IncludeHidden {
		return "", nil
	}
	if depth > g.set.MaxDepth {
		return "", nil
	}

	// Component substitution: the first occurrence of a detected hash is
	// built normally and promoted; later occurrences become instances.
	if name, detected := g.compNames[n.ComponentHash]; detected {
		if compID, built := g.componentIDs[n.ComponentHash]; built {
			inst, err := g.canvas.CreateInstance(compID, name)
			if err != nil {
				g.degrade("instance", name, err)
				return "", nil
			}
			g.placeNode(inst, n, path)
			g.stats.Instances++
			g.stats.Nodes++
			return inst, nil
		}
		defer func() {
			if id, ok := g.nodePaths[path]; ok {
				if err := g.canvas.MarkComponent(id, name); err != nil {
					g.degrade("component", name, err)
					return
				}
				g.componentIDs[n.ComponentHash] = id
				g.stats.Components++
			}
		}()
	}

	id, leaf, err := g.createByType(n, siteAware)
	if err != nil {
		g.degrade("node", g.nodeName(n, siteAware), err)
		return "", nil
	}
	if id == "" {
		return "", nil
	}
	g.placeNode(id, n, path)
	g.styleNode(id, n)
	g.stats.Nodes++

	if leaf {
		return id, nil
	}
	for i, c := range n.Children {
		childID, err := g.buildNode(c, path+"-"+strconv.Itoa(i), depth+1, siteAware)
		if err != nil {
			return "", err
		}
		if childID == "" {
			continue
		}
		if err := g.canvas.AppendChild(id, childID); err != nil {
			g.degrade("append", g.nodeName(c, siteAware), err)
		}
	}
	return id, nil
}

// createByType dispatches on the node variant. leaf reports whether children
// must not be descended into (text, image, vector, input).
func (g *Generator) createByType(n *bridge.BridgeNode, siteAware bool) (id NodeID, leaf bool, err error) {
	name := g.nodeName(n, siteAware)
	switch n.Type {
	case bridge.NodeText:
		id, err = g.createText(n, name)
		return id, true, err

	case bridge.NodeImage:
		id, err = g.canvas.CreateImage(name, n.ImageBytes, n.ImageURL)
		return id, true, err

	case bridge.NodeSVG:
		id, err = g.canvas.CreateVector(name, n.VectorMarkup)
		return id, true, err

	case bridge.NodeInput:
		id, err = g.createInput(n, name)
		return id, true, err

	default:
		// frame, video, unknown: a plain frame. Video gets no special
		// treatment beyond its background, a deliberate placeholder.
		id, err = g.canvas.CreateFrame(name)
		return id, false, err
	}
}

func (g *Generator) createText(n *bridge.BridgeNode, name string) (NodeID, error) {
	id, err := g.canvas.CreateText(name)
	if err != nil {
		return "", err
	}

	family := tokens.PrimaryFontFamily(n.Style("font-family"))
	weight := tokens.ParseFontWeight(n.Style("font-weight"))
	size := tokens.Px(n.Style("font-size"))
	if size <= 0 {
		size = 16
	}

	// Resolve and load the font before any text is set. Hosts reject glyph
	// layout against an unregistered font.
	font, err := g.fonts.Resolve(family, weight)
	if err != nil {
		g.degrade("font", family, err)
		font = defaultFont
		if lerr := g.canvas.LoadFont(font); lerr != nil {
			// No usable font at all: keep the node, skip the text content.
			g.degrade("font fallback", font.Family, lerr)
			return id, nil
		}
	}
	if err := g.canvas.SetText(id, n.Text, font, size); err != nil {
		g.degrade("set text", name, err)
		return id, nil
	}

	key := tokens.TypographyKey(family, size, weight,
		strings.TrimSpace(n.Style("line-height")), strings.TrimSpace(n.Style("letter-spacing")))
	if style, ok := g.textStyles[key]; ok {
		if err := g.canvas.ApplyTextStyle(id, style); err != nil {
			g.degrade("text style link", name, err)
		}
	}
	if c := cssval.ParseColor(n.Style("color")); c != nil && !cssval.IsTransparent(n.Style("color")) {
		g.applyFill(id, *c)
	}
	return id, nil
}

// createInput renders a form control as a styled frame holding a synthesized
// placeholder label.
func (g *Generator) createInput(n *bridge.BridgeNode, name string) (NodeID, error) {
	id, err := g.canvas.CreateFrame(name)
	if err != nil {
		return "", err
	}

	placeholder := n.DataAttrs["placeholder"]
	if placeholder == "" {
		placeholder = n.Text
	}
	if placeholder == "" {
		placeholder = "Enter text"
	}

	label, err := g.canvas.CreateText(name + " placeholder")
	if err != nil {
		return id, nil
	}
	font, ferr := g.fonts.Resolve(tokens.PrimaryFontFamily(n.Style("font-family")), 400)
	if ferr != nil {
		font = defaultFont
		if lerr := g.canvas.LoadFont(font); lerr != nil {
			return id, nil
		}
	}
	size := tokens.Px(n.Style("font-size"))
	if size <= 0 {
		size = 14
	}
	if err := g.canvas.SetText(label, placeholder, font, size); err == nil {
		if aerr := g.canvas.AppendChild(id, label); aerr != nil {
			g.degrade("append", name, aerr)
		}
		g.stats.Nodes++
	}
	return id, nil
}

// placeNode applies geometry and records the fingerprint path.
func (g *Generator) placeNode(id NodeID, n *bridge.BridgeNode, path string) {
	if err := g.canvas.SetPosition(id, n.Bounds.X, n.Bounds.Y); err != nil {
		g.stats.Degraded++
	}
	if n.Bounds.Width > 0 && n.Bounds.Height > 0 {
		if err := g.canvas.SetSize(id, n.Bounds.Width, n.Bounds.Height); err != nil {
			g.stats.Degraded++
		}
	}
	if err := g.canvas.SetPluginData(id, PluginDataPathKey, path); err != nil && !errors.Is(err, ErrUnavailable) {
		g.stats.Degraded++
	}
	g.nodePaths[path] = id
}

// styleNode applies fills, borders, radius, opacity, rotation, effects, and
// auto layout. Unparseable values are omitted, never fatal.
func (g *Generator) styleNode(id NodeID, n *bridge.BridgeNode) {
	// Background: gradient wins over solid.
	bg := n.Style("background-image")
	if grad := cssval.ParseGradient(bg); grad != nil {
		if err := g.canvas.SetGradientFill(id, *grad); err != nil {
			g.stats.Degraded++
		}
	} else if raw := n.Style("background-color"); !cssval.IsTransparent(raw) {
		if c := cssval.ParseColor(raw); c != nil {
			g.applyFill(id, *c)
		}
	}

	if op := n.Style("opacity"); op != "" {
		if v, err := strconv.ParseFloat(op, 64); err == nil && v < 1 {
			if err := g.canvas.SetOpacity(id, v); err != nil {
				g.stats.Degraded++
			}
		}
	}

	// Computed styles carry per-side border values; the top side stands in
	// for the whole box. The shorthand keys are accepted for payloads built
	// outside the walker.
	width := n.Style("border-top-width")
	if width == "" {
		width = n.Style("border-width")
	}
	if w := tokens.Px(width); w > 0 {
		raw := n.Style("border-top-color")
		if raw == "" {
			raw = n.Style("border-color")
		}
		if !cssval.IsTransparent(raw) {
			if c := cssval.ParseColor(raw); c != nil {
				if err := g.canvas.SetStroke(id, *c, w); err != nil {
					g.stats.Degraded++
				}
			}
		}
	}

	if r := cssval.ParseCornerRadius(n.Style("border-radius")); r != nil {
		if err := g.canvas.SetCornerRadius(id, *r); err != nil {
			g.stats.Degraded++
		}
	}

	// CSS rotates clockwise, the canvas counter-clockwise.
	if rot := cssval.ParseRotation(n.Style("transform")); rot != 0 {
		if err := g.canvas.SetRotation(id, -rot); err != nil {
			g.stats.Degraded++
		}
	}

	if raw := n.Style("box-shadow"); raw != "" && raw != "none" {
		if style, ok := g.effectStyles[raw]; ok {
			if err := g.canvas.ApplyEffectStyle(id, style); err != nil {
				g.stats.Degraded++
			}
		} else if shadows := cssval.ParseShadowList(raw); len(shadows) > 0 {
			if err := g.canvas.SetShadows(id, shadows); err != nil {
				g.stats.Degraded++
			}
		}
	}

	if n.Layout.IsAutoLayout {
		if err := g.canvas.SetAutoLayout(id, toAutoLayout(n.Layout)); err != nil {
			g.stats.Degraded++
		}
	}
}

// applyFill links a shared paint style when the normalized value already has
// one, otherwise sets a raw solid fill.
func (g *Generator) applyFill(id NodeID, c cssval.RGBA) {
	if style, ok := g.fillStyles[c.Hex()]; ok {
		if err := g.canvas.ApplyFillStyle(id, style); err == nil {
			return
		}
		g.stats.Degraded++
	}
	if err := g.canvas.SetSolidFill(id, c); err != nil {
		g.stats.Degraded++
	}
}

// toAutoLayout converts width/height sizing into primary/counter axis
// sizing. For vertical layouts the primary axis is height, so the pair
// swaps.
func toAutoLayout(l bridge.LayoutInfo) AutoLayout {
	a := AutoLayout{
		Direction:        l.Direction,
		Wrap:             l.Wrap,
		Gap:              l.Gap,
		Padding:          l.Padding,
		PrimarySizing:    l.Sizing.Width,
		CounterSizing:    l.Sizing.Height,
		PrimaryAlignment: l.MainAxisAlignment,
		CounterAlignment: l.CrossAxisAlignment,
	}
	if l.Direction == bridge.DirVertical {
		a.PrimarySizing, a.CounterSizing = l.Sizing.Height, l.Sizing.Width
	}
	return a
}

// nodeName prefers the author-provided boundary name on design-tool sites,
// falling back to the tag.
func (g *Generator) nodeName(n *bridge.BridgeNode, siteAware bool) string {
	if siteAware {
		if name := components.BoundaryName(n); name != "" {
			return name
		}
	}
	if n.Tag != "" {
		return n.Tag
	}
	return string(n.Type)
}

// wrapSections groups top-level named boundaries into sections. Child counts
// must match 1:1 after component substitution; on divergence the wrap is
// skipped silently rather than guessed.
func (g *Generator) wrapSections(srcRoot *bridge.BridgeNode, root NodeID) {
	built := make([]NodeID, 0, len(srcRoot.Children))
	for i := range srcRoot.Children {
		if id, ok := g.nodePaths[reimport.RootPath+"-"+strconv.Itoa(i)]; ok {
			built = append(built, id)
		}
	}
	if len(built) != len(srcRoot.Children) {
		return
	}

	for i, src := range srcRoot.Children {
		name := components.BoundaryName(src)
		if name == "" {
			continue
		}
		sec, err := g.canvas.CreateSection(name, []NodeID{built[i]})
		if err != nil {
			if !errors.Is(err, ErrUnavailable) {
				g.degrade("section", name, err)
			}
			continue
		}
		if err := g.canvas.AppendChild(root, sec); err != nil {
			g.degrade("append section", name, err)
			continue
		}
		g.stats.Sections++
	}
}

func (g *Generator) degrade(what, name string, err error) {
	g.stats.Degraded++
	g.log.Warn("generation step degraded", "step", what, "name", name, "err", err)
}
