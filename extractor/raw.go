package extractor

import (
	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/tokens"
)

// rawNode is the page-side node shape produced by walkerJS, before any Go
// inference runs.
type rawNode struct {
	Tag      string            `json:"tag"`
	Styles   map[string]string `json:"styles"`
	Raw      rawSize           `json:"raw"`
	Rect     bridge.Rect       `json:"rect"`
	Visible  bool              `json:"visible"`
	Classes  []string          `json:"classes"`
	Role     string            `json:"role"`
	Data     map[string]string `json:"data"`
	SVG      string            `json:"svg"`
	ImageURL string            `json:"imageUrl"`
	Text     string            `json:"text"`
	HTML     string            `json:"html"`
	TextOnly bool              `json:"textOnly"`
	Before   *rawPseudo        `json:"before"`
	After    *rawPseudo        `json:"after"`
	Children []*rawNode        `json:"children"`
}

// rawSize carries the authored width/height, which keep sizing intent the
// computed pixel values lose.
type rawSize struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// rawPseudo is a ::before/::after pseudo element with visible content.
type rawPseudo struct {
	Content string            `json:"content"`
	Styles  map[string]string `json:"styles"`
	Width   float64           `json:"width"`
	Height  float64           `json:"height"`
}

// rawPage is the complete walker return value.
type rawPage struct {
	URL         string               `json:"url"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Favicon     string               `json:"favicon"`
	SocialImage string               `json:"socialImage"`
	Generator   string               `json:"generator"`
	Signals     []string             `json:"signals"`
	Viewport    bridge.Viewport      `json:"viewport"`
	Variables   []tokens.RawVariable `json:"variables"`
	Fonts       []string             `json:"fonts"`
	Root        *rawNode             `json:"root"`
}
