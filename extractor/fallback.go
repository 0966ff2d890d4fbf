package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pagebridge/pagebridge/bridge"
)

const snapshotTimeout = 15 * time.Second

// snapshot is the browserless fallback: fetch the page HTML and build the
// tree from static markup. No computed styles means no layout inference and
// no tokens beyond what attributes carry; the result is structurally
// complete but visually coarse. Pages needing JS to render come back thin.
func (e *Extractor) snapshot(ctx context.Context, pageURL string) (*bridge.ExtractionResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("extractor: snapshot request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; pagebridge/1.0)")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor: snapshot fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor: snapshot fetch: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("extractor: snapshot parse: %w", err)
	}

	page := &rawPage{URL: pageURL}
	fillSnapshotMeta(doc, page)

	body := findElement(doc, "body")
	if body == nil {
		return nil, fmt.Errorf("extractor: snapshot has no body")
	}
	page.Root = snapshotNode(body)
	if page.Root == nil {
		return nil, fmt.Errorf("extractor: snapshot body is empty")
	}

	e.log.Info("extracted static snapshot", "url", pageURL)
	return e.assemble(ctx, page, pageURL), nil
}

// snapshotNode converts a parsed element into the walker's raw shape.
// Static markup has no geometry or computed styles, so rects stay zero and
// every element counts as visible.
func snapshotNode(el *html.Node) *rawNode {
	tag := el.Data
	switch tag {
	case "script", "style", "noscript", "template", "link", "meta":
		return nil
	}

	n := &rawNode{Tag: tag, Visible: true}
	for _, a := range el.Attr {
		switch {
		case a.Key == "class":
			n.Classes = strings.Fields(a.Val)
		case a.Key == "role":
			n.Role = a.Val
		case a.Key == "src" && (tag == "img" || tag == "video"):
			n.ImageURL = a.Val
		case a.Key == "placeholder" || strings.HasPrefix(a.Key, "data-"):
			if n.Data == nil {
				n.Data = map[string]string{}
			}
			n.Data[a.Key] = a.Val
		}
	}

	if tag == "svg" {
		var b strings.Builder
		if err := html.Render(&b, el); err == nil {
			n.SVG = b.String()
		}
		return n
	}
	if tag == "img" || tag == "video" {
		return n
	}

	var text strings.Builder
	var elementKids []*html.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(c.Data)
		case html.ElementNode:
			elementKids = append(elementKids, c)
		}
	}

	if len(elementKids) == 0 {
		if t := strings.TrimSpace(text.String()); t != "" {
			n.Text = t
			n.TextOnly = true
		}
		return n
	}
	for _, k := range elementKids {
		if c := snapshotNode(k); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func fillSnapshotMeta(doc *html.Node, page *rawPage) {
	if t := findElement(doc, "title"); t != nil && t.FirstChild != nil {
		page.Title = strings.TrimSpace(t.FirstChild.Data)
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var name, property, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "name":
					name = a.Val
				case "property":
					property = a.Val
				case "content":
					content = a.Val
				}
			}
			switch {
			case name == "description":
				page.Description = content
			case name == "generator":
				page.Generator = content
			case property == "og:image":
				page.SocialImage = content
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
