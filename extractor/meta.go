package extractor

import (
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
)

// frameworkOrder ranks walker signals: the first present wins. Design-tool
// exporters come first because their pages often also carry the underlying
// framework's markers (a Framer site is also a React site).
var frameworkOrder = []string{
	"framer", "webflow", "wordpress",
	"next", "nuxt", "svelte", "angular", "vue", "react",
}

// generatorNames maps meta generator substrings to framework tags, checked
// when no walker signal matched.
var generatorNames = map[string]string{
	"wordpress":   "wordpress",
	"wix":         "wix",
	"squarespace": "squarespace",
	"shopify":     "shopify",
	"gatsby":      "gatsby",
	"hugo":        "hugo",
	"webflow":     "webflow",
}

// classifyFramework picks one framework tag from the walker's ordered
// signals and the meta generator. Default is "unknown".
func classifyFramework(signals []string, generator string) string {
	present := make(map[string]bool, len(signals))
	for _, s := range signals {
		present[s] = true
	}
	for _, f := range frameworkOrder {
		if present[f] {
			return f
		}
	}
	gen := strings.ToLower(generator)
	for sub, tag := range generatorNames {
		if strings.Contains(gen, sub) {
			return tag
		}
	}
	return "unknown"
}

// pageMeta assembles page metadata, flagging design-tool exports that carry
// author-provided component boundaries.
func pageMeta(p *rawPage, framework string) bridge.PageMeta {
	meta := bridge.PageMeta{
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Favicon:     p.Favicon,
		SocialImage: p.SocialImage,
	}
	if framework == "framer" || framework == "webflow" {
		meta.DesignToolSite = true
		meta.DesignToolID = framework
	}
	return meta
}
