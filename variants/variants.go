// Package variants combines per-viewport extraction results into a single
// variant group on the canvas, sharing one style pass across all viewports.
package variants

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/generate"
	"github.com/pagebridge/pagebridge/registry"
)

// Axis is the variant axis name used when renaming per-viewport roots.
const Axis = "viewport"

// Result is the outcome of one multi-viewport combination.
type Result struct {
	Group    generate.NodeID `json:"group"`
	Variants int             `json:"variants"`
	Stats    generate.Stats  `json:"stats"`
}

// Combine generates every capture and wraps the results in one variant
// group. Captures are ordered widest first so style and token creation runs
// exactly once, against the most detail-preserving viewport; narrower
// captures link into the same style map. A capture whose generation fails
// is skipped and counted, not fatal.
func Combine(canvas Canvas, multi *bridge.MultiViewportResult, set bridge.Settings, log *slog.Logger) (*Result, error) {
	if multi == nil || len(multi.Viewports) == 0 {
		return nil, fmt.Errorf("variants: no viewports to combine")
	}
	if log == nil {
		log = slog.Default()
	}

	captures := make([]bridge.ViewportCapture, len(multi.Viewports))
	copy(captures, multi.Viewports)
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].Width > captures[j].Width
	})

	var widest *bridge.ExtractionResult
	for _, vc := range captures {
		if vc.Result != nil && vc.Result.Root != nil {
			widest = vc.Result
			break
		}
	}
	if widest == nil {
		return nil, fmt.Errorf("variants: no usable capture")
	}

	gen, err := generate.New(canvas, set, registry.New(), log)
	if err != nil {
		return nil, err
	}
	if err := gen.EnsureStyles(widest.Tokens); err != nil {
		return nil, err
	}

	var members []generate.NodeID
	for _, vc := range captures {
		if vc.Result == nil || vc.Result.Root == nil {
			log.Warn("viewport capture empty, skipping", "label", vc.Label)
			continue
		}
		root, err := gen.Generate(vc.Result)
		if err != nil {
			log.Warn("viewport generation failed, skipping", "label", vc.Label, "err", err)
			continue
		}
		if err := canvas.Rename(root, Axis+"="+vc.Label); err != nil {
			log.Warn("variant rename failed", "label", vc.Label, "err", err)
		}
		members = append(members, root)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("variants: every viewport failed to generate")
	}

	group, err := canvas.CreateVariantGroup(groupName(widest), members)
	if err != nil {
		return nil, fmt.Errorf("variants: create group: %w", err)
	}

	return &Result{Group: group, Variants: len(members), Stats: gen.Stats()}, nil
}

// Canvas is generate.Canvas plus the rename call the combiner needs to
// apply the "<axis>=<label>" convention.
type Canvas interface {
	generate.Canvas
	Rename(id generate.NodeID, name string) error
}

// groupName derives the variant-group name from the page title, falling
// back to the URL host and path.
func groupName(res *bridge.ExtractionResult) string {
	if t := strings.TrimSpace(res.Meta.Title); t != "" {
		return t
	}
	if u, err := url.Parse(res.URL); err == nil && u.Host != "" {
		name := u.Host
		if p := strings.Trim(u.Path, "/"); p != "" {
			name += " " + strings.ReplaceAll(p, "/", " ")
		}
		return name
	}
	return "Imported Page"
}
