// Package components clusters repeated structural patterns into reusable
// component groups. Hash-based grouping catches generic repeats; a
// site-aware layer promotes author-named boundaries with a lower threshold,
// and named groups win when the two overlap.
package components

import (
	"sort"

	"github.com/pagebridge/pagebridge/bridge"
)

// DefaultThreshold is the minimum instance count for hash-detected groups.
const DefaultThreshold = 3

// BoundaryThreshold is the lower minimum for author-named boundaries.
const BoundaryThreshold = 2

// boundaryAttrs are the data attributes that carry author-provided component
// names, checked in order.
var boundaryAttrs = []string{
	"data-framer-name",
	"data-framer-component-type",
	"data-w-id",
	"data-component",
}

// Detect groups nodes by structural hash and returns every group meeting the
// threshold. The representative is the first instance in document order.
func Detect(root *bridge.BridgeNode, threshold int) []bridge.DetectedComponent {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	groups := map[string][]*bridge.BridgeNode{}
	var order []string

	root.Walk(func(n *bridge.BridgeNode) bool {
		// Leaves repeat trivially; only container structures are candidates.
		if n.ComponentHash == "" || len(n.Children) == 0 {
			return true
		}
		if _, ok := groups[n.ComponentHash]; !ok {
			order = append(order, n.ComponentHash)
		}
		groups[n.ComponentHash] = append(groups[n.ComponentHash], n)
		return true
	})

	var out []bridge.DetectedComponent
	for _, hash := range order {
		instances := groups[hash]
		if len(instances) < threshold {
			continue
		}
		out = append(out, bridge.DetectedComponent{
			Hash:           hash,
			Name:           componentName(instances[0]),
			Instances:      instances,
			Representative: instances[0],
		})
	}
	sortByInstances(out)
	return out
}

// DetectBoundaries finds author-named component boundaries: frame-typed,
// non-empty nodes carrying an explicit name or type attribute. Groups are
// keyed by cleaned name and accepted at the lower boundary threshold.
func DetectBoundaries(root *bridge.BridgeNode, threshold int) []bridge.DetectedComponent {
	if threshold <= 0 {
		threshold = BoundaryThreshold
	}

	groups := map[string][]*bridge.BridgeNode{}
	var order []string

	root.Walk(func(n *bridge.BridgeNode) bool {
		if n.Type != bridge.NodeFrame || len(n.Children) == 0 {
			return true
		}
		name := BoundaryName(n)
		if name == "" {
			return true
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], n)
		return true
	})

	var out []bridge.DetectedComponent
	for _, name := range order {
		instances := groups[name]
		if len(instances) < threshold {
			continue
		}
		out = append(out, bridge.DetectedComponent{
			Hash:           instances[0].ComponentHash,
			Name:           name,
			Instances:      instances,
			Representative: instances[0],
		})
	}
	sortByInstances(out)
	return out
}

// Merge combines hash-detected and boundary-detected groups. When a named
// group's instances overlap a hash group by hash, the named group wins and
// the hash group is dropped. Output is sorted by instance count descending.
func Merge(hashed, named []bridge.DetectedComponent) []bridge.DetectedComponent {
	claimed := map[string]bool{}
	for _, c := range named {
		for _, inst := range c.Instances {
			if inst.ComponentHash != "" {
				claimed[inst.ComponentHash] = true
			}
		}
	}

	out := make([]bridge.DetectedComponent, 0, len(hashed)+len(named))
	out = append(out, named...)
	for _, c := range hashed {
		if claimed[c.Hash] {
			continue
		}
		out = append(out, c)
	}
	sortByInstances(out)
	return out
}

// BoundaryName extracts an author-provided name from a node, cleaned. Empty
// when the node carries no recognized naming attribute.
func BoundaryName(n *bridge.BridgeNode) string {
	for _, attr := range boundaryAttrs {
		if v, ok := n.DataAttrs[attr]; ok && v != "" {
			if name := CleanBoundaryName(v); name != "" {
				return name
			}
		}
	}
	return ""
}

// componentName derives a readable default name for a hash-detected group.
func componentName(n *bridge.BridgeNode) string {
	if name := BoundaryName(n); name != "" {
		return name
	}
	switch n.Tag {
	case "li":
		return "List Item"
	case "article", "section":
		return "Section"
	case "a":
		return "Link Card"
	case "button":
		return "Button"
	default:
		return "Component"
	}
}

func sortByInstances(s []bridge.DetectedComponent) {
	sort.SliceStable(s, func(i, j int) bool {
		if len(s[i].Instances) != len(s[j].Instances) {
			return len(s[i].Instances) > len(s[j].Instances)
		}
		return s[i].Name < s[j].Name
	})
}
