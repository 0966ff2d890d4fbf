// Package structhash produces depth-bounded structural signatures used for
// component-candidate clustering. The signature deliberately excludes colors,
// exact pixel values and text content so that visually distinct but
// structurally identical repeats hash identically.
package structhash

import (
	"math"
	"strconv"
	"strings"

	"github.com/pagebridge/pagebridge/bridge"
)

// DefaultDepth bounds signature recursion. Nodes below the bound contribute
// nothing, keeping signatures cheap and local.
const DefaultDepth = 5

// step groups near-identical font sizes and radii into one bucket.
const step = 4

// structural properties, in fixed order. Order is part of the signature:
// changing it changes every hash.
var structuralProps = []string{
	"display",
	"flex-direction",
	"position",
	"font-weight",
	"font-size",
	"text-align",
	"border-radius",
	"overflow",
}

// Signature builds the recursive signature string for a node:
// tag[styleKey](childCount){child signatures...}.
func Signature(n *bridge.BridgeNode, depth int) string {
	var b strings.Builder
	writeSignature(&b, n, depth)
	return b.String()
}

func writeSignature(b *strings.Builder, n *bridge.BridgeNode, depth int) {
	if n == nil || depth <= 0 {
		return
	}
	b.WriteString(n.Tag)
	b.WriteByte('[')
	b.WriteString(styleKey(n))
	b.WriteByte(']')
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(len(n.Children)))
	b.WriteByte(')')
	if depth > 1 && len(n.Children) > 0 {
		b.WriteByte('{')
		for _, c := range n.Children {
			writeSignature(b, c, depth-1)
		}
		b.WriteByte('}')
	}
}

// styleKey serialises the layout-affecting property tuple. Size-like values
// are stepped so near-identical sizes land in one bucket.
func styleKey(n *bridge.BridgeNode) string {
	parts := make([]string, 0, len(structuralProps))
	for _, prop := range structuralProps {
		v := n.Style(prop)
		switch prop {
		case "font-size", "border-radius":
			v = stepValue(v)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "|")
}

// stepValue buckets a pixel value: round(value/step)*step.
func stepValue(v string) string {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.Itoa(int(math.Round(f/step)) * step)
}

// Hash returns the base-36 DJB2 hash of the node's depth-bounded signature.
// Deterministic across runs on the same input; collisions are accepted as
// false-positive component matches.
func Hash(n *bridge.BridgeNode) string {
	return HashAtDepth(n, DefaultDepth)
}

// HashAtDepth hashes with an explicit recursion bound.
func HashAtDepth(n *bridge.BridgeNode, depth int) string {
	return hashString(Signature(n, depth))
}

// hashString is DJB2 (hash*33 + c), truncated to 32 bits, base-36 encoded.
func hashString(s string) string {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return strconv.FormatUint(uint64(h), 36)
}
