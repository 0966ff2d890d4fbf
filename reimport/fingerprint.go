// Package reimport supports incremental re-import: content fingerprints per
// node, positional path maps, a flat path-keyed diff, and an SQLite store
// persisting fingerprint maps across sessions.
package reimport

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/pagebridge/pagebridge/bridge"
)

// RootPath is the path assigned to the tree root. Children extend their
// parent's path with their index: root, root-0, root-0-1.
const RootPath = "root"

// ComputeFingerprint hashes a node's own content: tag, type, text, styles,
// layout, and size. Position within the parent (and absolute x/y) is
// deliberately excluded so a node keeps its fingerprint when siblings are
// inserted around it or the page scrolls content. Children are excluded so
// ancestors do not churn when a descendant changes.
func ComputeFingerprint(n *bridge.BridgeNode) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic("reimport: blake2b init: " + err.Error())
	}

	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}

	write(n.Tag, string(n.Type), n.Text)
	write(
		strconv.FormatFloat(n.Bounds.Width, 'f', 0, 64),
		strconv.FormatFloat(n.Bounds.Height, 'f', 0, 64),
	)
	write(strconv.FormatBool(n.Visible))
	write(n.ImageURL, n.VectorMarkup)

	// Styles in sorted key order for determinism.
	keys := make([]string, 0, len(n.Styles))
	for k := range n.Styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, n.Styles[k])
	}

	l := n.Layout
	write(
		strconv.FormatBool(l.IsAutoLayout),
		string(l.Direction),
		strconv.FormatBool(l.Wrap),
		strconv.FormatFloat(l.Gap, 'f', 1, 64),
		fmt.Sprintf("%.1f,%.1f,%.1f,%.1f", l.Padding.Top, l.Padding.Right, l.Padding.Bottom, l.Padding.Left),
		string(l.Sizing.Width), string(l.Sizing.Height),
		string(l.MainAxisAlignment), string(l.CrossAxisAlignment),
	)

	return hex.EncodeToString(h.Sum(nil))
}

// Entry is one node's record in a fingerprint map.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	NodeID      string `json:"nodeId,omitempty"`
}

// BuildFingerprintMap walks the tree and records every node's fingerprint
// under its positional path.
func BuildFingerprintMap(root *bridge.BridgeNode) map[string]Entry {
	m := make(map[string]Entry)
	var walk func(n *bridge.BridgeNode, path string)
	walk = func(n *bridge.BridgeNode, path string) {
		if n == nil {
			return
		}
		m[path] = Entry{Fingerprint: ComputeFingerprint(n)}
		for i, c := range n.Children {
			walk(c, path+"-"+strconv.Itoa(i))
		}
	}
	walk(root, RootPath)
	return m
}

// ParentPath returns the path of a path's parent, or "" for the root.
func ParentPath(path string) string {
	i := strings.LastIndexByte(path, '-')
	if i < 0 {
		return ""
	}
	return path[:i]
}
