package reimport

import "sort"

// ChangeType classifies one path in a diff.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// Change is one path-level difference.
type Change struct {
	Type ChangeType `json:"type"`
	Path string     `json:"path"`
}

// Diff is the result of comparing two fingerprint maps. Changes lists
// added/removed/modified paths only; unchanged paths appear in the count.
type Diff struct {
	Changes   []Change `json:"changes"`
	Added     int      `json:"added"`
	Removed   int      `json:"removed"`
	Modified  int      `json:"modified"`
	Unchanged int      `json:"unchanged"`
}

// ComputeDiff classifies every path present in either map. This is a flat
// path-keyed comparison with no move detection: a node shifted one position
// at the same level shows up as changes at both the old and new paths.
func ComputeDiff(newMap, existing map[string]Entry) Diff {
	var d Diff
	for path, ne := range newMap {
		old, ok := existing[path]
		switch {
		case !ok:
			d.Changes = append(d.Changes, Change{Type: ChangeAdded, Path: path})
			d.Added++
		case old.Fingerprint != ne.Fingerprint:
			d.Changes = append(d.Changes, Change{Type: ChangeModified, Path: path})
			d.Modified++
		default:
			d.Unchanged++
		}
	}
	for path := range existing {
		if _, ok := newMap[path]; !ok {
			d.Changes = append(d.Changes, Change{Type: ChangeRemoved, Path: path})
			d.Removed++
		}
	}

	// Deterministic order: path, then type.
	sort.Slice(d.Changes, func(i, j int) bool {
		if d.Changes[i].Path != d.Changes[j].Path {
			return d.Changes[i].Path < d.Changes[j].Path
		}
		return d.Changes[i].Type < d.Changes[j].Type
	})
	return d
}
