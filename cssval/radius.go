package cssval

import (
	"strconv"
	"strings"
)

// CornerRadius is the four corner radii in CSS order: top-left, top-right,
// bottom-right, bottom-left.
type CornerRadius [4]float64

// ParseCornerRadius parses a border-radius shorthand of one to four pixel
// values. It returns nil, meaning "apply no radius", only when all four
// corners resolve to exactly zero, otherwise the expanded 4-tuple.
func ParseCornerRadius(s string) *CornerRadius {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return nil
	}

	vals := make([]float64, 0, 4)
	for _, f := range fields {
		f = strings.TrimSuffix(f, "px")
		// Percentage radii depend on the box size; treat as unsupported.
		if strings.HasSuffix(f, "%") {
			return nil
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil
		}
		vals = append(vals, v)
	}

	var r CornerRadius
	switch len(vals) {
	case 1:
		r = CornerRadius{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		r = CornerRadius{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		r = CornerRadius{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		r = CornerRadius{vals[0], vals[1], vals[2], vals[3]}
	}

	if r[0] == 0 && r[1] == 0 && r[2] == 0 && r[3] == 0 {
		return nil
	}
	return &r
}

// Uniform reports whether all four corners share one radius.
func (r CornerRadius) Uniform() bool {
	return r[0] == r[1] && r[1] == r[2] && r[2] == r[3]
}
