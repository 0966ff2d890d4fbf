package cssval

import (
	"strconv"
	"strings"
)

// Shadow is one parsed box-shadow layer.
type Shadow struct {
	Inner   bool    `json:"inner"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   RGBA    `json:"color"`
}

// ParseShadow parses a single shadow layer with the positional grammar
// "offsetX offsetY blur [spread] color", with an optional leading or
// trailing "inset" keyword selecting an inner shadow. The trailing color
// segment must parse or the whole value is rejected.
func ParseShadow(s string) *Shadow {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil
	}

	sh := &Shadow{}
	if strings.Contains(s, "inset") {
		sh.Inner = true
		s = strings.TrimSpace(strings.ReplaceAll(s, "inset", " "))
	}

	// The color function may contain spaces; split it off before
	// tokenising the lengths.
	numPart, colorPart := splitTrailingColor(s)
	if colorPart == "" {
		return nil
	}
	c := ParseColor(colorPart)
	if c == nil {
		return nil
	}
	sh.Color = *c

	fields := strings.Fields(numPart)
	if len(fields) < 2 || len(fields) > 4 {
		return nil
	}
	vals := make([]float64, 0, 4)
	for _, f := range fields {
		v, ok := parsePx(f)
		if !ok {
			return nil
		}
		vals = append(vals, v)
	}

	sh.OffsetX = vals[0]
	sh.OffsetY = vals[1]
	if len(vals) > 2 {
		sh.Blur = vals[2]
	}
	if len(vals) > 3 {
		sh.Spread = vals[3]
	}
	return sh
}

// splitTrailingColor separates the length run from the color segment. Chrome
// serialises computed shadows color-first, authored CSS is usually
// color-last; both are accepted as long as exactly one color segment exists.
func splitTrailingColor(s string) (lengths, color string) {
	if i := strings.Index(s, "rgb"); i >= 0 {
		end := strings.IndexByte(s[i:], ')')
		if end < 0 {
			return s, ""
		}
		return strings.TrimSpace(s[:i] + s[i+end+1:]), s[i : i+end+1]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		end := i + 1
		for end < len(s) && isHexDigit(s[end]) {
			end++
		}
		return strings.TrimSpace(s[:i] + s[end:]), s[i:end]
	}
	return s, ""
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func parsePx(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseShadowList splits a comma-separated box-shadow value into layers,
// dropping layers that fail to parse. Commas inside color functions are
// respected.
func ParseShadowList(s string) []Shadow {
	var out []Shadow
	for _, part := range splitTopLevel(s, ',') {
		if sh := ParseShadow(part); sh != nil {
			out = append(out, *sh)
		}
	}
	return out
}

// splitTopLevel splits on sep outside of parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
