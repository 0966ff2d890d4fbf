// Package cssval parses raw CSS presentation values into structured form.
// Every parser is pure and total: unsupported or malformed input yields nil,
// never an error or a panic. Callers treat nil as "skip" (no fill, no
// effect, no radius) rather than fabricating a value.
package cssval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is a color with channels in [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Hex returns the normalized lowercase hex form: #rrggbb, or #rrggbbaa when
// alpha is not fully opaque. This is the dedup key used by token scanning
// and style linking.
func (c RGBA) Hex() string {
	r := int(math.Round(c.R * 255))
	g := int(math.Round(c.G * 255))
	b := int(math.Round(c.B * 255))
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	a := int(math.Round(c.A * 255))
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// ParseColor parses rgb()/rgba() and 3/6/8-digit hex notation. HSL and other
// syntaxes are unsupported and return nil: do not fabricate a color.
func ParseColor(s string) *RGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}
	return nil
}

func parseHex(h string) *RGBA {
	switch len(h) {
	case 3:
		var ch [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string([]byte{h[i], h[i]}), 16, 8)
			if err != nil {
				return nil
			}
			ch[i] = float64(v) / 255
		}
		return &RGBA{R: ch[0], G: ch[1], B: ch[2], A: 1}
	case 6, 8:
		var ch [4]float64
		ch[3] = 1
		for i := 0; i*2 < len(h); i++ {
			v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
			if err != nil {
				return nil
			}
			ch[i] = float64(v) / 255
		}
		return &RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	default:
		return nil
	}
}

func parseRGBFunc(s string) *RGBA {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close <= open {
		return nil
	}

	body := s[open+1 : close]
	// Modern syntax uses "/" before alpha; normalise to comma form.
	body = strings.ReplaceAll(body, "/", " ")
	var parts []string
	if strings.Contains(body, ",") {
		parts = strings.Split(body, ",")
	} else {
		parts = strings.Fields(body)
	}
	if len(parts) < 3 || len(parts) > 4 {
		return nil
	}

	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i < 3 {
			if strings.HasSuffix(p, "%") {
				pct, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
				if err != nil {
					return nil
				}
				ch[i] = clamp01(pct / 100)
				continue
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil
			}
			ch[i] = clamp01(v / 255)
		} else {
			if strings.HasSuffix(p, "%") {
				pct, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
				if err != nil {
					return nil
				}
				ch[3] = clamp01(pct / 100)
				continue
			}
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil
			}
			ch[3] = clamp01(v)
		}
	}
	return &RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsTransparent reports whether a raw color value renders nothing: empty,
// the transparent keyword, rgba(0,0,0,0), or any parsed alpha of zero.
func IsTransparent(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" || s == "none" {
		return true
	}
	if c := ParseColor(s); c != nil {
		return c.A == 0
	}
	return false
}
