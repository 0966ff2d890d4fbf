package cssval

import (
	"math"
	"strconv"
	"strings"
)

// GradientStop is one color stop with its position in [0,1].
type GradientStop struct {
	Color    RGBA    `json:"color"`
	Position float64 `json:"position"`
}

// Gradient is a parsed linear gradient: ordered stops plus the axis angle in
// CSS degrees (0 = bottom-to-top, 90 = left-to-right).
type Gradient struct {
	Angle float64        `json:"angle"`
	Stops []GradientStop `json:"stops"`
}

// ParseGradient converts a linear-gradient() function string into an ordered
// stop list plus an angle. Radial, conic and other gradient kinds are
// unsupported and return nil; callers fall back to no fill.
func ParseGradient(s string) *Gradient {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "linear-gradient(") {
		return nil
	}

	body := s[len("linear-gradient(") : len(s)-1]
	if !strings.HasSuffix(s, ")") {
		return nil
	}

	parts := splitTopLevel(body, ',')
	if len(parts) == 0 {
		return nil
	}

	g := &Gradient{Angle: 180} // CSS default: to bottom
	first := strings.TrimSpace(parts[0])
	stopsFrom := 0
	if angle, ok := parseGradientAngle(first); ok {
		g.Angle = angle
		stopsFrom = 1
	}

	stops := parts[stopsFrom:]
	if len(stops) < 2 {
		return nil
	}

	for i, raw := range stops {
		raw = strings.TrimSpace(raw)
		colorPart := raw
		pos := -1.0

		// Optional trailing position: "<color> 40%".
		if idx := strings.LastIndexByte(raw, ' '); idx > 0 && !strings.Contains(raw[idx:], ")") {
			if p, ok := parsePercent(raw[idx+1:]); ok {
				colorPart = strings.TrimSpace(raw[:idx])
				pos = p
			}
		}

		c := ParseColor(colorPart)
		if c == nil {
			return nil
		}
		if pos < 0 {
			if len(stops) == 1 {
				pos = 0
			} else {
				pos = float64(i) / float64(len(stops)-1)
			}
		}
		g.Stops = append(g.Stops, GradientStop{Color: *c, Position: clamp01(pos)})
	}
	return g
}

func parseGradientAngle(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "deg") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if strings.HasSuffix(s, "rad") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "rad"), 64)
		if err != nil {
			return 0, false
		}
		return v * 180 / math.Pi, true
	}
	switch s {
	case "to top":
		return 0, true
	case "to right":
		return 90, true
	case "to bottom":
		return 180, true
	case "to left":
		return 270, true
	case "to top right", "to right top":
		return 45, true
	case "to bottom right", "to right bottom":
		return 135, true
	case "to bottom left", "to left bottom":
		return 225, true
	case "to top left", "to left top":
		return 315, true
	}
	return 0, false
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}
