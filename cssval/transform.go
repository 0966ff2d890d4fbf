package cssval

import (
	"math"
	"strconv"
	"strings"
)

// ParseRotation extracts the rotation in CSS degrees (clockwise) from a
// transform value: either an explicit rotate() or the rotation component of
// a 2D matrix(). Unsupported transforms yield 0.
//
// The caller is responsible for sign conversion when the target canvas
// rotates counter-clockwise.
func ParseRotation(s string) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return 0
	}

	if i := strings.Index(s, "rotate("); i >= 0 {
		end := strings.IndexByte(s[i:], ')')
		if end < 0 {
			return 0
		}
		arg := strings.TrimSpace(s[i+len("rotate(") : i+end])
		switch {
		case strings.HasSuffix(arg, "deg"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "deg"), 64)
			if err != nil {
				return 0
			}
			return v
		case strings.HasSuffix(arg, "rad"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "rad"), 64)
			if err != nil {
				return 0
			}
			return v * 180 / math.Pi
		case strings.HasSuffix(arg, "turn"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "turn"), 64)
			if err != nil {
				return 0
			}
			return v * 360
		}
		return 0
	}

	if i := strings.Index(s, "matrix("); i >= 0 {
		end := strings.IndexByte(s[i:], ')')
		if end < 0 {
			return 0
		}
		body := s[i+len("matrix(") : i+end]
		parts := strings.Split(body, ",")
		if len(parts) < 2 {
			return 0
		}
		a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errA != nil || errB != nil {
			return 0
		}
		return math.Atan2(b, a) * 180 / math.Pi
	}

	return 0
}
