package bridge

import (
	"encoding/json"
	"fmt"
)

// MarshalResult serialises a single-viewport payload.
func MarshalResult(r *ExtractionResult) ([]byte, error) {
	return json.Marshal(r)
}

// MarshalMulti serialises a multi-viewport payload, forcing the discriminant.
func MarshalMulti(m *MultiViewportResult) ([]byte, error) {
	m.Type = MultiViewportDiscriminant
	return json.Marshal(m)
}

// ViewportLabel buckets a capture width into the conventional device label.
func ViewportLabel(width int) string {
	switch {
	case width > 0 && width <= 480:
		return "mobile"
	case width > 480 && width <= 1024:
		return "tablet"
	default:
		return "desktop"
	}
}

// ParsePayload decodes a bridge payload of either shape. A single
// ExtractionResult is normalised into a one-entry MultiViewportResult so
// downstream code handles exactly one shape.
//
// Malformed payloads are the one terminal error class of a conversion:
// nothing partial is committed past this point.
func ParsePayload(data []byte) (*MultiViewportResult, error) {
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("bridge: invalid payload: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("bridge: decode payload: %w", err)
	}

	if probe.Type == MultiViewportDiscriminant {
		var m MultiViewportResult
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bridge: decode multi-viewport payload: %w", err)
		}
		if len(m.Viewports) == 0 {
			return nil, fmt.Errorf("bridge: multi-viewport payload has no viewports")
		}
		return &m, nil
	}

	var r ExtractionResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("bridge: decode payload: %w", err)
	}
	if r.Root == nil {
		return nil, fmt.Errorf("bridge: payload has no root node")
	}

	return &MultiViewportResult{
		Type: MultiViewportDiscriminant,
		Viewports: []ViewportCapture{{
			Label:  ViewportLabel(r.Viewport.Width),
			Width:  r.Viewport.Width,
			Height: r.Viewport.Height,
			Result: &r,
		}},
	}, nil
}
