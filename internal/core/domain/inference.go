package domain

import "encoding/json"

// InferenceResponse is the external shape of the analysis service payload.
// Every field is optional: the service is not under our control, so the
// response is decoded into this loose shape first and mapped into internal
// views field by field, never directly.
type InferenceResponse struct {
	Status          string           `json:"status,omitempty"`
	Fusion          map[string]any   `json:"fusion,omitempty"`
	Recommendations []map[string]any `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// HasFusion reports whether the classification block is present. Its
// absence signals a low-confidence analysis, not a failure.
func (r *InferenceResponse) HasFusion() bool {
	return r != nil && len(r.Fusion) > 0
}

func DecodeInferenceResponse(raw []byte) (*InferenceResponse, error) {
	var resp InferenceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Coercion helpers shared by every decode site. Numeric fields are only
// accepted from numeric-typed source values; strings are never parsed.

func AsString(v any) string {
	s, _ := v.(string)
	return s
}

func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func AsInt(v any) (int, bool) {
	f, ok := AsFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func AsStringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
