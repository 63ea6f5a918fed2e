package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Helpers for reading loosely typed values produced by encoding/json and
// gopkg.in/yaml.v3 decoding into `any`.

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asInt accepts finite numbers within the 32-bit range and truncates
// fractions toward zero. Integers and floats go through the same check so a
// value decoded from YAML and from JSON gives the same result.
func asInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case bool:
			out = append(out, strconv.FormatBool(s))
		case int:
			out = append(out, strconv.Itoa(s))
		case float64:
			if !math.IsNaN(s) && !math.IsInf(s, 0) {
				out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
			}
		}
	}
	return out
}

// AsObject exposes the object coercion used by the decoders.
func AsObject(v any) (map[string]any, bool) {
	return asObject(v)
}

// AsString returns v when it is a string and "" otherwise.
func AsString(v any) string {
	return asString(v)
}
