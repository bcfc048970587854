package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fields is a read-only view over one decoded JSON object. Every accessor
// returns the zero value (or nil) when the key is missing or has the wrong type.
type fields map[string]any

func asFields(v any) (fields, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return fields(m), true
}

func (f fields) str(key string) string {
	s, _ := f[key].(string)
	return s
}

// strOK distinguishes a missing key from an empty string.
func (f fields) strOK(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// num accepts JSON numbers and numeric strings. Anything else is absent.
func (f fields) num(key string) *float64 {
	v, ok := toFloat(f[key])
	if !ok {
		return nil
	}
	return &v
}

func (f fields) millis(key string) *Millis {
	v, ok := toFloat(f[key])
	if !ok {
		return nil
	}
	m := Millis(v)
	return &m
}

func (f fields) integer(key string) *int {
	v, ok := toFloat(f[key])
	if !ok || v != math.Trunc(v) {
		return nil
	}
	i := int(v)
	return &i
}

func (f fields) boolean(key string) *bool {
	b, ok := f[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

func (f fields) dict(key string) (fields, bool) {
	return asFields(f[key])
}

// list returns the object elements of an array, skipping elements that are not
// objects. It returns nil when the key is missing or not an array.
func (f fields) list(key string) []fields {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]fields, 0, len(raw))
	for _, item := range raw {
		if obj, ok := asFields(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
