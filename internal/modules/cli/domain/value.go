package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is one command name with the value it was given.
type Pair struct {
	Key   string
	Value any
}

// Pairs is a key/value object that keeps insertion order.
type Pairs []Pair

// Keys returns the pair keys in order.
func (p Pairs) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pair := range p {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the last value stored under key.
func (p Pairs) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// AsPairs converts the object shapes accepted at the boundary into Pairs.
// map[string]any has no order of its own, so its keys are sorted.
func AsPairs(v any) (Pairs, bool) {
	switch obj := v.(type) {
	case Pairs:
		return obj, true
	case []Pair:
		return Pairs(obj), true
	case map[string]any:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Pairs, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: obj[k]})
		}
		return out, true
	case map[string]string:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Pairs, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: obj[k]})
		}
		return out, true
	default:
		return nil, false
	}
}

// Arrayify casts a value to a sequence: strings split on commas, slices pass
// through, anything else becomes a single element.
func Arrayify(v any) []any {
	switch val := v.(type) {
	case string:
		parts := strings.Split(val, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			out = append(out, part)
		}
		return out
	case []any:
		return val
	case []string:
		out := make([]any, 0, len(val))
		for _, s := range val {
			out = append(out, s)
		}
		return out
	default:
		return []any{v}
	}
}

// Keys arrayifies v and renders every element as a string key.
func Keys(v any) []string {
	items := Arrayify(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Stringify(item))
	}
	return out
}

// Expand turns a token value into the key/value pairs a host method takes.
// "a=b" yields {a: "b"}, a bare "a" yields {a: true} and objects keep their pairs.
func Expand(v any) Pairs {
	if pairs, ok := AsPairs(v); ok {
		return pairs
	}
	out := Pairs{}
	for _, item := range Arrayify(v) {
		if pairs, ok := AsPairs(item); ok {
			out = append(out, pairs...)
			continue
		}
		s, ok := item.(string)
		if !ok {
			out = append(out, Pair{Key: Stringify(item), Value: true})
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if key, value, found := strings.Cut(s, "="); found {
			out = append(out, Pair{Key: key, Value: value})
			continue
		}
		out = append(out, Pair{Key: s, Value: true})
	}
	return out
}

// Stringify renders a scalar token value.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
