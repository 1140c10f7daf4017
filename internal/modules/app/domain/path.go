package domain

import "strings"

// Keys may address nested maps with dots: "a.b.c".

func splitPath(key string) []string {
	return strings.Split(key, ".")
}

// SetPath stores value at key, creating intermediate maps and replacing
// scalars that sit in the way.
func SetPath(root map[string]any, key string, value any) {
	parts := splitPath(key)
	node := root
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// GetPath returns the value stored at key.
func GetPath(root map[string]any, key string) (any, bool) {
	parts := splitPath(key)
	var current any = root
	for _, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// DelPath removes key and reports whether it existed.
func DelPath(root map[string]any, key string) bool {
	parts := splitPath(key)
	node := root
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return false
		}
		node = child
	}
	last := parts[len(parts)-1]
	if _, ok := node[last]; !ok {
		return false
	}
	delete(node, last)
	return true
}

// Merge copies src into dst recursively; src wins on conflicts.
func Merge(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			Merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

// Truthy mirrors loose flag semantics: false, nil, "", "false", "0" and
// zero numbers are false.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && s != "false" && s != "0" && s != "no"
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
