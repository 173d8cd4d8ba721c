package session

// deepMerge merges source into target recursively. Nested maps are merged
// key by key; any other value overwrites, including a map replacing a
// non-map and vice versa.
func deepMerge(target, source map[string]any) {
	for key, value := range source {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := target[key].(map[string]any)
		if srcIsMap && dstIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		target[key] = value
	}
}

// deepCopyMap returns a copy of m with all nested maps and slices copied.
// Scalar values are shared, which is safe because they are immutable.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = deepCopyValue(value)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
