package vars

import (
	"fmt"
	"strings"
)

// DeepMerge merges src into dst in place. Nested maps are unioned key by
// key, every other value in src replaces the one in dst. Merging a map with
// a non-map at the same key is a ConfigurationError.
func DeepMerge(dst, src map[string]any) error {
	return deepMerge(dst, src, nil)
}

func deepMerge(dst, src map[string]any, path []string) error {
	for key, srcVal := range src {
		keyPath := append(append([]string(nil), path...), key)
		dstVal, exists := dst[key]
		if !exists || dstVal == nil {
			dst[key] = DeepCopy(srcVal)
			continue
		}

		dstMap, dstIsMap := asMap(dstVal)
		srcMap, srcIsMap := asMap(srcVal)
		switch {
		case dstIsMap && srcIsMap:
			if err := deepMerge(dstMap, srcMap, keyPath); err != nil {
				return err
			}
			dst[key] = dstMap
		case dstIsMap != srcIsMap && srcVal != nil:
			return &ConfigurationError{
				Key:    strings.Join(keyPath, "."),
				Reason: fmt.Sprintf("cannot merge %s with %s", kind(dstVal), kind(srcVal)),
			}
		default:
			dst[key] = DeepCopy(srcVal)
		}
	}
	return nil
}

// Merge deep-merges the layers, lowest priority first, into a fresh map.
// None of the layers is modified.
func Merge(layers ...map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	for _, layer := range layers {
		if err := DeepMerge(out, layer); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeepCopy copies maps and slices recursively. Scalars are returned as is.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = DeepCopy(item)
		}
		return out
	case map[any]any:
		m, _ := asMap(t)
		return DeepCopy(m)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// CopyMap is DeepCopy for the common map case.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return DeepCopy(m).(map[string]any)
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func kind(v any) string {
	switch v.(type) {
	case map[string]any, map[any]any:
		return "a mapping"
	case []any:
		return "a list"
	default:
		return fmt.Sprintf("a scalar (%T)", v)
	}
}
