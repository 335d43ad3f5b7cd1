package vars_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/vars"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"a": map[string]any{"x": 1, "y": 2},
		"b": []any{1, 2},
		"c": "keep",
	}
	src := map[string]any{
		"a": map[string]any{"y": 3, "z": 4},
		"b": []any{9},
		"d": map[string]any{"new": true},
	}
	require.NoError(t, vars.DeepMerge(dst, src))
	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": 1, "y": 3, "z": 4},
		"b": []any{9},
		"c": "keep",
		"d": map[string]any{"new": true},
	}, dst)

	// src must not be aliased into dst.
	src["d"].(map[string]any)["new"] = false
	assert.Equal(t, true, dst["d"].(map[string]any)["new"])
}

func TestDeepMerge_MapScalarConflict(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
	}{
		{"map over scalar", map[string]any{"k": 1}, map[string]any{"k": map[string]any{"a": 1}}},
		{"scalar over map", map[string]any{"k": map[string]any{"a": 1}}, map[string]any{"k": "x"}},
		{"nested", map[string]any{"a": map[string]any{"k": []any{}}}, map[string]any{"a": map[string]any{"k": map[string]any{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vars.DeepMerge(tt.dst, tt.src)
			var cfgErr *vars.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestMerge_DoesNotModifyLayers(t *testing.T) {
	low := map[string]any{"a": map[string]any{"x": 1}}
	high := map[string]any{"a": map[string]any{"y": 2}}

	out, err := vars.Merge(low, high)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"x": 1, "y": 2}}, out)
	assert.Equal(t, map[string]any{"a": map[string]any{"x": 1}}, low)
}

func TestDeepCopy_NormalizesAnyKeyMaps(t *testing.T) {
	in := map[string]any{"m": map[any]any{1: "one"}, "l": []any{map[any]any{"k": "v"}}}
	out := vars.DeepCopy(in)
	assert.Equal(t, map[string]any{
		"m": map[string]any{"1": "one"},
		"l": []any{map[string]any{"k": "v"}},
	}, out)
}
