package jsonl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/jsonl"
)

func TestEncodeLine(t *testing.T) {
	testCases := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"sorted keys", map[string]any{"y": 0, "x": 0, "page": 1, "id": 0}, `{"id": 0, "page": 1, "x": 0, "y": 0}`},
		{"utf8 kept", map[string]any{"text": "21 °C"}, `{"text": "21 °C"}`},
		{"no html escaping", map[string]any{"text": "<b>&</b>"}, `{"text": "<b>&</b>"}`},
		{"nested", map[string]any{"b": map[string]any{"c": true}, "a": []any{1, "x", nil}}, `{"a": [1, "x", null], "b": {"c": true}}`},
		{"float", map[string]any{"v": 1.5}, `{"v": 1.5}`},
		{"quotes escaped", map[string]any{"t": `say "hi"`}, `{"t": "say \"hi\""}`},
		{"empty", map[string]any{}, `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := jsonl.EncodeLine(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeLines(t *testing.T) {
	out, err := jsonl.EncodeLines([]map[string]any{
		{"page": 1, "id": 0},
		{"page": 1, "id": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"id\": 0, \"page\": 1}\n{\"id\": 1, \"page\": 1}", out)

	out, err = jsonl.EncodeLines(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
