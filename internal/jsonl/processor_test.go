package jsonl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/jsonl"
)

var screen = device.Config{Width: 320, Height: 480}

func TestDimensionProcessor(t *testing.T) {
	p := jsonl.NewDimensionProcessor()

	obj, err := p.Process(map[string]any{"x": "50%", "y": "25%", "w": "12.5%", "h": 10, "text": "50%"}, screen, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 160, "y": 120, "w": 40, "h": 10, "text": "50%"}, obj)
}

func TestDimensionProcessor_Rotated(t *testing.T) {
	p := jsonl.NewDimensionProcessor()
	cfg := device.Config{Width: 320, Height: 480, Rotate: 1}

	obj, err := p.Process(map[string]any{"x": "50%", "h": "50%"}, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 240, obj["x"])
	assert.Equal(t, 160, obj["h"])
}

func TestDimensionProcessor_Errors(t *testing.T) {
	p := jsonl.NewDimensionProcessor()

	_, err := p.Process(map[string]any{"x": "5x%"}, screen, nil)
	var ppe *jsonl.PostProcessingError
	require.ErrorAs(t, err, &ppe)
	assert.Equal(t, "x", ppe.Key)
	assert.Equal(t, "5x%", ppe.Value)

	_, err = p.Process(map[string]any{"w": "50%"}, device.Config{}, nil)
	require.ErrorAs(t, err, &ppe)
	assert.Contains(t, err.Error(), "screen size unknown")
}

func TestNumericProcessor(t *testing.T) {
	p := jsonl.NewNumericProcessor()

	obj, err := p.Process(map[string]any{
		"page": "1", "id": " 3 ", "x": "12.7", "val": 4, "text": "5", "min": "-2",
	}, screen, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"page": 1, "id": 3, "x": 12, "val": 4, "text": "5", "min": -2,
	}, obj)

	_, err = p.Process(map[string]any{"page": "abc"}, screen, nil)
	var ppe *jsonl.PostProcessingError
	require.ErrorAs(t, err, &ppe)
	assert.Equal(t, "page", ppe.Key)
}

func TestThemeProcessor(t *testing.T) {
	vars := map[string]any{
		"theme": map[string]any{
			"obj": map[string]any{
				"btn": map[string]any{"radius": 5, "bg_color": "#FFFFFF"},
			},
		},
	}

	obj, err := jsonl.ThemeProcessor{}.Process(map[string]any{"obj": "btn", "radius": 10}, screen, vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"obj": "btn", "radius": 10, "bg_color": "#FFFFFF"}, obj)

	obj, err = jsonl.ThemeProcessor{}.Process(map[string]any{"obj": "label"}, screen, vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"obj": "label"}, obj)

	obj, err = jsonl.ThemeProcessor{}.Process(map[string]any{"obj": "btn"}, screen, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"obj": "btn"}, obj)
}

func TestDefaultChain(t *testing.T) {
	vars := map[string]any{
		"theme": map[string]any{"obj": map[string]any{"btn": map[string]any{"w": 100, "x": 5}}},
	}
	obj, err := jsonl.DefaultChain().Process(map[string]any{"page": "1", "id": "2", "obj": "btn", "x": "10%"}, screen, vars)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"page": 1, "id": 2, "obj": "btn", "x": 32, "w": 100}, obj)
}

func TestChain_ErrorIdentifiesObject(t *testing.T) {
	_, err := jsonl.DefaultChain().Process(map[string]any{"page": 2, "id": 7, "y": "oops%"}, screen, nil)

	var ppe *jsonl.PostProcessingError
	require.ErrorAs(t, err, &ppe)
	assert.Equal(t, 2, ppe.Page)
	assert.Equal(t, 7, ppe.ID)
	assert.Equal(t, "y", ppe.Key)
	assert.Contains(t, err.Error(), "object page=2 id=7")
}

func TestChain_WrapsPlainErrors(t *testing.T) {
	boom := errors.New("boom")
	chain := jsonl.Chain{jsonl.ProcessorFunc(func(map[string]any, device.Config, map[string]any) (map[string]any, error) {
		return nil, boom
	})}

	_, err := chain.Process(map[string]any{"page": 1, "id": 1}, screen, nil)
	require.ErrorIs(t, err, boom)
	var ppe *jsonl.PostProcessingError
	require.ErrorAs(t, err, &ppe)
	assert.Equal(t, 1, ppe.Page)
}
