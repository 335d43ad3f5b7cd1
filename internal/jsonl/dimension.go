package jsonl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/haspcfg/internal/device"
)

var percentRe = regexp.MustCompile(`^\d+(\.\d+)?%$`)

// DimensionProcessor replaces percentage strings such as "50%" in geometry
// fields with pixels relative to the effective screen size. Width fields
// scale with the screen width and height fields with its height; both
// follow the rotation of the device.
type DimensionProcessor struct {
	WidthFields  []string
	HeightFields []string
}

func NewDimensionProcessor() DimensionProcessor {
	return DimensionProcessor{
		WidthFields:  []string{"x", "w"},
		HeightFields: []string{"y", "h"},
	}
}

func (p DimensionProcessor) Process(obj map[string]any, cfg device.Config, _ map[string]any) (map[string]any, error) {
	width, height := cfg.ScreenSize()
	for _, key := range p.WidthFields {
		if err := scalePercent(obj, key, width); err != nil {
			return nil, err
		}
	}
	for _, key := range p.HeightFields {
		if err := scalePercent(obj, key, height); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func scalePercent(obj map[string]any, key string, base int) error {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return nil
	}
	if !percentRe.MatchString(s) {
		return fieldError(key, obj[key], "malformed percentage")
	}
	if base <= 0 {
		return fieldError(key, obj[key], "screen size unknown, set openhasp_config_manager.device.screen in config.json")
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return fieldError(key, obj[key], "malformed percentage: %w", err)
	}
	obj[key] = int(float64(base) * pct / 100)
	return nil
}
