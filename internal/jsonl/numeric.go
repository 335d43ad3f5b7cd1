package jsonl

import (
	"math"
	"strconv"
	"strings"

	"github.com/vk/haspcfg/internal/device"
)

// NumericFields are the object properties openHASP expects to be integers.
var NumericFields = []string{
	"page", "id", "x", "y", "w", "h",
	"text_font", "value_font",
	"radius", "border_width", "outline_width",
	"min", "max", "val",
	"prev", "next", "back",
	"groupid", "parentid",
}

// NumericProcessor converts string values of numeric fields to integers.
// Templates always render to text, so `"id": "{{ id }}"` arrives here as a
// string.
type NumericProcessor struct {
	Fields []string
}

func NewNumericProcessor() NumericProcessor {
	return NumericProcessor{Fields: NumericFields}
}

func (p NumericProcessor) Process(obj map[string]any, _ device.Config, _ map[string]any) (map[string]any, error) {
	for _, key := range p.Fields {
		s, ok := obj[key].(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fieldError(key, s, "not a number")
		}
		obj[key] = int(f)
	}
	return obj, nil
}
