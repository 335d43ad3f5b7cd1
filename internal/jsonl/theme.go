package jsonl

import (
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/vars"
)

// ThemeProcessor fills in properties from the theme.obj.<type> variables of
// the object's type. Properties set on the object always win.
type ThemeProcessor struct{}

func (ThemeProcessor) Process(obj map[string]any, _ device.Config, v map[string]any) (map[string]any, error) {
	objType, ok := obj["obj"].(string)
	if !ok {
		return obj, nil
	}
	defaults, ok := lookup(v, "theme", "obj", objType).(map[string]any)
	if !ok {
		return obj, nil
	}
	for key, value := range defaults {
		if _, set := obj[key]; !set {
			obj[key] = vars.DeepCopy(value)
		}
	}
	return obj, nil
}

func lookup(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}
