package device

import (
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"github.com/vk/haspcfg/internal/ctyconv"
)

// ConfigFileName is the device configuration file marking a device directory.
const ConfigFileName = "config.json"

// Config is the part of a device's config.json the renderer needs, plus the
// full parsed document.
type Config struct {
	Width  int
	Height int
	Rotate int
	Raw    map[string]any
}

// Rotated reports whether the screen is turned by an odd multiple of 90
// degrees. openHASP encodes rotation as 0-7 (values 4-7 are mirrored);
// larger values are taken as degrees.
func (c Config) Rotated() bool {
	r := c.Rotate
	if r >= 90 {
		r /= 90
	}
	return r%2 == 1
}

// ScreenSize returns the effective width and height, swapped when rotated.
func (c Config) ScreenSize() (int, int) {
	if c.Rotated() {
		return c.Height, c.Width
	}
	return c.Width, c.Height
}

// LoadConfig reads a device config.json. Comments and trailing commas are
// tolerated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read device config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses the contents of a device config.json.
func ParseConfig(data []byte) (Config, error) {
	raw, err := ctyconv.DecodeJSONObject(jsonc.ToJSON(data))
	if err != nil {
		return Config{}, fmt.Errorf("invalid device config: %w", err)
	}

	cfg := Config{Raw: raw}
	if cfg.Width, err = intAt(raw, "openhasp_config_manager", "device", "screen", "width"); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = intAt(raw, "openhasp_config_manager", "device", "screen", "height"); err != nil {
		return Config{}, err
	}
	if cfg.Rotate, err = intAt(raw, "gui", "rotate"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// intAt returns the integer at path, or zero when any element is missing.
func intAt(m map[string]any, path ...string) (int, error) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, nil
		}
		if cur, ok = obj[key]; !ok {
			return 0, nil
		}
	}
	switch v := cur.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("invalid device config: %v must be a number, got %T", path, cur)
	}
}
