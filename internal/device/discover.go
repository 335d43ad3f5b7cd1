package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/fsutil"
)

const (
	// DevicesDir holds one directory per device below the configuration root.
	DevicesDir = "devices"
	// CommonDir holds components shared by all devices.
	CommonDir = "common"
)

var componentPatterns = map[ComponentType][]string{
	TypeJSONL: {"*.jsonl"},
	TypeCmd:   {"*.cmd"},
	TypeImage: {"*.png", "*.jpg", "*.jpeg", "*.bin"},
	TypeFont:  {"*.ttf", "*.otf"},
}

// componentOrder fixes the order in which types are classified.
var componentOrder = []ComponentType{TypeJSONL, TypeCmd, TypeImage, TypeFont}

// TypeOf classifies a file name. The boolean is false for files that are not
// components (declarations, config.json, anything unknown).
func TypeOf(name string) (ComponentType, bool) {
	lower := strings.ToLower(filepath.Base(name))
	for _, t := range componentOrder {
		if fsutil.MatchAny(lower, componentPatterns[t]...) {
			return t, true
		}
	}
	return "", false
}

// Discover finds the devices below root. When names are given only those
// devices are returned; asking for an unknown device is an error.
func Discover(ctx context.Context, root string, names ...string) ([]*Device, error) {
	logger := ctxlog.FromContext(ctx)
	devicesRoot := filepath.Join(root, DevicesDir)

	entries, err := os.ReadDir(devicesRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read devices directory %s: %w", devicesRoot, err)
	}

	common, err := loadComponents(filepath.Join(root, CommonDir), true)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered common components.", "count", len(common))

	var devices []*Device
	found := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if len(names) > 0 && !slices.Contains(names, entry.Name()) {
			continue
		}
		dir := filepath.Join(devicesRoot, entry.Name())
		cfgPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(cfgPath); err != nil {
			logger.Debug("Skipping directory without device config.", "dir", dir)
			continue
		}

		dev, err := loadDevice(entry.Name(), dir, common)
		if err != nil {
			return nil, err
		}
		found[dev.Name] = true
		devices = append(devices, dev)
		logger.Debug("Discovered device.",
			"device", dev.Name,
			"jsonl", len(dev.JSONL),
			"cmd", len(dev.Cmd),
			"images", len(dev.Images),
			"fonts", len(dev.Fonts),
		)
	}

	for _, name := range names {
		if !found[name] {
			return nil, fmt.Errorf("device %q not found in %s", name, devicesRoot)
		}
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
	return devices, nil
}

func loadDevice(name, dir string, common []*Component) (*Device, error) {
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", name, err)
	}

	own, err := loadComponents(dir, false)
	if err != nil {
		return nil, err
	}

	dev := &Device{Name: name, Path: dir, Config: cfg}
	// Common components first; a device component with the same name
	// replaces the shared one in place.
	for _, c := range common {
		dev.add(c)
	}
	for _, c := range own {
		dev.add(c)
	}
	return dev, nil
}

// loadComponents reads all component files below dir. A missing dir yields
// no components.
func loadComponents(dir string, shared bool) ([]*Component, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var patterns []string
	for _, t := range componentOrder {
		for _, p := range componentPatterns[t] {
			patterns = append(patterns, "**/"+p)
		}
	}
	files, err := fsutil.FindFiles(dir, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan components in %s: %w", dir, err)
	}

	components := make([]*Component, 0, len(files))
	for _, path := range files {
		t, ok := TypeOf(path)
		if !ok {
			continue
		}
		c := &Component{Name: filepath.Base(path), Path: path, Type: t, Common: shared}
		if t == TypeJSONL || t == TypeCmd {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read component %s: %w", path, err)
			}
			c.Content = string(data)
		}
		components = append(components, c)
	}
	return components, nil
}
