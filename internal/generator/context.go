package generator

import (
	"context"
	"fmt"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/vars"
)

// baseVars returns the variable layers of comp without object references,
// lowest priority first.
func (p *Processor) baseVars(dev *device.Device, comp *device.Component) (map[string]any, error) {
	layers, err := p.scopeLayers(dev, comp)
	if err != nil {
		return nil, err
	}
	return vars.Merge(layers...)
}

// scopeLayers returns the device layer and, for shared components, the
// layer of the common directory. A shared component sees the device's
// variables with the common declarations on top; only the declarations below
// the root are taken from the common side so they cannot hide the device's
// overrides of global values.
func (p *Processor) scopeLayers(dev *device.Device, comp *device.Component) ([]map[string]any, error) {
	if !comp.Common {
		own, err := p.store.Vars(comp.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", comp.Path, err)
		}
		return []map[string]any{own}, nil
	}

	devVars, err := p.store.Vars(dev.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dev.Path, err)
	}
	common, err := p.store.Local(comp.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", comp.Path, err)
	}
	return []map[string]any{devVars, common}, nil
}

// Context composes and renders the template context of comp: the variable
// scopes from the root down to the device, then the object references of
// the device, then the common directory scope for shared components. The
// context is rendered against itself so its values may refer to each other.
func (p *Processor) Context(ctx context.Context, dev *device.Device, comp *device.Component, objects map[string]any) (map[string]any, error) {
	layers, err := p.scopeLayers(dev, comp)
	if err != nil {
		return nil, err
	}
	// Object references sit between the device scope and the common scope.
	ordered := append([]map[string]any{layers[0], objects}, layers[1:]...)

	merged, err := vars.Merge(ordered...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", comp.Path, err)
	}
	rendered, err := p.renderer.Render(merged, merged)
	if err != nil {
		return nil, fmt.Errorf("rendering context of %s: %w", comp.Path, err)
	}
	ctxlog.FromContext(ctx).Debug("Context rendered.", "component", comp.Name, "keys", len(rendered))
	return rendered, nil
}
