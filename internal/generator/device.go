package generator

import (
	"context"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/jsonl"
)

// File is one output file of a device. Rendered files carry Content; images
// and fonts are copied from Source.
type File struct {
	Name    string
	Content string
	Source  string
}

// DeviceOutput holds everything generated for one device.
type DeviceOutput struct {
	Name         string
	Files        []File
	ObjectErrors []*jsonl.PostProcessingError
}

// Device renders all components of dev.
func (p *Processor) Device(ctx context.Context, dev *device.Device) (*DeviceOutput, error) {
	ctx = ctxlog.With(ctx, "device", dev.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering device.")

	objects, err := p.ObjectMap(ctx, dev)
	if err != nil {
		return nil, err
	}
	logger.Debug("Object map built.", "objects", len(objects))

	out := &DeviceOutput{Name: dev.Name}
	for _, comp := range dev.JSONL {
		vars, err := p.Context(ctx, dev, comp, objects)
		if err != nil {
			return nil, err
		}
		res, err := p.RenderJSONL(ctx, dev, comp, vars)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, File{Name: comp.Name, Content: res.Output})
		out.ObjectErrors = append(out.ObjectErrors, res.ObjectErrors...)
	}
	for _, comp := range dev.Cmd {
		vars, err := p.Context(ctx, dev, comp, objects)
		if err != nil {
			return nil, err
		}
		text, err := p.RenderCmd(ctx, comp, vars)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, File{Name: comp.Name, Content: text})
	}
	for _, comp := range append(append([]*device.Component(nil), dev.Images...), dev.Fonts...) {
		out.Files = append(out.Files, File{Name: comp.Name, Source: comp.Path})
	}

	logger.Info("Device rendered.", "files", len(out.Files), "object_errors", len(out.ObjectErrors))
	return out, nil
}
