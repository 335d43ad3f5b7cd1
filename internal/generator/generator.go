package generator

import (
	"fmt"

	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/jsonl"
	"github.com/vk/haspcfg/internal/render"
	"github.com/vk/haspcfg/internal/tmpl"
	"github.com/vk/haspcfg/internal/vars"
)

// Processor renders devices against a variable store.
type Processor struct {
	store    *vars.Store
	exp      *tmpl.Expander
	renderer *render.Renderer
	chain    jsonl.Chain
}

type options struct {
	chain     jsonl.Chain
	maxPasses int
}

// Option configures a Processor.
type Option func(*options)

// WithChain replaces the default post-processor chain.
func WithChain(chain jsonl.Chain) Option {
	return func(o *options) {
		o.chain = chain
	}
}

// WithMaxPasses caps the render passes used for contexts and objects.
func WithMaxPasses(n int) Option {
	return func(o *options) {
		o.maxPasses = n
	}
}

// New creates a Processor. The store must have been read and device
// variables injected before devices are rendered.
func New(store *vars.Store, opts ...Option) *Processor {
	o := options{chain: jsonl.DefaultChain(), maxPasses: render.DefaultMaxPasses}
	for _, opt := range opts {
		opt(&o)
	}
	exp := tmpl.NewExpander()
	return &Processor{
		store:    store,
		exp:      exp,
		renderer: render.New(exp, render.WithMaxPasses(o.maxPasses)),
		chain:    o.chain,
	}
}

// DeviceVars returns the variables describing dev itself: its name, the
// effective screen size and rotation under "device", and the parsed
// config.json under "config".
func DeviceVars(dev *device.Device) map[string]any {
	width, height := dev.Config.ScreenSize()
	return map[string]any{
		"device": map[string]any{
			"name":   dev.Name,
			"width":  width,
			"height": height,
			"rotate": dev.Config.Rotate,
		},
		"config": vars.DeepCopy(dev.Config.Raw),
	}
}

// InjectDeviceVars declares DeviceVars of every device in its directory
// scope. It mutates the store and must run before any concurrent rendering.
func InjectDeviceVars(store *vars.Store, devices []*device.Device) error {
	for _, dev := range devices {
		if err := store.AddVars(DeviceVars(dev), dev.Path); err != nil {
			return fmt.Errorf("device %s: %w", dev.Name, err)
		}
	}
	return nil
}
