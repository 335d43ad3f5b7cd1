package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/generator"
	"github.com/vk/haspcfg/internal/vars"
	"golang.org/x/sync/errgroup"
)

// App encapsulates the application's configuration and logger.
type App struct {
	config *Config
	logger *slog.Logger
}

// Summary describes a finished generation run.
type Summary struct {
	Devices      []string
	Files        int
	ObjectErrors int
}

// NewApp creates an App that logs to logW.
func NewApp(logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{config: cfg, logger: logger}
}

// load reads the variable store, discovers the devices and declares their
// metadata. It runs before any concurrent work since it mutates the store.
func (a *App) load(ctx context.Context, names ...string) (*vars.Store, []*device.Device, error) {
	store := vars.New(a.config.ConfigDir)
	if err := store.Read(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to read variables: %w", err)
	}
	devices, err := device.Discover(ctx, a.config.ConfigDir, names...)
	if err != nil {
		return nil, nil, err
	}
	if err := generator.InjectDeviceVars(store, devices); err != nil {
		return nil, nil, err
	}
	return store, devices, nil
}

// Generate renders every selected device and writes its files to the output
// directory. Devices are rendered concurrently, each with its own
// generator.Processor. Objects that fail post-processing are skipped and
// reported; the run then ends with an error after all output is written.
func (a *App) Generate(ctx context.Context) (*Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Generate method started.", "config_dir", a.config.ConfigDir, "output_dir", a.config.OutputDir)

	store, devices, err := a.load(ctx, a.config.Devices...)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		a.logger.Warn("No devices found, nothing to generate.", "config_dir", a.config.ConfigDir)
		return &Summary{}, nil
	}
	a.logger.Info("Generating device configurations.", "devices", len(devices), "workers", a.config.WorkerCount)

	outputs := make([]*generator.DeviceOutput, len(devices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, dev := range devices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := generator.New(store).Device(gctx, dev)
			if err != nil {
				return fmt.Errorf("device %s: %w", dev.Name, err)
			}
			if err := generator.WriteOutput(a.config.OutputDir, out); err != nil {
				return fmt.Errorf("device %s: %w", dev.Name, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, out := range outputs {
		summary.Devices = append(summary.Devices, out.Name)
		summary.Files += len(out.Files)
		summary.ObjectErrors += len(out.ObjectErrors)
		for _, objErr := range out.ObjectErrors {
			a.logger.Error("Object failed post-processing.", "device", out.Name, "error", objErr)
		}
	}
	a.logger.Info("Generation finished.", "devices", len(summary.Devices), "files", summary.Files, "object_errors", summary.ObjectErrors)

	if summary.ObjectErrors > 0 {
		return summary, fmt.Errorf("%d objects failed post-processing", summary.ObjectErrors)
	}
	return summary, nil
}

// Vars returns the variables visible to path, a file or directory relative
// to the configuration root, including the metadata of devices.
func (a *App) Vars(ctx context.Context, path string) (map[string]any, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	store, _, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return store.Vars(path)
}
