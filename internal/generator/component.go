package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/jsonl"
)

// JSONLResult is a rendered JSONL component. Objects that failed
// post-processing are left out of Output and reported in ObjectErrors.
type JSONLResult struct {
	Output       string
	ObjectErrors []*jsonl.PostProcessingError
}

// RenderJSONL renders every object of comp against vars and finishes it with
// the post-processor chain. The output holds one JSON object per line.
func (p *Processor) RenderJSONL(ctx context.Context, dev *device.Device, comp *device.Component, vars map[string]any) (JSONLResult, error) {
	logger := ctxlog.FromContext(ctx).With("component", comp.Name)

	var result JSONLResult
	var lines []string
	for fragment := range jsonl.SplitObjects(comp.Content) {
		res, err := p.exp.Render(fragment, vars)
		if err != nil {
			return JSONLResult{}, fmt.Errorf("%s: %w", comp.Path, err)
		}
		if !res.Resolved() {
			logger.Warn("Unresolved templates left in object.", "references", res.Unresolved)
		}

		obj, err := jsonl.Parse(res.Text)
		if err != nil {
			return JSONLResult{}, fmt.Errorf("%s: %w", comp.Path, err)
		}
		obj, err = p.chain.Process(obj, dev.Config, vars)
		if err != nil {
			var ppe *jsonl.PostProcessingError
			if !errors.As(err, &ppe) {
				return JSONLResult{}, fmt.Errorf("%s: %w", comp.Path, err)
			}
			logger.Warn("Skipping object that failed post-processing.", "error", ppe)
			result.ObjectErrors = append(result.ObjectErrors, ppe)
			continue
		}

		line, err := jsonl.EncodeLine(obj)
		if err != nil {
			return JSONLResult{}, fmt.Errorf("%s: %w", comp.Path, err)
		}
		lines = append(lines, line)
	}

	result.Output = strings.Join(lines, "\n")
	logger.Debug("JSONL component rendered.", "objects", len(lines), "failed", len(result.ObjectErrors))
	return result, nil
}

// RenderCmd expands the templates of a command script. Everything else is
// left untouched.
func (p *Processor) RenderCmd(ctx context.Context, comp *device.Component, vars map[string]any) (string, error) {
	res, err := p.exp.Render(comp.Content, vars)
	if err != nil {
		return "", fmt.Errorf("%s: %w", comp.Path, err)
	}
	if !res.Resolved() {
		ctxlog.FromContext(ctx).Warn("Unresolved templates left in command script.", "component", comp.Name, "references", res.Unresolved)
	}
	return res.Text, nil
}
