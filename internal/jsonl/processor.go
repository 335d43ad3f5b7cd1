package jsonl

import (
	"fmt"

	"github.com/vk/haspcfg/internal/device"
)

// Processor finishes a rendered object. Implementations return the object to
// hand to the next processor and must not depend on other objects.
type Processor interface {
	Process(obj map[string]any, cfg device.Config, vars map[string]any) (map[string]any, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(obj map[string]any, cfg device.Config, vars map[string]any) (map[string]any, error)

func (f ProcessorFunc) Process(obj map[string]any, cfg device.Config, vars map[string]any) (map[string]any, error) {
	return f(obj, cfg, vars)
}

// Chain runs processors in order.
type Chain []Processor

// DefaultChain returns the processors applied to every object.
func DefaultChain() Chain {
	return Chain{
		NewDimensionProcessor(),
		NewNumericProcessor(),
		ThemeProcessor{},
	}
}

// Process runs obj through every processor. Failures are reported as a
// *PostProcessingError identifying the object.
func (c Chain) Process(obj map[string]any, cfg device.Config, vars map[string]any) (map[string]any, error) {
	for _, p := range c {
		next, err := p.Process(obj, cfg, vars)
		if err != nil {
			return nil, identify(obj, err)
		}
		obj = next
	}
	return obj, nil
}

// PostProcessingError is raised when a processor cannot interpret a field.
// It is scoped to a single object.
type PostProcessingError struct {
	Page  any
	ID    any
	Key   string
	Value any
	Err   error
}

func (e *PostProcessingError) Error() string {
	msg := fmt.Sprintf("object page=%v id=%v", e.Page, e.ID)
	if e.Key != "" {
		msg += fmt.Sprintf(": field %q (%v)", e.Key, e.Value)
	}
	return msg + ": " + e.Err.Error()
}

func (e *PostProcessingError) Unwrap() error { return e.Err }

func identify(obj map[string]any, err error) error {
	ppe, ok := err.(*PostProcessingError)
	if !ok {
		ppe = &PostProcessingError{Err: err}
	}
	ppe.Page = obj["page"]
	ppe.ID = obj["id"]
	return ppe
}

func fieldError(key string, value any, format string, args ...any) error {
	return &PostProcessingError{Key: key, Value: value, Err: fmt.Errorf(format, args...)}
}
