// Package ctyconv converts between the plain Go values produced by the YAML
// and JSON decoders (map[string]any, []any, scalars) and cty values used by
// the HCL expression evaluator.
package ctyconv
