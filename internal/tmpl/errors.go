package tmpl

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax marks malformed templates and expressions.
	ErrSyntax = errors.New("template syntax error")
	// ErrEvaluation marks expressions that parsed but failed to evaluate,
	// e.g. arithmetic on non-numbers or division by zero.
	ErrEvaluation = errors.New("template evaluation error")
)

// TemplateError carries the template that failed and a snapshot of the
// variables it was rendered against.
type TemplateError struct {
	Template   string
	Expression string
	Context    map[string]any
	Err        error
}

func (e *TemplateError) Error() string {
	if e.Expression != "" {
		return fmt.Sprintf("%v in expression %q of template %q", e.Err, e.Expression, e.Template)
	}
	return fmt.Sprintf("%v in template %q", e.Err, e.Template)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

func snapshot(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
