package tmpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/haspcfg/internal/ctyconv"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Result is the outcome of rendering one text.
type Result struct {
	// Text is the rendered text. Regions that could not be resolved are
	// left verbatim.
	Text string
	// Unresolved lists the references (e.g. "p1b1.id") that were missing
	// from the variables, sorted and without duplicates.
	Unresolved []string
}

// Resolved reports whether every region in the text was rendered.
func (r Result) Resolved() bool {
	return len(r.Unresolved) == 0
}

// Expander renders templates. Parsed templates and compiled expressions are
// cached per instance; an Expander must not be shared between goroutines.
type Expander struct {
	segments map[string][]segment
	exprs    map[string]hclsyntax.Expression
}

// NewExpander creates an Expander with empty caches.
func NewExpander() *Expander {
	return &Expander{
		segments: make(map[string][]segment),
		exprs:    make(map[string]hclsyntax.Expression),
	}
}

// Render expands every template region of text against vars.
func (e *Expander) Render(text string, vars map[string]any) (Result, error) {
	if !HasTemplate(text) {
		return Result{Text: text}, nil
	}

	segs, err := e.parse(text)
	if err != nil {
		return Result{}, &TemplateError{Template: text, Context: snapshot(vars), Err: err}
	}

	st := &renderState{
		vars:       vars,
		values:     make(map[string]cty.Value),
		unresolved: make(map[string]struct{}),
	}
	out, _, err := e.renderSegments(segs, st)
	if err != nil {
		var tErr *TemplateError
		if errors.As(err, &tErr) {
			tErr.Template = text
			tErr.Context = snapshot(vars)
			return Result{}, tErr
		}
		return Result{}, &TemplateError{Template: text, Context: snapshot(vars), Err: err}
	}

	res := Result{Text: out}
	if len(st.unresolved) > 0 {
		res.Unresolved = make([]string, 0, len(st.unresolved))
		for name := range st.unresolved {
			res.Unresolved = append(res.Unresolved, name)
		}
		sort.Strings(res.Unresolved)
	}
	return res, nil
}

// Unresolved returns the references in text that cannot be resolved against
// vars. An empty result means Render would expand every region.
func (e *Expander) Unresolved(text string, vars map[string]any) ([]string, error) {
	res, err := e.Render(text, vars)
	if err != nil {
		return nil, err
	}
	return res.Unresolved, nil
}

func (e *Expander) parse(text string) ([]segment, error) {
	if segs, ok := e.segments[text]; ok {
		return segs, nil
	}
	segs, err := parseSegments(text)
	if err != nil {
		return nil, err
	}
	e.segments[text] = segs
	return segs, nil
}

func (e *Expander) compile(src string) (hclsyntax.Expression, error) {
	if expr, ok := e.exprs[src]; ok {
		return expr, nil
	}
	expr, err := compile(src)
	if err != nil {
		return nil, err
	}
	e.exprs[src] = expr
	return expr, nil
}

// renderState holds per-call evaluation state. Variables are converted to
// cty lazily, only for the root names an expression actually references.
type renderState struct {
	vars       map[string]any
	values     map[string]cty.Value
	unresolved map[string]struct{}
}

func (st *renderState) value(name string) (cty.Value, bool, error) {
	if v, ok := st.values[name]; ok {
		return v, true, nil
	}
	raw, ok := st.vars[name]
	if !ok {
		return cty.NilVal, false, nil
	}
	v, err := ctyconv.FromNative(raw)
	if err != nil {
		return cty.NilVal, false, fmt.Errorf("%w: variable %q: %v", ErrEvaluation, name, err)
	}
	st.values[name] = v
	return v, true, nil
}

// renderSegments renders a segment list. The boolean is false when at least
// one region could not be resolved.
func (e *Expander) renderSegments(segs []segment, st *renderState) (string, bool, error) {
	var sb strings.Builder
	resolved := true
	for _, seg := range segs {
		if !seg.template {
			sb.WriteString(seg.text)
			continue
		}

		inner, ok, err := e.renderSegments(seg.children, st)
		if err != nil {
			return "", false, err
		}
		if !ok {
			sb.WriteString(seg.src)
			resolved = false
			continue
		}

		out, ok, err := e.evaluate(strings.TrimSpace(inner), st)
		if err != nil {
			return "", false, err
		}
		if !ok {
			sb.WriteString(seg.src)
			resolved = false
			continue
		}
		sb.WriteString(out)
	}
	return sb.String(), resolved, nil
}

// evaluate compiles and evaluates one expression. It returns false without an
// error when a referenced variable is missing or still holds a template.
func (e *Expander) evaluate(src string, st *renderState) (string, bool, error) {
	if src == "" {
		return "", false, &TemplateError{Err: fmt.Errorf("%w: empty expression", ErrSyntax)}
	}
	expr, err := e.compile(src)
	if err != nil {
		return "", false, &TemplateError{Expression: src, Err: err}
	}

	evalCtx := &hcl.EvalContext{Variables: make(map[string]cty.Value)}
	var missing []string
	for _, trav := range expr.Variables() {
		root := trav.RootName()
		v, ok, err := st.value(root)
		if err != nil {
			return "", false, &TemplateError{Expression: src, Err: err}
		}
		if !ok {
			missing = append(missing, TraversalKey(trav))
			continue
		}
		evalCtx.Variables[root] = v
	}
	if len(missing) == 0 {
		for _, trav := range expr.Variables() {
			target, diags := trav.TraverseAbs(evalCtx)
			if diags.HasErrors() || containsTemplate(target) {
				missing = append(missing, TraversalKey(trav))
			}
		}
	}
	if len(missing) > 0 {
		return e.evaluateSpaced(src, missing, st)
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", false, &TemplateError{Expression: src, Err: fmt.Errorf("%w: %s", ErrEvaluation, diags.Error())}
	}
	out, err := formatValue(val)
	if errors.Is(err, errInfinite) && dividesByZero(expr, evalCtx) {
		err = fmt.Errorf("%w: division by zero", ErrEvaluation)
	}
	if err != nil {
		return "", false, &TemplateError{Expression: src, Err: err}
	}
	return out, true, nil
}

// evaluateSpaced handles names like "w-10", which parse as one identifier.
// When the name is undefined but the expression evaluates as a subtraction,
// the subtraction wins. Otherwise the original references stay unresolved.
func (e *Expander) evaluateSpaced(src string, missing []string, st *renderState) (string, bool, error) {
	if spaced := spaceHyphens(src); spaced != src {
		scratch := &renderState{vars: st.vars, values: st.values, unresolved: make(map[string]struct{})}
		out, ok, err := e.evaluate(spaced, scratch)
		if err != nil || ok {
			return out, ok, err
		}
	}
	for _, key := range missing {
		st.unresolved[key] = struct{}{}
	}
	return "", false, nil
}

// dividesByZero reports whether expr holds a division whose divisor
// evaluates to zero.
func dividesByZero(expr hclsyntax.Expression, evalCtx *hcl.EvalContext) bool {
	found := false
	_ = hclsyntax.VisitAll(expr, func(node hclsyntax.Node) hcl.Diagnostics {
		bin, ok := node.(*hclsyntax.BinaryOpExpr)
		if found || !ok || bin.Op != hclsyntax.OpDivide {
			return nil
		}
		rhs, diags := bin.RHS.Value(evalCtx)
		if diags.HasErrors() {
			return nil
		}
		n, err := convert.Convert(rhs, cty.Number)
		if err == nil && n.IsKnown() && !n.IsNull() && n.AsBigFloat().Sign() == 0 {
			found = true
		}
		return nil
	})
	return found
}

// containsTemplate reports whether any string inside v still holds a
// template region, meaning the value itself is not rendered yet.
func containsTemplate(v cty.Value) bool {
	found := false
	_ = cty.Walk(v, func(_ cty.Path, item cty.Value) (bool, error) {
		if found {
			return false, nil
		}
		if item.IsKnown() && !item.IsNull() && item.Type() == cty.String && HasTemplate(item.AsString()) {
			found = true
			return false, nil
		}
		return true, nil
	})
	return found
}

var errInfinite = fmt.Errorf("%w: result is infinite", ErrEvaluation)

// formatValue turns an evaluation result into template output.
func formatValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("%w: result is unknown", ErrEvaluation)
	}

	switch ty := v.Type(); {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return strconv.FormatBool(v.True()), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInf() {
			return "", errInfinite
		}
		if bf.IsInt() {
			return bf.Text('f', 0), nil
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		native, err := ctyconv.ToNative(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEvaluation, err)
		}
		data, err := json.Marshal(native)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEvaluation, err)
		}
		return string(data), nil
	}
}
