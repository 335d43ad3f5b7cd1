package render

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/haspcfg/internal/tmpl"
	"github.com/vk/haspcfg/internal/vars"
)

// DefaultMaxPasses bounds the number of passes as a safety net on top of the
// no-progress check.
const DefaultMaxPasses = 100

// Renderer resolves templates in nested maps. It shares the Expander's
// caches and, like it, must not be used from several goroutines at once.
type Renderer struct {
	exp       *tmpl.Expander
	maxPasses int
	logger    *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithLogger enables debug logging of passes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates a Renderer backed by exp. A nil exp gets a fresh Expander.
func New(exp *tmpl.Expander, opts ...Option) *Renderer {
	if exp == nil {
		exp = tmpl.NewExpander()
	}
	r := &Renderer{exp: exp, maxPasses: DefaultMaxPasses}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Expander returns the Expander used for single templates.
func (r *Renderer) Expander() *tmpl.Expander {
	return r.exp
}

// Render resolves every template in input against ctxVars and returns the
// rendered copy. Resolved pairs are written into ctxVars below keyPath as
// they resolve. If templates remain that cannot be resolved, a
// *StalledError is returned.
func (r *Renderer) Render(input, ctxVars map[string]any, keyPath ...string) (map[string]any, error) {
	out, pending, passes, err := r.resolve(input, ctxVars, keyPath)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return nil, &StalledError{Pending: pending, Passes: passes}
	}
	return out, nil
}

// Resolve runs the same fixed-point loop as Render but treats a stall as a
// normal outcome: it returns the partially rendered copy together with the
// key paths that are still pending.
func (r *Renderer) Resolve(input, ctxVars map[string]any, keyPath ...string) (map[string]any, []string, error) {
	out, pending, _, err := r.resolve(input, ctxVars, keyPath)
	return out, pending, err
}

// passState collects what one pass did.
type passState struct {
	ctxVars  map[string]any
	pending  map[string]struct{}
	done     map[string]struct{} // paths resolved in any pass so far
	progress int
}

func (r *Renderer) resolve(input, ctxVars map[string]any, keyPath []string) (map[string]any, []string, int, error) {
	if ctxVars == nil {
		ctxVars = make(map[string]any)
	}
	work := vars.CopyMap(input)
	done := make(map[string]struct{})

	for pass := 1; ; pass++ {
		st := &passState{
			ctxVars: ctxVars,
			pending: make(map[string]struct{}),
			done:    done,
		}
		if _, err := r.renderMap(work, keyPath, st, true); err != nil {
			return nil, nil, pass, err
		}

		if r.logger != nil {
			r.logger.Debug("Render pass finished.", "pass", pass, "pending", len(st.pending), "progress", st.progress)
		}
		if len(st.pending) == 0 {
			return work, nil, pass, nil
		}
		if st.progress == 0 || pass >= r.maxPasses {
			pending := make([]string, 0, len(st.pending))
			for p := range st.pending {
				pending = append(pending, p)
			}
			sort.Strings(pending)
			return work, pending, pass, nil
		}
	}
}

// renderMap renders one level of the tree in place and reports whether the
// whole subtree is resolved. When write is set, resolved pairs are stored in
// the context variables at their key path.
func (r *Renderer) renderMap(node map[string]any, path []string, st *passState, write bool) (bool, error) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	allDone := true
	for _, key := range keys {
		val := node[key]
		if tmpl.HasTemplate(key) {
			res, err := r.exp.Render(key, st.ctxVars)
			if err != nil {
				return false, fmt.Errorf("rendering key %s: %w", joinPath(path, key), err)
			}
			if !res.Resolved() || tmpl.HasTemplate(res.Text) {
				// Keys are only replaced once fully rendered.
				st.pending[joinPath(path, key)] = struct{}{}
				allDone = false
				continue
			}
			if _, taken := node[res.Text]; taken && res.Text != key {
				return false, fmt.Errorf("rendering key %s: renders to %q, which already exists", joinPath(path, key), joinPath(path, res.Text))
			}
			delete(node, key)
			key = res.Text
			node[key] = val
			st.progress++
		}

		childPath := append(append([]string(nil), path...), key)
		newVal, done, err := r.renderValue(val, childPath, st, write)
		if err != nil {
			return false, err
		}
		node[key] = newVal
		if !done {
			allDone = false
			continue
		}
		if st.markDone(childPath) && write {
			setPath(st.ctxVars, childPath, vars.DeepCopy(newVal))
		}
	}
	return allDone, nil
}

// renderValue renders a single value and reports whether it is resolved.
func (r *Renderer) renderValue(val any, path []string, st *passState, write bool) (any, bool, error) {
	switch v := val.(type) {
	case string:
		if !tmpl.HasTemplate(v) {
			return v, true, nil
		}
		res, err := r.exp.Render(v, st.ctxVars)
		if err != nil {
			return nil, false, fmt.Errorf("rendering %s: %w", strings.Join(path, "."), err)
		}
		if res.Text != v {
			st.progress++
		}
		if !res.Resolved() || tmpl.HasTemplate(res.Text) {
			st.pending[strings.Join(path, ".")] = struct{}{}
			return res.Text, false, nil
		}
		return res.Text, true, nil

	case map[string]any:
		done, err := r.renderMap(v, path, st, write)
		return v, done, err

	case []any:
		allDone := true
		for i, item := range v {
			itemPath := append(append([]string(nil), path...), "["+strconv.Itoa(i)+"]")
			// List elements are written back with the list, not one by one.
			newItem, done, err := r.renderValue(item, itemPath, st, false)
			if err != nil {
				return nil, false, err
			}
			v[i] = newItem
			if done {
				st.markDone(itemPath)
			} else {
				allDone = false
			}
		}
		return v, allDone, nil

	default:
		return val, true, nil
	}
}

// markDone records path as resolved and reports whether that is new.
func (st *passState) markDone(path []string) bool {
	key := strings.Join(path, ".")
	if _, ok := st.done[key]; ok {
		return false
	}
	st.done[key] = struct{}{}
	st.progress++
	return true
}

// setPath stores value in m at path, creating intermediate maps as needed.
func setPath(m map[string]any, path []string, value any) {
	if len(path) == 0 {
		return
	}
	cur := m
	for _, key := range path[:len(path)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[key] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

func joinPath(path []string, key string) string {
	if len(path) == 0 {
		return key
	}
	return strings.Join(path, ".") + "." + key
}
