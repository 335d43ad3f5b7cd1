package generator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vk/haspcfg/internal/ctxlog"
	"github.com/vk/haspcfg/internal/device"
	"github.com/vk/haspcfg/internal/jsonl"
	"github.com/vk/haspcfg/internal/tmpl"
	"github.com/vk/haspcfg/internal/vars"
)

// scratchKey holds an object's own fields while its key is worked out.
// No template can name it.
const scratchKey = "#object"

// ObjectKey returns the object map key for page and id.
func ObjectKey(page, id string) string {
	return "p" + page + "b" + id
}

// object is one JSONL object while the object map is being built.
type object struct {
	comp *device.Component
	raw  map[string]any
	prev *object // previous object in the same file
	page string  // resolved page, empty until known
	done bool
}

// ObjectMap builds the object references of dev. Every object of every JSONL
// component is pre-rendered as far as its own component context allows and
// stored under p{page}b{id}. Objects whose page or id refer to other objects
// are retried until no more objects can be keyed. Objects without a page
// inherit the page of the previous object in the same file; objects without
// an id are not addressable.
func (p *Processor) ObjectMap(ctx context.Context, dev *device.Device) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	var objects []*object
	base := make(map[*device.Component]map[string]any)
	for _, comp := range dev.JSONL {
		compVars, err := p.baseVars(dev, comp)
		if err != nil {
			return nil, err
		}
		base[comp] = compVars

		var prev *object
		for fragment := range jsonl.SplitObjects(comp.Content) {
			raw, err := jsonl.ParseLoose(fragment)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", comp.Path, err)
			}
			obj := &object{comp: comp, raw: raw, prev: prev}
			objects = append(objects, obj)
			prev = obj
		}
	}

	refs := make(map[string]any)
	remaining := objects
	for pass := 1; len(remaining) > 0; pass++ {
		var next []*object
		progress := false
		for _, obj := range remaining {
			page := obj.page
			if err := p.keyObject(obj, base[obj.comp], refs); err != nil {
				return nil, err
			}
			// A newly known page counts too: the next object may inherit it.
			if obj.done || obj.page != page {
				progress = true
			}
			if !obj.done {
				next = append(next, obj)
			}
		}
		logger.Debug("Object map pass finished.", "device", dev.Name, "pass", pass, "keyed", len(refs), "remaining", len(next))
		remaining = next
		if !progress {
			break
		}
	}
	for _, obj := range remaining {
		logger.Debug("Object is not addressable.", "device", dev.Name, "component", obj.comp.Name, "page", obj.raw["page"], "id", obj.raw["id"])
	}
	return refs, nil
}

// keyObject tries to resolve the page and id of obj and, once both are
// known, adds the pre-rendered object to refs.
func (p *Processor) keyObject(obj *object, compVars, refs map[string]any) error {
	scope, err := vars.Merge(compVars, refs)
	if err != nil {
		return fmt.Errorf("%s: %w", obj.comp.Path, err)
	}
	rendered, _, err := p.renderer.Resolve(obj.raw, scope, scratchKey)
	if err != nil {
		return fmt.Errorf("%s: %w", obj.comp.Path, err)
	}

	if pageVal, ok := rendered["page"]; ok {
		page, ok := keyPart(pageVal)
		if !ok {
			return nil
		}
		obj.page = page
	} else if obj.prev != nil && obj.prev.page != "" {
		obj.page = obj.prev.page
	} else {
		return nil
	}

	idVal, ok := rendered["id"]
	if !ok {
		obj.done = true
		return nil
	}
	id, ok := keyPart(idVal)
	if !ok {
		return nil
	}
	if _, ok := rendered["page"]; !ok {
		// Make the inherited page visible to references.
		rendered["page"], _ = strconv.Atoi(obj.page)
	}
	refs[ObjectKey(obj.page, id)] = rendered
	obj.done = true
	return nil
}

// keyPart formats a page or id value as an integer string.
func keyPart(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t), true
	case float64:
		if t != math.Trunc(t) {
			return "", false
		}
		return strconv.Itoa(int(t)), true
	case string:
		if tmpl.HasTemplate(t) {
			return "", false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || f != math.Trunc(f) {
			return "", false
		}
		return strconv.Itoa(int(f)), true
	default:
		return "", false
	}
}
