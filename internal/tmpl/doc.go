// Package tmpl expands "{{ expr }}" regions embedded in arbitrary text.
//
// Expressions use a restricted subset of HCL native syntax: literals, dotted
// and indexed variable access, arithmetic and parentheses. Regions may nest;
// inner regions are rendered first and their output becomes part of the
// enclosing expression:
//
//	{{ {{ prefix }}{{ n }} }}   // evaluates the expression "p1" if prefix="p", n=1
//
// References that cannot be resolved against the supplied variables are not
// errors. They are reported in Result.Unresolved and the region is left
// verbatim in the output, so callers can retry once more variables exist.
package tmpl
