// Package render resolves every template inside a nested key/value tree.
//
// Rendering runs in passes. Each pass walks the tree in sorted key order and
// expands whatever can be expanded against the current variables. Every
// key/value pair that becomes fully resolved is written back into the
// variables at its key path, so later keys in the same pass, and every key in
// later passes, can reference it. Passes repeat until nothing is pending, or
// until a pass makes no progress at all, which is reported as a stall.
package render
