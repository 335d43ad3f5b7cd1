// Package generator renders the components of a device into device-ready
// files.
//
// For every device an object map is built first: each object of each JSONL
// component becomes addressable as p{page}b{id}. Every component is then
// rendered against its own context, which layers the variable scopes of the
// component with the object map, and the rendered objects are finished by
// the post-processor chain.
//
// A Processor is not safe for concurrent use. Create one per goroutine.
package generator
