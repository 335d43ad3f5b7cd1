// Package jsonl turns the text of a JSON-lines object file into individual
// object fragments, and finishes rendered objects through a chain of
// post-processors before they are encoded as one JSON object per line.
//
// Object files are lenient: objects may span several lines, lines may carry
// "//" comments, trailing commas are allowed and "{{ }}" templates may
// appear both inside and outside string values.
package jsonl
