// Package io reads batch files of lines and writes solved results.
//
// # Batch Format
//
// A batch file lists independent lines. TOML uses one [[line]] table per
// entry:
//
//	[[line]]
//	name = "row 1"
//	size = 10
//	blocks = [2, 7]
//
//	[[line]]
//	name = "row 2"
//	size = 5
//	blocks = [1]
//	known = "??X??"
//
// JSON uses the same field names, either under a "lines" key or as a bare
// array:
//
//	{"lines": [{"name": "row 1", "size": 10, "blocks": [2, 7]}]}
//	[{"size": 10, "blocks": [2, 7]}]
//
// Use [ImportBatch] to read a file by path (format chosen by extension) or
// [ReadBatch] to read from any io.Reader.
//
// # Results
//
// [WriteResults] encodes solved lines as indented JSON. Each record carries
// the solver result plus a "glyphs" string rendered with the caller's glyph
// set, so downstream tools need not know the state names.
package io
