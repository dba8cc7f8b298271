// Package wrap maintains a soft-wrapped view of a document.
//
// A WrappedDocument keeps three derived indexes in step with each other:
// the wrap offsets of every document line, the document line and section
// shown on every visual row, and the visual rows occupied by every document
// line. They are built in full by Wrap and patched by WrapRange after an
// edit, so a keystroke only re-wraps the lines it touched.
//
// Visual coordinates are (x, y): x is a cell offset inside a visual row
// and y is the visual row index from the top of the document. Document
// coordinates are document.Location values.
//
// A WrappedDocument is not safe for concurrent use. Edits and queries must
// be serialized by the caller.
package wrap
