package wrap

import (
	"slices"

	"github.com/dshills/softwrap/internal/engine/document"
	"github.com/dshills/softwrap/internal/renderer/layout"
)

// DefaultTabSize is the tab stop used by the line breaker unless
// WithTabSize is given.
const DefaultTabSize = 4

// Offset is a position in the wrapped display: X is the cell offset within
// a visual row and Y is the visual row index.
type Offset struct {
	X int
	Y int
}

// LineInfo identifies what a visual row shows: a document line and the
// 0-based section (wrapped segment) of that line.
type LineInfo struct {
	Line    int
	Section int
}

// Logger receives debug output about re-wrapping.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Option configures a WrappedDocument.
type Option func(*WrappedDocument)

// WithTabSize sets the tab stop the line breaker measures tabs with.
func WithTabSize(size int) Option {
	return func(w *WrappedDocument) {
		if size < 1 {
			size = 1
		}
		w.tabSize = size
	}
}

// WithFold controls whether words wider than the wrap width are folded
// across rows (the default) or left to overflow their own row.
func WithFold(fold bool) Option {
	return func(w *WrappedDocument) {
		w.fold = fold
	}
}

// WithLogger sets the logger used for re-wrap diagnostics.
func WithLogger(l Logger) Option {
	return func(w *WrappedDocument) {
		if l != nil {
			w.logger = l
		}
	}
}

// WrappedDocument is a soft-wrapped view of a document.
type WrappedDocument struct {
	doc     document.Document
	width   int
	tabSize int
	fold    bool
	logger  Logger

	// wrapOffsets maps a line index to the columns where the line breaks.
	wrapOffsets [][]int

	// offsetToLineInfo maps a visual row to the line and section it shows.
	offsetToLineInfo []LineInfo

	// lineIndexToOffsets maps a line index to the visual rows of its sections.
	lineIndexToOffsets [][]int
}

// New wraps doc at width. A width of 0 disables wrapping.
func New(doc document.Document, width int, opts ...Option) *WrappedDocument {
	w := &WrappedDocument{
		doc:     doc,
		tabSize: DefaultTabSize,
		fold:    true,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Wrap(width)
	return w
}

// Document returns the wrapped document.
func (w *WrappedDocument) Document() document.Document {
	return w.doc
}

// Width returns the width the document was last wrapped at.
func (w *WrappedDocument) Width() int {
	return w.width
}

// TabSize returns the tab stop used by the line breaker.
func (w *WrappedDocument) TabSize() int {
	return w.tabSize
}

// Fold reports whether long words are folded.
func (w *WrappedDocument) Fold() bool {
	return w.fold
}

// SetTabSize changes the line breaker's tab stop and re-wraps everything.
func (w *WrappedDocument) SetTabSize(size int) {
	WithTabSize(size)(w)
	w.Wrap(w.width)
}

// SetFold changes the fold policy and re-wraps everything.
func (w *WrappedDocument) SetFold(fold bool) {
	w.fold = fold
	w.Wrap(w.width)
}

func (w *WrappedDocument) divide(line string) []int {
	if w.width == 0 {
		return nil
	}
	return layout.DivideLine(line, w.width, w.tabSize, w.fold)
}

// Wrap rebuilds every index from scratch at width. Negative widths are
// treated as 0 (no wrapping).
func (w *WrappedDocument) Wrap(width int) {
	w.width = max(width, 0)

	lineCount := w.doc.LineCount()
	wrapOffsets := make([][]int, 0, lineCount)
	offsetToLineInfo := make([]LineInfo, 0, lineCount)
	lineIndexToOffsets := make([][]int, 0, lineCount)

	y := 0
	for i := 0; i < lineCount; i++ {
		offsets := w.divide(w.doc.Line(i))
		wrapOffsets = append(wrapOffsets, offsets)
		rows := make([]int, 0, len(offsets)+1)
		for section := 0; section <= len(offsets); section++ {
			offsetToLineInfo = append(offsetToLineInfo, LineInfo{Line: i, Section: section})
			rows = append(rows, y)
			y++
		}
		lineIndexToOffsets = append(lineIndexToOffsets, rows)
	}

	w.wrapOffsets = wrapOffsets
	w.offsetToLineInfo = offsetToLineInfo
	w.lineIndexToOffsets = lineIndexToOffsets
	w.logger.Debug("wrapped %d lines at width %d into %d rows", lineCount, w.width, y)
}

// WrapRange re-wraps the lines touched by an edit. It must be called after
// the edit has been applied to the document. start and oldEnd are the
// pre-edit bounds of the replaced text and newEnd is the post-edit end of
// the inserted text. Locations outside the document are clamped.
func (w *WrappedDocument) WrapRange(start, oldEnd, newEnd document.Location) {
	oldMax := len(w.lineIndexToOffsets) - 1
	newMax := w.doc.LineCount() - 1
	if oldMax < 0 || newMax < 0 {
		w.Wrap(w.width)
		return
	}

	startLine := clamp(start.Line, 0, min(oldMax, newMax))
	oldEndLine := clamp(oldEnd.Line, 0, oldMax)
	newEndLine := clamp(newEnd.Line, 0, newMax)

	top, oldBottom := min(startLine, oldEndLine), max(startLine, oldEndLine)
	newBottom := max(startLine, newEndLine)

	topY := w.lineIndexToOffsets[top][0]
	oldBottomRows := w.lineIndexToOffsets[oldBottom]
	oldBottomY := oldBottomRows[len(oldBottomRows)-1]

	newLineCount := newBottom - top + 1
	newWrapOffsets := make([][]int, 0, newLineCount)
	newLineIndexToOffsets := make([][]int, 0, newLineCount)
	var newOffsetToLineInfo []LineInfo

	y := topY
	for i := top; i <= newBottom; i++ {
		offsets := w.divide(w.doc.Line(i))
		newWrapOffsets = append(newWrapOffsets, offsets)
		rows := make([]int, 0, len(offsets)+1)
		for section := 0; section <= len(offsets); section++ {
			newOffsetToLineInfo = append(newOffsetToLineInfo, LineInfo{Line: i, Section: section})
			rows = append(rows, y)
			y++
		}
		newLineIndexToOffsets = append(newLineIndexToOffsets, rows)
	}

	w.offsetToLineInfo = slices.Replace(w.offsetToLineInfo, topY, oldBottomY+1, newOffsetToLineInfo...)
	w.lineIndexToOffsets = slices.Replace(w.lineIndexToOffsets, top, oldBottom+1, newLineIndexToOffsets...)
	w.wrapOffsets = slices.Replace(w.wrapOffsets, top, oldBottom+1, newWrapOffsets...)

	oldHeight := oldBottomY - topY + 1
	newHeight := len(newOffsetToLineInfo)
	offsetShift := newHeight - oldHeight
	lineShift := newBottom - oldBottom

	if lineShift != 0 {
		for row := topY + newHeight; row < len(w.offsetToLineInfo); row++ {
			w.offsetToLineInfo[row].Line += lineShift
		}
	}
	if offsetShift != 0 {
		for line := top + newLineCount; line < len(w.lineIndexToOffsets); line++ {
			for i := range w.lineIndexToOffsets[line] {
				w.lineIndexToOffsets[line][i] += offsetShift
			}
		}
	}

	w.logger.Debug("rewrapped lines %d-%d (was %d-%d): row shift %d, line shift %d",
		top, newBottom, top, oldBottom, offsetShift, lineShift)
}

// Lines returns the wrapped document: for every document line, the
// sections it is split into.
func (w *WrappedDocument) Lines() [][]string {
	lines := make([][]string, len(w.wrapOffsets))
	for i := range w.wrapOffsets {
		lines[i] = w.Sections(i)
	}
	return lines
}

// Height returns the number of visual rows in the wrapped document.
func (w *WrappedDocument) Height() int {
	height := 0
	for _, offsets := range w.wrapOffsets {
		height += len(offsets) + 1
	}
	return height
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
