package wrap

import (
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/dshills/softwrap/internal/engine/document"
	"github.com/dshills/softwrap/internal/renderer/layout"
)

// OffsetToLocation maps a position in the wrapped display to a document
// location. Positions outside the display are clamped: negative values
// to 0, rows below the document to the last row and cells past the end
// of a row to the end of that row.
//
// X is a cell offset even when wrapping is off, so on lines with tabs or
// wide runes it is not the same as clamping X to a column.
func (w *WrappedDocument) OffsetToLocation(offset Offset, tabWidth int) document.Location {
	x := max(offset.X, 0)
	y := max(offset.Y, 0)
	if len(w.offsetToLineInfo) == 0 {
		return document.Location{}
	}

	if w.width == 0 {
		// Unwrapped: every line is a single row.
		line := min(y, len(w.wrapOffsets)-1)
		return document.Location{Line: line, Column: w.TargetDocumentColumn(line, x, 0, tabWidth)}
	}

	info := w.offsetToLineInfo[min(y, len(w.offsetToLineInfo)-1)]
	return document.Location{
		Line:   info.Line,
		Column: w.TargetDocumentColumn(info.Line, x, info.Section, tabWidth),
	}
}

// LocationToOffset maps a document location to its position in the
// wrapped display. The line is clamped into the document and the column
// into the line. A column that sits exactly on a wrap offset belongs to
// the start of the following section.
func (w *WrappedDocument) LocationToOffset(loc document.Location, tabWidth int) Offset {
	if len(w.lineIndexToOffsets) == 0 {
		return Offset{}
	}
	line := clamp(loc.Line, 0, len(w.lineIndexToOffsets)-1)
	runes := []rune(w.doc.Line(line))
	column := clamp(loc.Column, 0, len(runes))

	wrapOffsets := w.wrapOffsets[line]
	section := sort.Search(len(wrapOffsets), func(i int) bool {
		return wrapOffsets[i] > column
	})
	sectionStart := 0
	if section > 0 {
		sectionStart = wrapOffsets[section-1]
	}

	before := string(runes[sectionStart:column])
	return Offset{
		X: layout.CellLen(layout.ExpandTabsInline(before, tabWidth)),
		Y: w.lineIndexToOffsets[line][section],
	}
}

// TargetDocumentColumn returns the column of line that lies under cell x
// of the given section. Negative sections count from the end, so -1 is
// the last section. Except on the last section, the result never passes
// the final character of the section; on the last section it may rest one
// past the end of the line.
func (w *WrappedDocument) TargetDocumentColumn(line, x, section, tabWidth int) int {
	if len(w.wrapOffsets) == 0 {
		return 0
	}
	line = clamp(line, 0, len(w.wrapOffsets)-1)
	sections := w.Sections(line)
	if section < 0 {
		section += len(sections)
	}
	section = clamp(section, 0, len(sections)-1)

	target := sections[section]
	sectionStart := 0
	for _, s := range sections[:section] {
		sectionStart += utf8.RuneCountInString(s)
	}

	column := sectionStart + layout.CellWidthToColumnIndex(target, x, tabWidth)
	if section != len(sections)-1 {
		column = min(column, sectionStart+utf8.RuneCountInString(target)-1)
	}
	return column
}

// Sections returns line split at its wrap offsets. An unwrapped line has a
// single section. Lines outside the document have none.
func (w *WrappedDocument) Sections(line int) []string {
	if line < 0 || line >= len(w.wrapOffsets) {
		return nil
	}
	runes := []rune(w.doc.Line(line))
	offsets := w.wrapOffsets[line]
	sections := make([]string, 0, len(offsets)+1)
	prev := 0
	for _, offset := range offsets {
		offset = min(offset, len(runes))
		sections = append(sections, string(runes[prev:offset]))
		prev = offset
	}
	return append(sections, string(runes[prev:]))
}

// Offsets returns the wrap offsets of line.
func (w *WrappedDocument) Offsets(line int) ([]int, error) {
	if line < 0 || line >= len(w.wrapOffsets) {
		return nil, &LineIndexError{Line: line, LineCount: len(w.wrapOffsets)}
	}
	return slices.Clone(w.wrapOffsets[line]), nil
}

// LineInfo returns the line and section shown on visual row y.
func (w *WrappedDocument) LineInfo(y int) (LineInfo, bool) {
	if y < 0 || y >= len(w.offsetToLineInfo) {
		return LineInfo{}, false
	}
	return w.offsetToLineInfo[y], true
}

// RowsForLine returns the visual rows occupied by line, in section order.
func (w *WrappedDocument) RowsForLine(line int) []int {
	if line < 0 || line >= len(w.lineIndexToOffsets) {
		return nil
	}
	return slices.Clone(w.lineIndexToOffsets[line])
}
