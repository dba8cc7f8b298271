package wrap

import (
	"fmt"
	"unicode/utf8"
)

// Check verifies that the three indexes agree with each other and with the
// document. It returns an error wrapping ErrInconsistent describing the
// first disagreement found.
func (w *WrappedDocument) Check() error {
	lineCount := w.doc.LineCount()
	if len(w.wrapOffsets) != lineCount || len(w.lineIndexToOffsets) != lineCount {
		return fmt.Errorf("%w: document has %d lines, offsets cover %d, rows cover %d",
			ErrInconsistent, lineCount, len(w.wrapOffsets), len(w.lineIndexToOffsets))
	}

	row := 0
	for line, offsets := range w.wrapOffsets {
		length := utf8.RuneCountInString(w.doc.Line(line))
		prev := 0
		for _, offset := range offsets {
			if offset <= prev || offset > length {
				return fmt.Errorf("%w: line %d has invalid wrap offsets %v (length %d)",
					ErrInconsistent, line, offsets, length)
			}
			prev = offset
		}

		rows := w.lineIndexToOffsets[line]
		if len(rows) != len(offsets)+1 {
			return fmt.Errorf("%w: line %d has %d sections but %d rows",
				ErrInconsistent, line, len(offsets)+1, len(rows))
		}
		for section, y := range rows {
			if y != row {
				return fmt.Errorf("%w: line %d section %d is on row %d, expected %d",
					ErrInconsistent, line, section, y, row)
			}
			if y >= len(w.offsetToLineInfo) {
				return fmt.Errorf("%w: row %d of line %d is past the last row %d",
					ErrInconsistent, y, line, len(w.offsetToLineInfo)-1)
			}
			if info := w.offsetToLineInfo[y]; info != (LineInfo{Line: line, Section: section}) {
				return fmt.Errorf("%w: row %d shows %+v, expected line %d section %d",
					ErrInconsistent, y, info, line, section)
			}
			row++
		}
	}

	if row != len(w.offsetToLineInfo) {
		return fmt.Errorf("%w: %d rows indexed by line but %d rows exist",
			ErrInconsistent, row, len(w.offsetToLineInfo))
	}
	if h := w.Height(); h != row {
		return fmt.Errorf("%w: height %d does not match %d rows", ErrInconsistent, h, row)
	}
	return nil
}
