package document

import "fmt"

// Location is a position in the document: a line index and a rune column
// within that line. Both are 0-indexed.
type Location struct {
	Line   int
	Column int
}

// Loc is shorthand for constructing a Location.
func Loc(line, column int) Location {
	return Location{Line: line, Column: column}
}

// String returns a human-readable representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("(%d:%d)", l.Line, l.Column)
}

// Compare returns -1 if l < other, 0 if l == other, 1 if l > other.
func (l Location) Compare(other Location) int {
	switch {
	case l.Line < other.Line:
		return -1
	case l.Line > other.Line:
		return 1
	case l.Column < other.Column:
		return -1
	case l.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if l comes before other.
func (l Location) Before(other Location) bool {
	return l.Compare(other) < 0
}

// Edit describes a replacement that has been applied to a document, in
// the coordinates the wrap index needs to update itself. Start and OldEnd
// are pre-edit locations; NewEnd is the end of the inserted text after the
// edit.
type Edit struct {
	Start  Location
	OldEnd Location
	NewEnd Location
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("Edit%s-%s=>%s", e.Start, e.OldEnd, e.NewEnd)
}
