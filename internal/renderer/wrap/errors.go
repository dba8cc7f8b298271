package wrap

import (
	"errors"
	"fmt"
)

// Errors returned by wrap operations.
var (
	// ErrLineOutOfBounds indicates a line index outside the document.
	ErrLineOutOfBounds = errors.New("line index out of bounds")

	// ErrInconsistent indicates the wrap indexes disagree with each other
	// or with the document.
	ErrInconsistent = errors.New("wrap index inconsistent")
)

// LineIndexError reports a line index that does not exist in the document.
type LineIndexError struct {
	Line      int
	LineCount int
}

// Error implements the error interface.
func (e *LineIndexError) Error() string {
	return fmt.Sprintf("line index %d is out of bounds: the document contains %d lines", e.Line, e.LineCount)
}

// Unwrap returns ErrLineOutOfBounds.
func (e *LineIndexError) Unwrap() error {
	return ErrLineOutOfBounds
}
