package document

import "errors"

// Errors returned by document operations.
var (
	// ErrLocationOutOfRange indicates a location outside the document.
	ErrLocationOutOfRange = errors.New("location out of range")
)
