package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Document is read access to ordered lines of text. Lines never contain
// line terminators.
type Document interface {
	// Lines returns every line of the document.
	Lines() []string
	// LineCount returns the number of lines. It is at least 1.
	LineCount() int
	// Line returns the line at index i.
	Line(i int) string
}

// LineEnding specifies the line ending style used when joining lines.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Buffer is a Document backed by a slice of lines. It is not safe for
// concurrent use.
type Buffer struct {
	lines      []string
	lineEnding LineEnding
}

// NewBuffer creates a buffer holding text. The line ending style is
// detected from the first line break found.
func NewBuffer(text string) *Buffer {
	le := LineEndingLF
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		le = LineEndingCRLF
	}
	return &Buffer{lines: splitLines(text), lineEnding: le}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Lines returns the lines of the buffer. The slice must not be modified.
func (b *Buffer) Lines() []string {
	return b.lines
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the line at index i, or "" if i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the rune length of line i.
func (b *Buffer) LineLen(i int) int {
	return utf8.RuneCountInString(b.Line(i))
}

// LineEnding returns the detected line ending style.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// End returns the location just past the last character.
func (b *Buffer) End() Location {
	last := len(b.lines) - 1
	return Location{Line: last, Column: b.LineLen(last)}
}

// Validate returns an error if loc does not address a position in the buffer.
func (b *Buffer) Validate(loc Location) error {
	if loc.Line < 0 || loc.Line >= len(b.lines) {
		return fmt.Errorf("%w: line %d of %d", ErrLocationOutOfRange, loc.Line, len(b.lines))
	}
	if loc.Column < 0 || loc.Column > b.LineLen(loc.Line) {
		return fmt.Errorf("%w: column %d of line %d (length %d)",
			ErrLocationOutOfRange, loc.Column, loc.Line, b.LineLen(loc.Line))
	}
	return nil
}

// Replace replaces the text between start and end with text and returns
// the edit in the form expected by an incremental re-wrap. The endpoints
// may be given in either order.
func (b *Buffer) Replace(start, end Location, text string) (Edit, error) {
	if err := b.Validate(start); err != nil {
		return Edit{}, err
	}
	if err := b.Validate(end); err != nil {
		return Edit{}, err
	}
	if end.Before(start) {
		start, end = end, start
	}

	before := []rune(b.lines[start.Line])[:start.Column]
	after := []rune(b.lines[end.Line])[end.Column:]
	inserted := splitLines(text)

	replacement := make([]string, len(inserted))
	copy(replacement, inserted)
	replacement[0] = string(before) + replacement[0]
	last := len(replacement) - 1
	replacement[last] += string(after)

	lines := make([]string, 0, len(b.lines)-(end.Line-start.Line)+last)
	lines = append(lines, b.lines[:start.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[end.Line+1:]...)
	b.lines = lines

	newEnd := Location{Line: start.Line + last, Column: utf8.RuneCountInString(inserted[last])}
	if last == 0 {
		newEnd.Column += start.Column
	}
	return Edit{Start: start, OldEnd: end, NewEnd: newEnd}, nil
}

// Insert inserts text at loc.
func (b *Buffer) Insert(loc Location, text string) (Edit, error) {
	return b.Replace(loc, loc, text)
}

// Delete removes the text between start and end.
func (b *Buffer) Delete(start, end Location) (Edit, error) {
	return b.Replace(start, end, "")
}
