// Package statusline provides the status line shown below the document.
package statusline

import (
	"path/filepath"
	"strconv"

	"github.com/dshills/softwrap/internal/renderer/backend"
	"github.com/dshills/softwrap/internal/renderer/layout"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// StatusLine renders the bottom status line: file, cursor position, row
// count, wrap mode and the last message.
type StatusLine struct {
	// Display state
	filename string // Current file path (empty for scratch)
	modified bool   // Buffer has unsaved changes
	line     int    // Current line (0-indexed, shown 1-indexed)
	col      int    // Current column (0-indexed, shown 1-indexed)
	rows     int    // Total visual rows

	wrapWidth int  // 0 when wrapping is off
	fold      bool // Long words are folded

	// Message display
	message     string
	messageType MessageType
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{fold: true}
}

// SetFilename sets the file shown in the status line.
func (s *StatusLine) SetFilename(path string) {
	s.filename = path
}

// SetModified sets the unsaved-changes marker.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetPosition sets the cursor position (0-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetRows sets the number of visual rows in the document.
func (s *StatusLine) SetRows(rows int) {
	s.rows = rows
}

// SetWrap sets the wrap mode. A width of 0 means wrapping is off.
func (s *StatusLine) SetWrap(width int, fold bool) {
	s.wrapWidth = width
	s.fold = fold
}

// SetMessage shows msg until it is cleared or replaced.
func (s *StatusLine) SetMessage(msg string, typ MessageType) {
	s.message = msg
	s.messageType = typ
	if msg == "" {
		s.messageType = MessageNone
	}
}

// ClearMessage removes the current message.
func (s *StatusLine) ClearMessage() {
	s.SetMessage("", MessageNone)
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Info returns the status text without the message.
func (s *StatusLine) Info() string {
	name := "[scratch]"
	if s.filename != "" {
		name = filepath.Base(s.filename)
	}
	if s.modified {
		name += " +"
	}

	wrapDesc := "off"
	if s.wrapWidth > 0 {
		wrapDesc = strconv.Itoa(s.wrapWidth)
		if !s.fold {
			wrapDesc += " nofold"
		}
	}

	return " " + name +
		"  " + strconv.Itoa(s.line+1) + ":" + strconv.Itoa(s.col+1) +
		"  rows " + strconv.Itoa(s.rows) +
		"  wrap " + wrapDesc
}

// Text returns the full status line text.
func (s *StatusLine) Text() string {
	if s.message == "" {
		return s.Info()
	}
	return s.Info() + "  " + s.message
}

// Render draws the status line to the backend at the given row, padded
// to width. Error messages are drawn bold.
func (s *StatusLine) Render(b backend.Backend, row, width int) {
	x := drawText(b, 0, row, width, s.Info(), backend.StyleReverse)
	if s.message != "" {
		msgStyle := backend.StyleReverse
		if s.messageType == MessageError {
			msgStyle |= backend.StyleBold
		}
		x = drawText(b, x, row, width, "  ", backend.StyleReverse)
		x = drawText(b, x, row, width, s.message, msgStyle)
	}
	for ; x < width; x++ {
		b.SetContent(x, row, ' ', nil, backend.StyleReverse)
	}
}

// drawText paints text from cell x and returns the cell after it.
func drawText(b backend.Backend, x, y, width int, text string, style backend.Style) int {
	for _, r := range text {
		w := layout.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		b.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
