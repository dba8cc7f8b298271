// Package viewport tracks which wrapped rows and cells are on screen.
package viewport

// Viewport represents the visible portion of the wrapped display. Rows are
// visual rows of the wrap index and cells are columns within a row, so a
// long line that wraps scrolls one row at a time.
type Viewport struct {
	// Position in the display (first visible row and cell)
	topRow   int
	leftCell int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep the cursor this far from edges)
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	// horizontal enables left/right scrolling. When rows are wrapped to
	// the screen width they always fit, so it stays off.
	horizontal bool

	rowCount int
}

// New creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func New(width, height int) *Viewport {
	return &Viewport{
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	return v.height
}

// TopRow returns the first visible row.
func (v *Viewport) TopRow() int {
	return v.topRow
}

// BottomRow returns the last visible row, which is never past the last
// row of the display.
func (v *Viewport) BottomRow() int {
	bottom := v.topRow + v.height - 1
	if v.rowCount > 0 {
		bottom = min(bottom, v.rowCount-1)
	}
	return bottom
}

// LeftCell returns the first visible cell.
func (v *Viewport) LeftCell() int {
	return v.leftCell
}

// RightCell returns the cell just past the last visible one.
func (v *Viewport) RightCell() int {
	return v.leftCell + v.width
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetRowCount sets the number of rows in the display and keeps the top
// row inside it.
func (v *Viewport) SetRowCount(rows int) {
	v.rowCount = max(rows, 0)
	v.topRow = v.clampRow(v.topRow)
}

// SetMargins sets the scroll margins. Negative margins are treated as 0.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.marginTop = max(top, 0)
	v.marginBottom = max(bottom, 0)
	v.marginLeft = max(left, 0)
	v.marginRight = max(right, 0)
}

// SetHorizontalScroll enables or disables horizontal scrolling. Disabling
// it scrolls back to the first cell.
func (v *Viewport) SetHorizontalScroll(enabled bool) {
	v.horizontal = enabled
	if !enabled {
		v.leftCell = 0
	}
}

// VisibleRowRange returns the range of visible rows (inclusive).
func (v *Viewport) VisibleRowRange() (start, end int) {
	return v.topRow, v.BottomRow()
}

// IsRowVisible returns true if the row is on screen.
func (v *Viewport) IsRowVisible(row int) bool {
	return row >= v.topRow && row <= v.BottomRow()
}

// IsCellVisible returns true if the cell is on screen.
func (v *Viewport) IsCellVisible(cell int) bool {
	return cell >= v.leftCell && cell < v.RightCell()
}

// RowToScreen converts a display row to a screen row.
// Returns -1 if the row is not visible.
func (v *Viewport) RowToScreen(row int) int {
	if !v.IsRowVisible(row) {
		return -1
	}
	return row - v.topRow
}

// ScreenToRow converts a screen row to a display row.
func (v *Viewport) ScreenToRow(screenRow int) int {
	return v.topRow + max(screenRow, 0)
}

// CellToScreen converts a display cell to a screen column. The result may
// be off screen.
func (v *Viewport) CellToScreen(cell int) int {
	return cell - v.leftCell
}

// ScreenToCell converts a screen column to a display cell.
func (v *Viewport) ScreenToCell(col int) int {
	return v.leftCell + col
}

// ScrollTo scrolls to show the given row at the top.
func (v *Viewport) ScrollTo(row int) {
	v.topRow = v.clampRow(row)
}

// ScrollBy scrolls by a delta number of rows.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.topRow + delta)
}

// ScrollToReveal scrolls minimally to reveal a position, keeping the
// margins around it where the viewport is large enough.
// Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(row, cell int) bool {
	top, left := v.topRow, v.leftCell

	// Margins larger than half the viewport would fight each other.
	marginTop := min(v.marginTop, (v.height-1)/2)
	marginBottom := min(v.marginBottom, (v.height-1)/2)

	switch {
	case row < v.topRow+marginTop:
		v.topRow = v.clampRow(row - marginTop)
	case row > v.topRow+v.height-1-marginBottom:
		v.topRow = v.clampRow(row - v.height + 1 + marginBottom)
	}

	if v.horizontal {
		marginLeft := min(v.marginLeft, (v.width-1)/2)
		marginRight := min(v.marginRight, (v.width-1)/2)

		screenCol := cell - v.leftCell
		switch {
		case screenCol < marginLeft:
			v.leftCell = max(cell-marginLeft, 0)
		case screenCol > v.width-1-marginRight:
			v.leftCell = cell - v.width + 1 + marginRight
		}
	}

	return top != v.topRow || left != v.leftCell
}

func (v *Viewport) clampRow(row int) int {
	if v.rowCount > 0 {
		row = min(row, v.rowCount-1)
	}
	return max(row, 0)
}
