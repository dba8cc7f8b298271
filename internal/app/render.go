package app

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/softwrap/internal/renderer/backend"
	"github.com/dshills/softwrap/internal/renderer/layout"
)

// Render draws the visible rows, the status line and the cursor.
func (v *Viewer) Render() {
	timer := StartTimer()
	v.backend.Clear()

	v.view.SetRowCount(v.wrapped.Height())
	textHeight := v.textHeight()
	first, last := v.view.VisibleRowRange()
	y := 0
	for row := first; row <= last && y < textHeight; row++ {
		info, _ := v.wrapped.LineInfo(row)
		sections := v.wrapped.Sections(info.Line)
		v.drawRow(y, v.tabs.ExpandTabs(sections[info.Section]))
		y++
	}
	for ; y < textHeight; y++ {
		v.drawText(0, y, "~", backend.StyleDim)
	}

	if v.height > 1 {
		v.drawStatus(v.height - 1)
	}

	offset := v.wrapped.LocationToOffset(v.cursor, v.tabs.TabWidth())
	if textHeight > 0 && v.view.IsRowVisible(offset.Y) && v.view.IsCellVisible(offset.X) {
		v.backend.ShowCursor(v.view.CellToScreen(offset.X), v.view.RowToScreen(offset.Y))
	} else {
		v.backend.HideCursor()
	}

	v.backend.Show()
	v.metrics.RecordRender(timer.Elapsed())
}

// drawRow paints one wrapped section with tabs already expanded. Runes are
// grouped into grapheme clusters so combining marks share the cell of the
// rune they modify. Widths come from layout so the picture agrees with
// the wrap index.
func (v *Viewer) drawRow(y int, text string) {
	x := v.view.CellToScreen(0)
	state := -1
	for text != "" && x < v.width {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)

		width := layout.CellLen(cluster)
		if width == 0 {
			continue
		}
		if x >= 0 && x+width <= v.width {
			runes := []rune(cluster)
			v.backend.SetContent(x, y, runes[0], runes[1:], backend.StyleNormal)
		}
		x += width
	}
}

// drawText paints s from cell x and returns the cell after it.
func (v *Viewer) drawText(x, y int, s string, style backend.Style) int {
	for _, r := range s {
		width := layout.RuneWidth(r)
		if width == 0 {
			continue
		}
		if x+width > v.width {
			break
		}
		v.backend.SetContent(x, y, r, nil, style)
		x += width
	}
	return x
}

func (v *Viewer) drawStatus(y int) {
	v.status.SetFilename(v.path)
	v.status.SetModified(v.modified)
	v.status.SetPosition(v.cursor.Line, v.cursor.Column)
	v.status.SetRows(v.wrapped.Height())
	v.status.SetWrap(v.wrapped.Width(), v.wrapped.Fold())
	v.status.Render(v.backend, y, v.width)
}
