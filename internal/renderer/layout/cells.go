package layout

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// widthCondition measures East Asian ambiguous runes as narrow, matching
// how most terminals render them.
var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// RuneWidth returns the number of terminal cells a rune occupies.
// Control characters (including tab) and combining marks are 0 wide,
// wide and fullwidth characters are 2 wide, everything else is 1.
func RuneWidth(r rune) int {
	if r < 0x20 || r == 0x7F {
		return 0
	}
	return widthCondition.RuneWidth(r)
}

// CellLen returns the cell width of s. Tabs contribute nothing; use
// ExpandTabsInline first when tab stops matter.
func CellLen(s string) int {
	width := 0
	for _, r := range s {
		width += RuneWidth(r)
	}
	return width
}

// CellWidthToColumnIndex returns the column (rune index) reached by
// walking s until the cumulative cell width, with tabs expanded to
// tabWidth stops, would exceed cellWidth. If cellWidth lies beyond the
// end of s, the rune count of s is returned.
//
// Zero width runes add nothing to the walk, so the result always lands
// after them. For "e\u0301x" a cell width of 1 gives column 2, never 1.
func CellWidthToColumnIndex(s string, cellWidth, tabWidth int) int {
	column := 0
	offset := 0
	for _, section := range TabWidths(s, tabWidth) {
		for _, r := range section.Text {
			offset += RuneWidth(r)
			if offset > cellWidth {
				return column
			}
			column++
		}
		if section.Width == 0 {
			continue
		}
		// The tab itself.
		offset += section.Width
		if offset > cellWidth {
			return column
		}
		column++
	}
	return utf8.RuneCountInString(s)
}

// ChopCells splits s into pieces that are each at most width cells wide.
// Wide runes are never split across pieces; a rune wider than width forms
// a piece of its own. Zero width runes stay with the rune before them.
func ChopCells(s string, width int) []string {
	return chopRunes([]rune(s), nil, width)
}

// chopRunes is ChopCells over runes with an optional per-rune width
// override (used for tabs whose width depends on their position).
func chopRunes(runes []rune, widths []int, width int) []string {
	if len(runes) == 0 {
		return nil
	}
	var pieces []string
	start := 0
	used := 0
	for i, r := range runes {
		w := RuneWidth(r)
		if widths != nil {
			w = widths[i]
		}
		if w > 0 && used+w > width && i > start {
			pieces = append(pieces, string(runes[start:i]))
			start = i
			used = 0
		}
		used += w
	}
	return append(pieces, string(runes[start:]))
}
