package layout

import "strings"

// TabSection is a run of text that ends either at a tab character or at
// the end of the line, together with the cell width of that tab.
type TabSection struct {
	Text  string // Text before the tab (the tab itself is not included)
	Width int    // Cells the following tab expands to; 0 for the final section
}

// TabWidths splits s at tab characters and assigns each tab the distance
// to the next tab stop. Positions are measured in cells from the start of
// s, so the width of a tab depends on everything before it.
func TabWidths(s string, tabSize int) []TabSection {
	if tabSize < 1 {
		tabSize = 1
	}
	parts := strings.Split(s, "\t")
	sections := make([]TabSection, 0, len(parts))
	position := 0
	for i, part := range parts {
		position += CellLen(part)
		if i == len(parts)-1 {
			sections = append(sections, TabSection{Text: part})
			break
		}
		spaces := tabSize - position%tabSize
		position += spaces
		sections = append(sections, TabSection{Text: part, Width: spaces})
	}
	return sections
}

// ExpandTabsInline replaces each tab in s with the number of spaces needed
// to reach the next tab stop. A tabSize below 1 is treated as 1.
func ExpandTabsInline(s string, tabSize int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	tabSize = max(tabSize, 1)
	var b strings.Builder
	b.Grow(len(s) + tabSize)
	for _, section := range TabWidths(s, tabSize) {
		b.WriteString(section.Text)
		b.WriteString(strings.Repeat(" ", section.Width))
	}
	return b.String()
}

// tabWidthTable returns, for every column of runes (plus one past the end),
// the total width of tabs that appear before that column.
func tabWidthTable(runes []rune, tabSize int) []int {
	if tabSize < 1 {
		tabSize = 1
	}
	table := make([]int, len(runes)+1)
	position := 0
	total := 0
	for i, r := range runes {
		table[i] = total
		if r == '\t' {
			spaces := tabSize - position%tabSize
			position += spaces
			total += spaces
			continue
		}
		position += RuneWidth(r)
	}
	table[len(runes)] = total
	return table
}

// TabExpander holds the tab size used to expand rows for display.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
// Widths below 1 are treated as 1.
func NewTabExpander(tabWidth int) *TabExpander {
	return &TabExpander{tabWidth: max(tabWidth, 1)}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// SetTabWidth sets the tab width. Widths below 1 are treated as 1.
func (t *TabExpander) SetTabWidth(width int) {
	t.tabWidth = max(width, 1)
}

// ExpandTabs returns s with tabs replaced by spaces.
func (t *TabExpander) ExpandTabs(s string) string {
	return ExpandTabsInline(s, t.tabWidth)
}
