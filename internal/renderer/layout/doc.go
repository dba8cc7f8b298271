// Package layout measures and breaks lines for soft-wrapped display.
//
// Columns are rune indexes into a line. Cells are terminal cells: most
// runes occupy one, East Asian wide runes occupy two, and control
// characters and combining marks occupy none. Tabs are measured as the
// distance to the next tab stop.
package layout
