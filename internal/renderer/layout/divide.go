package layout

import "unicode"

// Chunk is a word together with the whitespace surrounding it.
// Start and End are rune columns into the line, End exclusive.
type Chunk struct {
	Start int
	End   int
	Text  string
}

// Chunks splits s into chunks of leading whitespace, a run of
// non-whitespace and trailing whitespace. Whitespace that is not followed
// by a word (a blank line, for example) produces no chunk.
func Chunks(s string) []Chunk {
	runes := []rune(s)
	spans := chunkSpans(runes)
	chunks := make([]Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = Chunk{Start: span[0], End: span[1], Text: string(runes[span[0]:span[1]])}
	}
	return chunks
}

func chunkSpans(runes []rune) [][2]int {
	var spans [][2]int
	pos := 0
	for pos < len(runes) {
		i := pos
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i == len(runes) {
			break
		}
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		spans = append(spans, [2]int{pos, i})
		pos = i
	}
	return spans
}

// DivideLine returns the rune columns at which line must be broken so that
// each resulting row fits within width cells. Breaks fall on word
// boundaries; a word wider than width is folded across rows when fold is
// set and left to overflow its own row otherwise. Tabs are measured by the
// distance to the next tab stop of tabSize, counted from the start of the
// line. The result is strictly increasing and never contains 0.
//
// A width of 0 or less places every word on a row of its own.
func DivideLine(line string, width, tabSize int, fold bool) []int {
	runes := []rune(line)
	if len(runes) == 0 {
		return nil
	}
	tabTable := tabWidthTable(runes, tabSize)

	var breaks []int
	cellOffset := 0
	for _, span := range chunkSpans(runes) {
		start, end := span[0], span[1]
		chunkWidth := cellLenRunes(runes[start:end]) + tabTable[end] - tabTable[start]

		if width <= 0 {
			if start > 0 {
				breaks = append(breaks, start)
			}
			cellOffset = chunkWidth
			continue
		}

		remaining := width - cellOffset
		switch {
		case chunkWidth <= remaining:
			cellOffset += chunkWidth
		case chunkWidth > width && fold:
			widths := make([]int, end-start)
			for i := start; i < end; i++ {
				widths[i-start] = RuneWidth(runes[i]) + tabTable[i+1] - tabTable[i]
			}
			pieces := chopRunes(runes[start:end], widths, width)
			for i, piece := range pieces {
				if start > 0 {
					breaks = append(breaks, start)
				}
				n := len([]rune(piece))
				if i == len(pieces)-1 {
					cellOffset = 0
					for _, w := range widths[start-span[0] : start-span[0]+n] {
						cellOffset += w
					}
					break
				}
				start += n
			}
		case chunkWidth > width:
			// Not allowed to fold: the word overflows a row of its own.
			if start > 0 {
				breaks = append(breaks, start)
			}
			cellOffset = chunkWidth
		case cellOffset > 0 && start > 0:
			breaks = append(breaks, start)
			cellOffset = chunkWidth
		}
	}
	return breaks
}

func cellLenRunes(runes []rune) int {
	width := 0
	for _, r := range runes {
		width += RuneWidth(r)
	}
	return width
}
