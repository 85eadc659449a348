package diagnostic

import (
	"sort"
	"unicode/utf8"
)

// LineIndex maps absolute byte offsets of a text to 1-based line and column numbers.
type LineIndex struct {
	text   string
	starts []int
}

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}

	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of lines in the text.
func (l *LineIndex) LineCount() int {
	return len(l.starts)
}

// LineStart returns the offset of the first byte of the given 1-based line,
// or -1 when the line does not exist.
func (l *LineIndex) LineStart(line int) int {
	if line < 1 || line > len(l.starts) {
		return -1
	}

	return l.starts[line-1]
}

// Position returns the 1-based line and column (counted in runes) of offset.
// Offsets outside the text are clamped. An empty text yields 0, 0.
func (l *LineIndex) Position(offset int) (int, int) {
	if l.text == "" {
		return 0, 0
	}

	offset = min(max(offset, 0), len(l.text))

	line := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})

	col := utf8.RuneCountInString(l.text[l.starts[line-1]:offset]) + 1

	return line, col
}

// Offset converts a 1-based line and rune column into a byte offset.
// Columns past the end of the line are clamped to the line end.
func (l *LineIndex) Offset(line, column int) int {
	start := l.LineStart(line)
	if start < 0 {
		return len(l.text)
	}

	off := start
	for c := 1; c < column && off < len(l.text) && l.text[off] != '\n'; c++ {
		_, size := utf8.DecodeRuneInString(l.text[off:])
		off += size
	}

	return off
}
