package valueparse

import "strings"

// Region is a half-open range of absolute offsets [Start, End).
type Region struct {
	Start int
	End   int
}

// Len returns the region length.
func (r Region) Len() int {
	return r.End - r.Start
}

// Text returns the text covered by r within source.
func (r Region) Text(source string) string {
	start := min(max(r.Start, 0), len(source))
	end := min(max(r.End, start), len(source))

	return source[start:end]
}

// HighlightRegion computes the absolute region to underline for a parse error.
//
// containing is the region of the scalar in the document and text is the
// document text covered by it. The relative offsets of err are checked against
// its highlight string: if text[start:end] differs, the highlight is searched at
// or after start, then anywhere in text; if it cannot be found the whole
// containing region is returned.
func HighlightRegion(err *ParseError, containing Region, text string) Region {
	if err == nil {
		return containing
	}

	start := err.Start
	end := err.End

	if start < 0 || end < start || end > len(text) {
		start, end = -1, -1
	}

	if err.Highlight == "" {
		if start < 0 {
			return containing
		}

		return Region{Start: containing.Start + start, End: containing.Start + end}
	}

	if start >= 0 && text[start:end] == err.Highlight {
		return Region{Start: containing.Start + start, End: containing.Start + end}
	}

	from := max(start, 0)
	if i := strings.Index(text[from:], err.Highlight); i >= 0 {
		s := from + i
		return Region{Start: containing.Start + s, End: containing.Start + s + len(err.Highlight)}
	}

	if i := strings.Index(text, err.Highlight); i >= 0 {
		return Region{Start: containing.Start + i, End: containing.Start + i + len(err.Highlight)}
	}

	return containing
}
