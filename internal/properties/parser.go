package properties

import "strings"

const msgMissingSeparator = "Expecting '=', ':' or whitespace after the property key"

const msgMalformedEncoding = "Malformed \\uxxxx encoding"

// Node is a region of the parsed text. Text is the source as written, with
// escapes and line continuations intact.
type Node struct {
	Offset int
	Length int
	Text   string
}

// End returns the offset just past n.
func (n Node) End() int {
	return n.Offset + n.Length
}

// Decode returns the text of n with line continuations joined and escapes
// decoded.
func (n Node) Decode() (string, error) {
	return Unescape(joinContinuations(n.Text))
}

// KeyValuePair is a property declaration. The value starts right after the
// separator, so it may begin with whitespace when the separator is '=' or ':'.
type KeyValuePair struct {
	Key   Node
	Value Node
}

// SyntaxError is a malformed part of the text.
type SyntaxError struct {
	Message string
	Offset  int
	Length  int
}

// ParseResult holds everything found in a properties text.
type ParseResult struct {
	Pairs    []KeyValuePair
	Comments []Node
	Errors   []SyntaxError
}

// Parse reads text leniently: a malformed line is reported and skipped, and
// parsing goes on with the next line.
func Parse(text string) *ParseResult {
	result := &ParseResult{}

	for pos := 0; pos < len(text); {
		i := skipBlanks(text, pos, len(text))

		if i < len(text) && (text[i] == '#' || text[i] == '!') {
			end, next := physicalLine(text, i)
			result.Comments = append(result.Comments, node(text, i, end))
			pos = next

			continue
		}

		end, next := logicalLine(text, i)
		if i < end {
			result.parsePair(text, i, end)
		}

		pos = next
	}

	return result
}

func (r *ParseResult) parsePair(text string, start, end int) {
	i := start

	for i < end {
		c := text[i]
		if c == '\\' {
			if i+1 < end && (text[i+1] == '\n' || text[i+1] == '\r') {
				i += 2
				if text[i-1] == '\r' && i < end && text[i] == '\n' {
					i++
				}

				i = skipBlanks(text, i, end)

				continue
			}

			i += 2

			continue
		}

		if isBlank(c) || c == '\r' || c == '\n' || c == '=' || c == ':' {
			break
		}

		i++
	}

	keyEnd := min(i, end)
	j := skipBlanks(text, keyEnd, end)

	var valueStart int

	switch {
	case j < end && (text[j] == '=' || text[j] == ':'):
		valueStart = j + 1
	case j > keyEnd:
		valueStart = j
	default:
		r.Errors = append(r.Errors, SyntaxError{Message: msgMissingSeparator, Offset: start, Length: end - start})
		return
	}

	pair := KeyValuePair{Key: node(text, start, keyEnd), Value: node(text, valueStart, end)}

	for _, n := range []Node{pair.Key, pair.Value} {
		if _, err := n.Decode(); err != nil {
			r.Errors = append(r.Errors, SyntaxError{Message: msgMalformedEncoding, Offset: n.Offset, Length: n.Length})
		}
	}

	r.Pairs = append(r.Pairs, pair)
}

// logicalLine returns the end of the logical line starting at start, without
// its line terminator, and the offset of the line after it. A physical line
// ending in an odd number of backslashes continues on the next one.
func logicalLine(text string, start int) (int, int) {
	lineStart := start

	for {
		nl := strings.IndexByte(text[lineStart:], '\n')
		if nl < 0 {
			return trimCR(text, lineStart, len(text)), len(text)
		}

		lineEnd := lineStart + nl
		contentEnd := trimCR(text, lineStart, lineEnd)

		if trailingBackslashes(text[lineStart:contentEnd])%2 == 0 {
			return contentEnd, lineEnd + 1
		}

		lineStart = lineEnd + 1
	}
}

func physicalLine(text string, start int) (int, int) {
	nl := strings.IndexByte(text[start:], '\n')
	if nl < 0 {
		return trimCR(text, start, len(text)), len(text)
	}

	return trimCR(text, start, start+nl), start + nl + 1
}

// joinContinuations removes escaped line breaks together with the leading
// blanks of the continuation line.
func joinContinuations(s string) string {
	if !strings.Contains(s, "\\\n") && !strings.Contains(s, "\\\r") {
		return s
	}

	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}

		next := s[i+1]
		if next != '\n' && next != '\r' {
			sb.WriteByte(c)
			sb.WriteByte(next)
			i++

			continue
		}

		i++
		if next == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}

		for i+1 < len(s) && isBlank(s[i+1]) {
			i++
		}
	}

	return sb.String()
}

func node(text string, start, end int) Node {
	return Node{Offset: start, Length: end - start, Text: text[start:end]}
}

func trimCR(text string, start, end int) int {
	if end > start && text[end-1] == '\r' {
		return end - 1
	}

	return end
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}

	return n
}

func skipBlanks(text string, i, end int) int {
	for i < end && isBlank(text[i]) {
		i++
	}

	return i
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}
