package yamlast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"yaml-reconciler/internal/diagnostic"
)

// Parse parses every YAML document in src.
func Parse(src []byte) (*File, error) {
	f := &File{Source: string(src)}
	b := &builder{src: f.Source, lines: diagnostic.NewLineIndex(f.Source)}

	dec := yaml.NewDecoder(bytes.NewReader(src))

	for i := 0; ; i++ {
		var doc yaml.Node

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse yaml document %d: %w", i, err)
		}

		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			continue
		}

		f.Documents = append(f.Documents, b.convert(doc.Content[0]))
	}

	return f, nil
}

// ParseString is Parse for string input.
func ParseString(src string) (*File, error) {
	return Parse([]byte(src))
}

type builder struct {
	src   string
	lines *diagnostic.LineIndex
}

func (b *builder) convert(n *yaml.Node) Node {
	start := b.skipProperties(b.lines.Offset(n.Line, n.Column))

	switch n.Kind {
	case yaml.MappingNode:
		m := &MappingNode{Flow: n.Style&yaml.FlowStyle != 0}

		end := start
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := b.convert(n.Content[i])
			v := b.convert(n.Content[i+1])
			m.Entries = append(m.Entries, Entry{Key: k, Value: v})
			end = max(end, k.Span().End, v.Span().End)
		}

		if m.Flow {
			end = max(end, b.closingBracket(start, '{', '}'))
		}

		m.span = Span{Start: start, End: end}

		return m
	case yaml.SequenceNode:
		s := &SequenceNode{Flow: n.Style&yaml.FlowStyle != 0}

		end := start
		for _, c := range n.Content {
			item := b.convert(c)
			s.Items = append(s.Items, item)
			end = max(end, item.Span().End)
		}

		if s.Flow {
			end = max(end, b.closingBracket(start, '[', ']'))
		}

		s.span = Span{Start: start, End: end}

		return s
	case yaml.AliasNode:
		end := min(start+1+len(n.Value), len(b.src))
		return &AnchorNode{Alias: n.Value, span: Span{Start: start, End: end}}
	default:
		sc := &ScalarNode{Value: n.Value, Tag: n.ShortTag(), Style: scalarStyle(n.Style)}
		sc.span = Span{Start: start, End: b.scalarEnd(sc, start)}

		return sc
	}
}

func scalarStyle(s yaml.Style) ScalarStyle {
	switch {
	case s&yaml.DoubleQuotedStyle != 0:
		return DoubleQuoted
	case s&yaml.SingleQuotedStyle != 0:
		return SingleQuoted
	case s&yaml.LiteralStyle != 0:
		return Literal
	case s&yaml.FoldedStyle != 0:
		return Folded
	default:
		return Plain
	}
}

// skipProperties moves past anchors and tags preceding a node.
func (b *builder) skipProperties(pos int) int {
	for pos < len(b.src) && (b.src[pos] == '&' || b.src[pos] == '!') {
		for pos < len(b.src) && !isSpace(b.src[pos]) {
			pos++
		}

		for pos < len(b.src) && (b.src[pos] == ' ' || b.src[pos] == '\t') {
			pos++
		}
	}

	return pos
}

func (b *builder) scalarEnd(n *ScalarNode, start int) int {
	switch n.Style {
	case DoubleQuoted:
		return b.quotedEnd(start, '"')
	case SingleQuoted:
		return b.quotedEnd(start, '\'')
	case Literal, Folded:
		return b.blockEnd(start)
	default:
		return b.plainEnd(n.Value, start)
	}
}

func (b *builder) plainEnd(value string, start int) int {
	if strings.HasPrefix(b.src[start:], value) {
		return start + len(value)
	}

	// Folded plain scalars: find each word in order.
	end := start
	for _, word := range strings.Fields(value) {
		i := strings.Index(b.src[end:], word)
		if i < 0 {
			break
		}

		end += i + len(word)
	}

	return end
}

func (b *builder) quotedEnd(start int, quote byte) int {
	if start >= len(b.src) || b.src[start] != quote {
		return start
	}

	for i := start + 1; i < len(b.src); i++ {
		switch c := b.src[i]; {
		case quote == '"' && c == '\\':
			i++
		case c == quote:
			if quote == '\'' && i+1 < len(b.src) && b.src[i+1] == '\'' {
				i++
				continue
			}

			return i + 1
		}
	}

	return len(b.src)
}

// blockEnd finds the end of a literal or folded block scalar whose indicator is at start.
func (b *builder) blockEnd(start int) int {
	nl := strings.IndexByte(b.src[start:], '\n')
	if nl < 0 {
		return len(b.src)
	}

	end := start + nl
	pos := end + 1
	indent := -1

	for pos < len(b.src) {
		lineEnd := strings.IndexByte(b.src[pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(b.src)
		} else {
			lineEnd += pos
		}

		line := b.src[pos:lineEnd]
		content := strings.TrimLeft(line, " ")

		if strings.TrimSpace(line) != "" {
			lineIndent := len(line) - len(content)
			if indent < 0 {
				indent = lineIndent
			}

			if lineIndent < indent || indent == 0 {
				break
			}

			end = lineEnd
		}

		pos = lineEnd + 1
	}

	return end
}

// closingBracket returns the offset after the bracket closing the one at start.
func (b *builder) closingBracket(start int, open, closing byte) int {
	depth := 0

	for i := start; i < len(b.src); i++ {
		switch c := b.src[i]; c {
		case '"', '\'':
			i = b.quotedEnd(i, c) - 1
		case '#':
			if i > 0 && isSpace(b.src[i-1]) {
				for i < len(b.src) && b.src[i] != '\n' {
					i++
				}
			}
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}

	return len(b.src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
