package valueparse

import (
	"fmt"
	"slices"
	"strings"
)

// EnumParser accepts one of a fixed set of values.
type EnumParser struct {
	typeName   string
	values     []string
	ignoreCase bool
}

// Enum creates a parser accepting exactly the given values.
func Enum(typeName string, values ...string) *EnumParser {
	return &EnumParser{typeName: typeName, values: slices.Clone(values)}
}

// IgnoringCase returns a copy of p that compares values case-insensitively.
func (p *EnumParser) IgnoringCase() *EnumParser {
	c := *p
	c.ignoreCase = true

	return &c
}

// Values returns the accepted values.
func (p *EnumParser) Values() []string {
	return slices.Clone(p.values)
}

// Parse returns the canonical accepted value matching text.
func (p *EnumParser) Parse(text string) (any, error) {
	s := strings.TrimSpace(text)

	for _, v := range p.values {
		if v == s || (p.ignoreCase && strings.EqualFold(v, s)) {
			return v, nil
		}
	}

	msg := fmt.Sprintf("'%s' is an unknown '%s'.", text, p.typeName)
	if len(p.values) > 0 {
		msg += " Valid values are: " + strings.Join(p.values, ", ")
	}

	return nil, wholeText(msg, text, nil)
}

// DelimitedParser parses a comma separated list, validating each element.
type DelimitedParser struct {
	elem Parser
}

// Delimited creates a parser for comma separated lists of elem values.
// Empty input yields an empty list.
func Delimited(elem Parser) *DelimitedParser {
	return &DelimitedParser{elem: elem}
}

// Parse validates every element. Element errors are reported at the element's
// position within text.
func (p *DelimitedParser) Parse(text string) (any, error) {
	var result []any

	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	offset := 0
	for _, part := range strings.Split(text, ",") {
		trimmed := strings.TrimSpace(part)
		start := offset + strings.Index(part, trimmed)

		v, err := p.elem.Parse(trimmed)
		if err != nil {
			pe := &ParseError{
				Message:   MessageOf(err),
				Start:     start,
				End:       start + len(trimmed),
				Highlight: trimmed,
				Type:      ProblemTypeOf(err),
				Fix:       ReplacementOf(err),
				Cause:     err,
			}

			return nil, pe
		}

		result = append(result, v)
		offset += len(part) + 1
	}

	return result, nil
}
