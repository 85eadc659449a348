package valueparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Parser validates and converts scalar text.
type Parser interface {
	Parse(text string) (any, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(text string) (any, error)

// Parse calls f(text).
func (f ParserFunc) Parse(text string) (any, error) {
	return f(text)
}

// Of wraps a conversion function. Errors that are not already ParseErrors are
// wrapped with the given type name.
func Of(typeName string, fn func(text string) (any, error)) Parser {
	return ParserFunc(func(text string) (any, error) {
		v, err := fn(text)
		if err != nil {
			if _, ok := AsParseError(err); ok {
				return nil, err
			}

			return nil, wholeText(fmt.Sprintf("'%s' is not a valid '%s'", text, typeName), text, err)
		}

		return v, nil
	})
}

// NonBlankString accepts any string that contains a non-whitespace character.
var NonBlankString Parser = ParserFunc(func(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, Errorf("String should not be empty")
	}

	return text, nil
})

// Integer accepts any base 10 integer.
var Integer Parser = IntegerRange(nil, nil)

// PositiveInteger accepts integers >= 0.
var PositiveInteger Parser = IntegerAtLeast(0)

// Float accepts floating point numbers.
var Float Parser = ParserFunc(func(text string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, wholeText(fmt.Sprintf("'%s' is not a valid 'float'", text), text, err)
	}

	return v, nil
})

// Boolean accepts only "true" or "false", ignoring case.
var Boolean Parser = ParserFunc(func(text string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return nil, wholeText("Value should be 'true' or 'false'", text, nil)
	}
})

// Duration accepts Go duration strings ("5s", "1h30m") or a bare number of milliseconds.
var Duration Parser = ParserFunc(func(text string) (any, error) {
	s := strings.TrimSpace(text)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, wholeText(fmt.Sprintf("'%s' is not a valid 'duration'", text), text, err)
	}

	return d, nil
})

// IntegerAtLeast accepts integers >= lo.
func IntegerAtLeast(lo int) Parser {
	return IntegerRange(&lo, nil)
}

// IntegerAtMost accepts integers <= hi.
func IntegerAtMost(hi int) Parser {
	return IntegerRange(nil, &hi)
}

// IntegerRange accepts integers within the inclusive bounds; nil bounds are open.
// A lower bound of exactly zero is reported as "Value must be positive".
func IntegerRange(lo, hi *int) Parser {
	return ParserFunc(func(text string) (any, error) {
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, wholeText(fmt.Sprintf("'%s' is not a valid 'int'", text), text, err)
		}

		if lo != nil && v < *lo {
			if *lo == 0 {
				return nil, wholeText("Value must be positive", text, nil)
			}

			return nil, wholeText(fmt.Sprintf("Value must be at least %d", *lo), text, nil)
		}

		if hi != nil && v > *hi {
			return nil, wholeText(fmt.Sprintf("Value must be at most %d", *hi), text, nil)
		}

		return v, nil
	})
}

// RadixInteger parses integers the way Spring does for numeric properties:
// a 0x/0X or # prefix means hex, 0b/0B binary, and a leading 0 octal.
func RadixInteger(bitSize int) Parser {
	return ParserFunc(func(text string) (any, error) {
		s := strings.TrimSpace(text)

		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}

		base := 10

		switch {
		case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
			base, s = 16, s[2:]
		case strings.HasPrefix(s, "#"):
			base, s = 16, s[1:]
		case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
			base, s = 2, s[2:]
		case len(s) > 1 && s[0] == '0':
			base, s = 8, s[1:]
		}

		invalid := fmt.Sprintf("'%s' is not a valid '%s'", text, intTypeName(bitSize))

		// one sign only, and it goes before the radix prefix
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return nil, wholeText(invalid, text, strconv.ErrSyntax)
		}

		if neg {
			s = "-" + s
		}

		v, err := strconv.ParseInt(s, base, bitSize)
		if err != nil {
			return nil, wholeText(invalid, text, err)
		}

		return v, nil
	})
}

// AlwaysFail rejects every value. It is used for types that cannot be
// expressed as a scalar.
func AlwaysFail(typeName string) Parser {
	return ParserFunc(func(text string) (any, error) {
		return nil, wholeText(fmt.Sprintf("Value of type '%s' can not be a scalar", typeName), text, nil)
	})
}

func intTypeName(bitSize int) string {
	switch bitSize {
	case 8:
		return "byte"
	case 16:
		return "short"
	case 32:
		return "int"
	default:
		return "long"
	}
}

func wholeText(msg, text string, cause error) *ParseError {
	return &ParseError{
		Message:   msg,
		Start:     0,
		End:       len(text),
		Highlight: text,
		Cause:     cause,
	}
}

// Bounds returns the bounds encoded by an IntRange-style pair, treating
// math.MinInt and math.MaxInt as open.
func Bounds(lo, hi int) (*int, *int) {
	var l, h *int
	if lo != math.MinInt {
		l = &lo
	}

	if hi != math.MaxInt {
		h = &hi
	}

	return l, h
}
