package valueparse

import (
	"errors"
	"fmt"
	"strings"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/diagnostic"
)

// ParseError reports a value that failed to parse.
type ParseError struct {
	Message string
	// Start and End are relative to the parsed text; -1 when unknown.
	Start int
	End   int
	// Highlight is the substring the error is about, used to recover the region
	// when Start/End are unreliable.
	Highlight string
	// Type classifies the problem; zero value means a generic schema problem.
	Type diagnostic.ProblemType
	// Fix is an optional replacement for the highlighted region.
	Fix   *diagnostic.Replacement
	Cause error
}

// Errorf creates a ParseError without a region.
func Errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Start:   -1,
		End:     -1,
	}
}

// ErrorAt creates a ParseError covering text[start:end].
func ErrorAt(msg, text string, start, end int) *ParseError {
	e := &ParseError{Message: msg, Start: start, End: end}
	if start >= 0 && end >= start && end <= len(text) {
		e.Highlight = text[start:end]
	}

	return e
}

func (e *ParseError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}

	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WithType returns e classified as t.
func (e *ParseError) WithType(t diagnostic.ProblemType) *ParseError {
	e.Type = t
	return e
}

// WithFix attaches a replacement quick fix to e.
func (e *ParseError) WithFix(message, text string) *ParseError {
	e.Fix = &diagnostic.Replacement{Message: message, Text: text}
	return e
}

// DeepestCause unwraps err until the innermost error is reached.
func DeepestCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}

		err = next
	}

	return err
}

// MessageOf returns the message used when reporting err. Wrapping added on top
// of the innermost ParseError is dropped; for other errors the deepest cause is used.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}

	if pe := innermostParseError(err); pe != nil {
		if common.HasText(pe.Message) {
			return pe.Message
		}

		if pe.Cause != nil {
			if msg := DeepestCause(pe.Cause).Error(); common.HasText(msg) {
				return msg
			}
		}

		return "An error occurred: " + simpleName(pe)
	}

	deepest := DeepestCause(err)

	msg := deepest.Error()
	if !common.HasText(msg) {
		return "An error occurred: " + simpleName(deepest)
	}

	return msg
}

// ProblemTypeOf returns the problem type carried by the deepest ParseError in err,
// or diagnostic.SchemaProblem.
func ProblemTypeOf(err error) diagnostic.ProblemType {
	if pe := innermostParseError(err); pe != nil {
		return pe.Type
	}

	return diagnostic.SchemaProblem
}

// ReplacementOf returns the replacement carried by a ParseError in err, if any.
func ReplacementOf(err error) *diagnostic.Replacement {
	if pe := innermostParseError(err); pe != nil && pe.Fix != nil && common.HasText(pe.Fix.Text) {
		return pe.Fix
	}

	return nil
}

// AsParseError returns the outermost ParseError in err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}

	return nil, false
}

func innermostParseError(err error) *ParseError {
	var found *ParseError

	for err != nil {
		if pe, ok := err.(*ParseError); ok {
			found = pe
		}

		err = errors.Unwrap(err)
	}

	return found
}

func simpleName(err error) string {
	name := fmt.Sprintf("%T", err)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return strings.TrimLeft(name, "*")
}
