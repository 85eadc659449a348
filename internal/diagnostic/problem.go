package diagnostic

import (
	"fmt"

	"yaml-reconciler/internal/common"
)

//go:generate go tool stringer -type=ProblemType -linecomment -output=problemtype_string.go

// ProblemType categorizes a reconcile problem.
type ProblemType int

const (
	SchemaProblem       ProblemType = iota // schema_problem
	UnknownProperty                        // unknown_property
	ExpectedScalar                         // expected_scalar
	TypeMismatch                           // type_mismatch
	DuplicateKey                           // duplicate_key
	DeprecatedProperty                     // deprecated_property
	DeprecatedValue                        // deprecated_value
	ValueParseError                        // value_parse_error
	MissingProperty                        // missing_property
	SyntaxError                            // syntax_error
	ConstraintViolation                    // constraint_violation
	InvalidNavigation                      // invalid_navigation
	DeprecatedError                        // deprecated_error
)

// DefaultSeverity returns the severity problems of this type are reported with.
func (t ProblemType) DefaultSeverity() Severity {
	switch t {
	case DeprecatedProperty, DeprecatedValue:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Severity represents the severity level of a problem.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Replacement is a quick fix that replaces the problem region with Text.
type Replacement struct {
	// Message is the label shown for the fix (e.g. "Replace with 'new.name'").
	Message string
	// Text is the replacement text.
	Text string
}

// Problem is a single positioned diagnostic.
type Problem struct {
	Type    ProblemType
	Message string
	// Start is the absolute offset of the problem region in the document.
	Start int
	// Length is the length of the problem region.
	Length int
	// Fix is an optional replacement quick fix.
	Fix *Replacement
	// Metadata is optional structured data for richer tooling (e.g. a property record).
	Metadata any
}

// NewProblem creates a problem covering [start, end). Negative values are clamped
// so that Start >= 0 and Length >= 0 always hold.
func NewProblem(t ProblemType, msg string, start, end int) Problem {
	start = max(start, 0)
	end = max(end, start)

	return Problem{
		Type:    t,
		Message: msg,
		Start:   start,
		Length:  end - start,
	}
}

// WithFix returns a copy of p carrying the given replacement.
func (p Problem) WithFix(message, text string) Problem {
	p.Fix = &Replacement{Message: message, Text: text}
	return p
}

// End returns the offset just past the problem region.
func (p Problem) End() int {
	return p.Start + p.Length
}

// Severity returns the severity of the problem.
func (p Problem) Severity() Severity {
	return p.Type.DefaultSeverity()
}

// key identifies a problem for duplicate filtering.
func (p Problem) key() problemKey {
	return problemKey{typ: p.Type, msg: p.Message, start: p.Start, length: p.Length}
}

type problemKey struct {
	typ    ProblemType
	msg    string
	start  int
	length int
}

// String returns a formatted problem string.
func (p Problem) String() string {
	msg := fmt.Sprintf("[%s] %s (%d..%d)", p.Type, p.Message, p.Start, p.End())
	if p.Fix != nil {
		msg += fmt.Sprintf(" fix: %q", p.Fix.Text)
	}

	return msg
}
