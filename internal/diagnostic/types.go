package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Diagnostics holds problems grouped by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is a problem resolved to a source location for reporting.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity"`
	// Code is the problem type name (e.g. "unknown_property").
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// File is the document the problem was found in (if known).
	File string `json:"file,omitempty"`
	// Line and Column are 1-based; zero when no source text was available.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
	// Start and End are absolute offsets of the highlighted region.
	Start int `json:"start"`
	End   int `json:"end"`
	// Suggestions are replacement texts offered as quick fixes.
	Suggestions []string `json:"suggestions,omitempty"`
}

// FromProblems converts problems found in file into grouped diagnostics.
// The source text is used to resolve line and column; it may be empty.
func FromProblems(file, source string, problems []Problem) Diagnostics {
	var d Diagnostics

	lines := NewLineIndex(source)

	for _, p := range problems {
		line, col := lines.Position(p.Start)

		diag := Diagnostic{
			Severity: p.Severity(),
			Code:     p.Type.String(),
			Message:  p.Message,
			File:     file,
			Line:     line,
			Column:   col,
			Start:    p.Start,
			End:      p.End(),
		}
		if p.Fix != nil {
			diag.Suggestions = []string{p.Fix.Text}
		}

		d.Add(diag)
	}

	return d
}

// Add appends diag to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// HasWarnings returns true if there are any warning diagnostics.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// Len returns the total number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, d.Len())
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	return all
}

// Sort orders every bucket by file and position.
func (d *Diagnostics) Sort() {
	byPosition := func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
			cmp.Compare(a.Message, b.Message),
		)
	}

	slices.SortStableFunc(d.Errors, byPosition)
	slices.SortStableFunc(d.Warnings, byPosition)
	slices.SortStableFunc(d.Infos, byPosition)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.File != "" {
		prefix = append(prefix, d.File)
	}

	if d.Line > 0 {
		prefix = append(prefix, fmt.Sprintf("%d:%d", d.Line, d.Column))
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += fmt.Sprintf(" (fix: %s)", strings.Join(d.Suggestions, ", "))
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, ":") + ": " + msg
	}

	return msg
}
