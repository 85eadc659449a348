// Package valueparse provides scalar value parsers used to validate atomic
// values in configuration documents.
//
// A parser returns either the parsed value or a *ParseError. A ParseError may
// carry offsets relative to the scalar text and a highlight string that is used
// to re-locate the offending substring when the offsets have drifted.
package valueparse
