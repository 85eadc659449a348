package metadata

import (
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/schema"
)

// DeprecationLevel is "warning" (the default) or "error".
type DeprecationLevel string

const (
	LevelWarning DeprecationLevel = "warning"
	LevelError   DeprecationLevel = "error"
)

// Deprecation describes why a property is deprecated and what replaces it.
type Deprecation struct {
	Level       DeprecationLevel
	Reason      string
	Replacement string
}

// ValueHint is a suggested value for a property.
type ValueHint struct {
	Value       string
	Description string
}

// PropertyInfo is a single configuration property.
type PropertyInfo struct {
	ID           string
	Type         string
	Description  string
	DefaultValue any
	Deprecation  *Deprecation
	Hints        []ValueHint
}

// IsDeprecated reports whether the property is deprecated.
func (p *PropertyInfo) IsDeprecated() bool {
	return p.Deprecation != nil
}

// DeprecationReplacement returns the replacement property, if any.
func (p *PropertyInfo) DeprecationReplacement() string {
	if p.Deprecation == nil {
		return ""
	}

	return p.Deprecation.Replacement
}

// DeprecationReason returns the deprecation reason, if any.
func (p *PropertyInfo) DeprecationReason() string {
	if p.Deprecation == nil {
		return ""
	}

	return p.Deprecation.Reason
}

// DeprecationMessage is the problem message reported for uses of p.
func (p *PropertyInfo) DeprecationMessage() string {
	return schema.DeprecatedPropertyMessage(p.ID, "", p.DeprecationReplacement(), p.DeprecationReason())
}

// DeprecationProblemType is the type of problems reported for uses of p:
// deprecations at level "error" are errors, all others warnings.
func (p *PropertyInfo) DeprecationProblemType() diagnostic.ProblemType {
	if p.Deprecation != nil && p.Deprecation.Level == LevelError {
		return diagnostic.DeprecatedError
	}

	return diagnostic.DeprecatedProperty
}

// HintValues returns the bare hint values.
func (p *PropertyInfo) HintValues() []string {
	values := make([]string, 0, len(p.Hints))
	for _, h := range p.Hints {
		values = append(values, h.Value)
	}

	return values
}

// WithID returns a copy of p with a different id. It is used when a property
// was found through a relaxed name so that callers see the name as written.
func (p *PropertyInfo) WithID(id string) *PropertyInfo {
	c := *p
	c.ID = id

	return &c
}
