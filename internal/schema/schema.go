package schema

import (
	"strings"

	"yaml-reconciler/internal/common"
)

// Schema describes the expected content of a document.
type Schema interface {
	Name() string
	TopLevelType() Type
	TypeUtil() TypeUtil
	// ExpectedDocuments is the allowed number of YAML documents.
	ExpectedDocuments() common.IntRange
}

// BasicSchema is a Schema with fixed values.
type BasicSchema struct {
	name     string
	top      Type
	util     TypeUtil
	expected common.IntRange
}

// NewBasicSchema creates a schema expecting at least one document.
func NewBasicSchema(name string, top Type, util TypeUtil) *BasicSchema {
	return &BasicSchema{
		name:     name,
		top:      top,
		util:     util,
		expected: common.AtLeast(1),
	}
}

// WithExpectedDocuments sets the allowed number of documents.
func (s *BasicSchema) WithExpectedDocuments(r common.IntRange) *BasicSchema {
	s.expected = r
	return s
}

func (s *BasicSchema) Name() string                       { return s.name }
func (s *BasicSchema) TopLevelType() Type                 { return s.top }
func (s *BasicSchema) TypeUtil() TypeUtil                 { return s.util }
func (s *BasicSchema) ExpectedDocuments() common.IntRange { return s.expected }

// DeprecatedPropertyMessage builds the message reported for a deprecated
// property. contextType, replacement and reason are optional.
func DeprecatedPropertyMessage(name, contextType, replacement, reason string) string {
	var sb strings.Builder

	sb.WriteString("Property '" + name + "'")

	if common.HasText(contextType) {
		sb.WriteString(" of type '" + contextType + "'")
	}

	hasReplacement := common.HasText(replacement)
	hasReason := common.HasText(reason)

	if !hasReplacement && !hasReason {
		sb.WriteString(" is Deprecated!")
		return sb.String()
	}

	sb.WriteString(" is Deprecated: ")

	if hasReplacement {
		sb.WriteString("Use '" + replacement + "' instead.")

		if hasReason {
			sb.WriteString(" Reason: ")
		}
	}

	if hasReason {
		sb.WriteString(reason)
	}

	return sb.String()
}
