package schema

import (
	"slices"

	"yaml-reconciler/internal/valueparse"
)

// TypeUtil answers shape and property queries about types. Queries on unknown
// types or types lacking the requested data return nil or empty results.
type TypeUtil interface {
	IsAtomic(t Type) bool
	IsBean(t Type) bool
	IsMap(t Type) bool
	IsSequenceable(t Type) bool
	PropertiesMap(t Type) *PropertyMap
	KeyType(t Type) Type
	DomainType(t Type) Type
	ValueParser(t Type, dc DynamicContext) valueparse.Parser
	// IsContextAwareParser reports whether the value parser depends on the dynamic context.
	IsContextAwareParser(t Type) bool
	Constraints(t Type) []Constraint
	NiceTypeName(t Type) string
	InferMoreSpecificType(t Type, dc DynamicContext) Type
	HintValues(t Type, dc DynamicContext) []string
}

type typeUtil struct{}

func asY(t Type) *YType {
	y, _ := t.(*YType)
	return y
}

func (typeUtil) IsAtomic(t Type) bool {
	y := asY(t)
	return y != nil && y.IsAtomic()
}

func (typeUtil) IsBean(t Type) bool {
	y := asY(t)
	return y != nil && y.IsBean()
}

func (typeUtil) IsMap(t Type) bool {
	y := asY(t)
	return y != nil && y.IsMap()
}

func (typeUtil) IsSequenceable(t Type) bool {
	y := asY(t)
	return y != nil && y.IsSequenceable()
}

func (typeUtil) PropertiesMap(t Type) *PropertyMap {
	if y := asY(t); y != nil {
		return y.Properties()
	}

	return nil
}

func (typeUtil) KeyType(t Type) Type {
	if y := asY(t); y != nil && y.key != nil {
		return y.key
	}

	return nil
}

func (typeUtil) DomainType(t Type) Type {
	if y := asY(t); y != nil && y.domain != nil {
		return y.domain
	}

	return nil
}

func (typeUtil) ValueParser(t Type, dc DynamicContext) valueparse.Parser {
	if y := asY(t); y != nil && y.parser != nil {
		return y.parser(dc)
	}

	return nil
}

func (typeUtil) IsContextAwareParser(t Type) bool {
	y := asY(t)
	return y != nil && y.contextParser
}

func (typeUtil) Constraints(t Type) []Constraint {
	if y := asY(t); y != nil {
		return y.constraints
	}

	return nil
}

func (typeUtil) NiceTypeName(t Type) string {
	if t == nil {
		return ""
	}

	return t.String()
}

// InferMoreSpecificType refines t until it stops changing.
func (typeUtil) InferMoreSpecificType(t Type, dc DynamicContext) Type {
	for {
		y := asY(t)
		if y == nil {
			return t
		}

		better := y.inferMoreSpecific(dc)
		if better == nil || better == t {
			return t
		}

		t = better
	}
}

func (typeUtil) HintValues(t Type, dc DynamicContext) []string {
	y := asY(t)
	if y == nil {
		return nil
	}

	hints := append([]string(nil), y.hints...)

	if y.hintProvider != nil {
		for _, h := range y.hintProvider(dc) {
			if !slices.Contains(hints, h) {
				hints = append(hints, h)
			}
		}
	}

	return hints
}
