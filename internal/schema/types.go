package schema

import (
	"fmt"
	"slices"

	"yaml-reconciler/internal/valueparse"
)

// Type is an opaque handle to a schema type.
type Type interface {
	fmt.Stringer
}

type shape uint8

const (
	shapeAtomic shape = 1 << iota
	shapeBean
	shapeMap
	shapeSeq
)

// ParserProvider returns the value parser to use in a dynamic context.
type ParserProvider func(dc DynamicContext) valueparse.Parser

// HintProvider returns value hints for a dynamic context.
type HintProvider func(dc DynamicContext) []string

// YType is the Type implementation created by Factory.
type YType struct {
	name   string
	shapes shape

	key    Type
	domain Type

	properties *PropertyMap

	parser        ParserProvider
	contextParser bool

	hints        []string
	hintProvider HintProvider
	constraints  []Constraint

	guess   func(dc DynamicContext) Type
	members []*YType
	primary map[string]*YType

	sealed bool
}

func (t *YType) String() string {
	return t.name
}

// IsAtomic reports whether t accepts scalar values.
func (t *YType) IsAtomic() bool { return t.shapes&shapeAtomic != 0 }

// IsBean reports whether t has named properties.
func (t *YType) IsBean() bool { return t.shapes&shapeBean != 0 }

// IsMap reports whether t is a map with arbitrary keys.
func (t *YType) IsMap() bool { return t.shapes&shapeMap != 0 }

// IsSequenceable reports whether t accepts sequences.
func (t *YType) IsSequenceable() bool { return t.shapes&shapeSeq != 0 }

// Properties returns the bean properties of t in declaration order.
func (t *YType) Properties() *PropertyMap {
	if t.members != nil {
		return t.primaryProperties()
	}

	return t.properties
}

func (t *YType) checkMutable() {
	if t.sealed {
		panic(fmt.Sprintf("schema: type '%s' is sealed", t.name))
	}
}

// AddProperty appends properties to a bean type.
func (t *YType) AddProperty(props ...*Property) *YType {
	t.checkMutable()

	for _, p := range props {
		t.properties.add(p)
	}

	return t
}

// ParseWith sets a context independent value parser.
func (t *YType) ParseWith(p valueparse.Parser) *YType {
	t.checkMutable()

	t.parser = func(DynamicContext) valueparse.Parser { return p }
	t.contextParser = false

	return t
}

// ParseWithContext sets a value parser that depends on the dynamic context.
// Values of such types are checked after the whole document has been walked.
func (t *YType) ParseWithContext(p ParserProvider) *YType {
	t.checkMutable()

	t.parser = p
	t.contextParser = true

	return t
}

// Named renames t.
func (t *YType) Named(name string) *YType {
	t.checkMutable()

	t.name = name

	return t
}

// AllowScalar lets a collection type also accept a scalar, checked by p.
func (t *YType) AllowScalar(p valueparse.Parser) *YType {
	t.ParseWith(p)
	t.shapes |= shapeAtomic

	return t
}

// AddHints adds suggested values. Duplicates are ignored.
func (t *YType) AddHints(values ...string) *YType {
	t.checkMutable()

	for _, v := range values {
		if !slices.Contains(t.hints, v) {
			t.hints = append(t.hints, v)
		}
	}

	return t
}

// AddHintProvider sets a provider of additional context dependent hints.
func (t *YType) AddHintProvider(p HintProvider) *YType {
	t.checkMutable()

	t.hintProvider = p

	return t
}

// Require attaches a constraint, verified after the document walk.
func (t *YType) Require(c Constraint) *YType {
	t.checkMutable()

	t.constraints = append(t.constraints, c)

	return t
}

// RequireOneOf requires at least one of the named properties to be present.
func (t *YType) RequireOneOf(names ...string) *YType {
	return t.Require(RequireOneOf(names...))
}

// TreatAsAtomic narrows a context aware type to the atomic shape.
func (t *YType) TreatAsAtomic() *YType {
	t.checkMutable()

	t.shapes = shapeAtomic

	return t
}

// TreatAsBean narrows a context aware type to the bean shape.
func (t *YType) TreatAsBean() *YType {
	t.checkMutable()

	t.shapes = shapeBean

	return t
}

// Seal makes t immutable. Union types resolve their primary properties here.
func (t *YType) Seal() {
	if t.sealed {
		return
	}

	if t.members != nil {
		t.primary = t.computePrimary()
	}

	t.sealed = true
}

// Sealed reports whether t has been sealed.
func (t *YType) Sealed() bool {
	return t.sealed
}

func (t *YType) typesByPrimary() map[string]*YType {
	if t.primary != nil {
		return t.primary
	}

	return t.computePrimary()
}

func (t *YType) computePrimary() map[string]*YType {
	result := make(map[string]*YType, len(t.members))

	for _, m := range t.members {
		name, ok := uniqueProperty(m, t.members)
		if !ok {
			panic(fmt.Sprintf("schema: couldn't find a unique property key for '%s' in union '%s'", m.name, t.name))
		}

		result[name] = m
	}

	return result
}

func uniqueProperty(m *YType, members []*YType) (string, bool) {
	for _, p := range m.properties.All() {
		unique := true

		for _, other := range members {
			if other != m && other.properties.Has(p.Name) {
				unique = false
				break
			}
		}

		if unique {
			return p.Name, true
		}
	}

	return "", false
}

// primaryProperties are offered for a union whose member can't be inferred yet.
func (t *YType) primaryProperties() *PropertyMap {
	result := newPropertyMap()
	primary := t.typesByPrimary()

	for _, m := range t.members {
		for name, owner := range primary {
			if owner == m {
				p, _ := m.properties.Get(name)
				result.add(p)
			}
		}
	}

	return result
}

func (t *YType) inferMoreSpecific(dc DynamicContext) Type {
	switch {
	case t.guess != nil:
		if dc != nil {
			if inferred := t.guess(dc); inferred != nil {
				return inferred
			}
		}
	case t.members != nil:
		if dc == nil {
			return t
		}

		defined := dc.DefinedProperties()
		if len(defined) == 0 {
			return t
		}

		for _, m := range t.members {
			for name, owner := range t.typesByPrimary() {
				if owner != m {
					continue
				}

				if _, ok := defined[name]; ok {
					return m
				}
			}
		}
	}

	return t
}
