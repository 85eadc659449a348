package schema

import (
	"fmt"
	"slices"

	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/valueparse"
)

// Factory creates types and keeps track of them so that they can be sealed together.
type Factory struct {
	types []*YType
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) register(t *YType) *YType {
	if t.properties == nil {
		t.properties = newPropertyMap()
	}

	f.types = append(f.types, t)

	return t
}

// Seal seals every type created by f.
func (f *Factory) Seal() {
	for _, t := range f.types {
		t.Seal()
	}
}

// TypeUtil returns the query interface for types created by any Factory.
func (f *Factory) TypeUtil() TypeUtil {
	return typeUtil{}
}

// Atomic creates an atomic type without a parser.
func (f *Factory) Atomic(name string) *YType {
	return f.register(&YType{name: name, shapes: shapeAtomic})
}

// Bean creates a bean type with the given properties.
func (f *Factory) Bean(name string, props ...*Property) *YType {
	t := f.register(&YType{name: name, shapes: shapeBean})
	for _, p := range props {
		t.properties.add(p)
	}

	return t
}

// Map creates a map type.
func (f *Factory) Map(key, value Type) *YType {
	return f.register(&YType{
		name:   fmt.Sprintf("Map<%s, %s>", key, value),
		shapes: shapeMap,
		key:    key,
		domain: value,
	})
}

// Seq creates a sequence type.
func (f *Factory) Seq(el Type) *YType {
	return f.register(&YType{
		name:   el.String() + "[]",
		shapes: shapeSeq,
		domain: el,
	})
}

// Any creates a type that accepts every node shape without further checks.
func (f *Factory) Any(name string) *YType {
	return f.register(&YType{name: name, shapes: shapeAtomic | shapeMap | shapeSeq})
}

// Union creates a bean type that resolves to one of its members by looking for
// a property that only that member defines. It panics if fewer than two members
// are given.
func (f *Factory) Union(name string, members ...*YType) *YType {
	if len(members) < 2 {
		panic(fmt.Sprintf("schema: union '%s' needs at least two members", name))
	}

	return f.register(&YType{
		name:    name,
		shapes:  shapeBean,
		members: slices.Clone(members),
	})
}

// ContextAware creates a type whose actual type is guessed from the dynamic
// context. Until a guess succeeds it accepts every node shape.
func (f *Factory) ContextAware(name string, guess func(dc DynamicContext) Type) *YType {
	return f.register(&YType{
		name:   name,
		shapes: shapeAtomic | shapeBean | shapeMap | shapeSeq,
		guess:  guess,
	})
}

// Enum creates an atomic type accepting the given values.
func (f *Factory) Enum(name string, values ...string) *YType {
	return f.EnumBuilder(name, values...).Build()
}

// EnumFromHints creates an enum whose values are computed from the dynamic context.
func (f *Factory) EnumFromHints(name string, values HintProvider) *YType {
	t := f.Atomic(name)
	t.AddHintProvider(values)
	t.ParseWithContext(func(dc DynamicContext) valueparse.Parser {
		vals := values(dc)
		if vals == nil {
			return nil
		}

		return valueparse.Enum(name, vals...)
	})

	return t
}

type enumDeprecation struct {
	message     string
	replacement string
	fixMessage  string
}

// EnumBuilder builds enum types with deprecated values.
type EnumBuilder struct {
	factory      *Factory
	name         string
	values       []string
	deprecations map[string]enumDeprecation
}

// EnumBuilder starts building an enum type.
func (f *Factory) EnumBuilder(name string, values ...string) *EnumBuilder {
	return &EnumBuilder{
		factory:      f,
		name:         name,
		values:       slices.Clone(values),
		deprecations: make(map[string]enumDeprecation),
	}
}

// Deprecate marks value as deprecated with msg. It panics if value is not one of the enum values.
func (b *EnumBuilder) Deprecate(value, msg string) *EnumBuilder {
	b.mustContain(value)
	b.deprecations[value] = enumDeprecation{message: msg}

	return b
}

// DeprecateWithReplacement marks value as deprecated in favor of replacement.
func (b *EnumBuilder) DeprecateWithReplacement(value, replacement string) *EnumBuilder {
	b.mustContain(value)
	b.deprecations[value] = enumDeprecation{
		message:     fmt.Sprintf("The value '%s' is deprecated in favor of '%s'", value, replacement),
		replacement: replacement,
		fixMessage:  fmt.Sprintf("Replace deprecated value '%s' by '%s'", value, replacement),
	}

	return b
}

func (b *EnumBuilder) mustContain(value string) {
	if !slices.Contains(b.values, value) {
		panic(fmt.Sprintf("schema: '%s' is not a value of enum '%s'", value, b.name))
	}
}

// Build creates the enum type. Deprecated values are left out of the hints.
func (b *EnumBuilder) Build() *YType {
	t := b.factory.Atomic(b.name)

	var hints []string

	for _, v := range b.values {
		if _, ok := b.deprecations[v]; !ok {
			hints = append(hints, v)
		}
	}

	t.AddHints(hints...)

	basic := valueparse.Enum(b.name, b.values...)
	if len(b.deprecations) == 0 {
		return t.ParseWith(basic)
	}

	deprecations := b.deprecations

	return t.ParseWith(valueparse.ParserFunc(func(text string) (any, error) {
		v, err := basic.Parse(text)
		if err != nil {
			return nil, err
		}

		if d, ok := deprecations[text]; ok {
			pe := valueparse.Errorf("%s", d.message).WithType(diagnostic.DeprecatedValue)
			if d.replacement != "" {
				pe = pe.WithFix(d.fixMessage, d.replacement)
			}

			return nil, pe
		}

		return v, nil
	}))
}
