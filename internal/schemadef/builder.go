package schemadef

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
)

// builtins maps built-in atomic type names to their value parsers. A nil
// parser accepts any value.
var builtins = map[string]valueparse.Parser{
	"string":           nil,
	"ne-string":        valueparse.NonBlankString,
	"integer":          valueparse.Integer,
	"positive-integer": valueparse.PositiveInteger,
	"boolean":          valueparse.Boolean,
	"float":            valueparse.Float,
	"duration":         valueparse.Duration,
	"byte":             valueparse.RadixInteger(8),
	"short":            valueparse.RadixInteger(16),
	"int":              valueparse.RadixInteger(32),
	"long":             valueparse.RadixInteger(64),
}

type builder struct {
	def     *Definition
	factory *schema.Factory

	types map[string]schema.Type
	// pending holds non-bean types being built, to detect reference cycles
	pending map[string]bool
	filled  map[string]bool

	errs *multierror.Error
}

// Build turns a parsed definition into a sealed schema.
func Build(def *Definition) (*schema.BasicSchema, error) {
	b := &builder{
		def:     def,
		factory: schema.NewFactory(),
		types:   make(map[string]schema.Type),
		pending: make(map[string]bool),
		filled:  make(map[string]bool),
	}

	seen := make(map[string]bool, len(def.Types))
	for _, nt := range def.Types {
		if seen[nt.Name] {
			b.fail("duplicate type %q", nt.Name)
		}

		seen[nt.Name] = true

		if _, ok := builtins[nt.Name]; ok || nt.Name == "any" {
			b.fail("type %q shadows a built-in type", nt.Name)
		}

		// beans exist before anything refers to them so that they can be recursive
		if nt.Def.Kind == KindBean {
			b.types[nt.Name] = b.factory.Bean(nt.Name)
		}
	}

	for _, nt := range def.Types {
		b.resolve(nt.Name)
	}

	var root schema.Type

	if def.Root == "" {
		b.fail("root type is not set")
	} else {
		root = b.resolve(def.Root)
	}

	b.seal()

	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	s := schema.NewBasicSchema(def.Name, root, b.factory.TypeUtil())
	if r := def.Documents; r != nil {
		s.WithExpectedDocuments(common.IntRange{Lower: r.Min, Upper: r.Max})
	}

	return s, nil
}

func (b *builder) fail(format string, args ...any) {
	b.errs = multierror.Append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) seal() {
	defer func() {
		if r := recover(); r != nil {
			b.fail("%v", r)
		}
	}()

	b.factory.Seal()
}

// resolve returns the type a reference denotes, building it on first use.
// It returns nil after recording an error.
func (b *builder) resolve(ref string) schema.Type {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		b.fail("missing type reference")
		return nil
	}

	if t, ok := b.types[ref]; ok {
		if y, isY := t.(*schema.YType); isY && y.IsBean() && !b.filled[ref] {
			b.fillBean(ref, y)
		}

		return t
	}

	if p, ok := builtins[ref]; ok {
		t := b.factory.Atomic(ref)
		if p != nil {
			t.ParseWith(p)
		}

		b.types[ref] = t

		return t
	}

	if ref == "any" {
		t := b.factory.Any("Object")
		b.types[ref] = t

		return t
	}

	if inner, ok := unwrap(ref, "list"); ok {
		return b.expression(ref, func() schema.Type {
			el := b.resolve(inner)
			if el == nil {
				return nil
			}

			return b.factory.Seq(el)
		})
	}

	if inner, ok := unwrap(ref, "map"); ok {
		return b.expression(ref, func() schema.Type {
			k, v, ok := splitPair(inner)
			if !ok {
				b.fail("type %q: map needs a key and a value type", ref)
				return nil
			}

			kt, vt := b.resolve(k), b.resolve(v)
			if kt == nil || vt == nil {
				return nil
			}

			return b.factory.Map(kt, vt)
		})
	}

	def, ok := b.def.Types.Get(ref)
	if !ok {
		b.fail("unknown type %q", ref)
		return nil
	}

	return b.expression(ref, func() schema.Type {
		return b.build(ref, def)
	})
}

// expression builds and caches a non-bean type, reporting reference cycles.
func (b *builder) expression(ref string, build func() schema.Type) schema.Type {
	if b.pending[ref] {
		b.fail("type %q refers to itself", ref)
		return nil
	}

	b.pending[ref] = true
	t := build()
	delete(b.pending, ref)

	if t != nil {
		b.types[ref] = t
	}

	return t
}

func (b *builder) build(name string, def TypeDef) schema.Type {
	switch def.Kind {
	case KindAtomic:
		return b.atomic(name, def)
	case KindSeq:
		if def.Of == "" {
			b.fail("type %q: seq needs 'of'", name)
			return nil
		}

		el := b.resolve(def.Of)
		if el == nil {
			return nil
		}

		return b.factory.Seq(el)
	case KindMap:
		key := def.Key
		if key == "" {
			key = "string"
		}

		kt, vt := b.resolve(key), b.resolve(def.Value)
		if kt == nil || vt == nil {
			return nil
		}

		return b.factory.Map(kt, vt)
	case KindEnum:
		return b.enum(name, def)
	case KindUnion:
		return b.union(name, def)
	case KindAny:
		return b.factory.Any(name)
	default:
		b.fail("type %q: unknown kind %q", name, def.Kind)
		return nil
	}
}

func (b *builder) atomic(name string, def TypeDef) schema.Type {
	t := b.factory.Atomic(name)

	parserName := def.Parser
	if parserName == "" {
		parserName = "string"
	}

	p, ok := builtins[parserName]
	if !ok {
		b.fail("type %q: unknown parser %q", name, parserName)
		return nil
	}

	if def.Min != nil || def.Max != nil {
		if parserName != "integer" && parserName != "positive-integer" {
			b.fail("type %q: min and max only apply to integer parsers", name)
			return nil
		}

		lo := def.Min
		if lo == nil && parserName == "positive-integer" {
			zero := 0
			lo = &zero
		}

		p = valueparse.IntegerRange(lo, def.Max)
	}

	if p != nil {
		t.ParseWith(p)
	}

	return t
}

func (b *builder) enum(name string, def TypeDef) schema.Type {
	if len(def.Values) == 0 {
		b.fail("type %q: enum needs values", name)
		return nil
	}

	if def.IgnoreCase {
		if len(def.DeprecatedValues) > 0 {
			b.fail("type %q: deprecated values can not be combined with ignore_case", name)
			return nil
		}

		return b.factory.Atomic(name).
			AddHints(def.Values...).
			ParseWith(valueparse.Enum(name, def.Values...).IgnoringCase())
	}

	eb := b.factory.EnumBuilder(name, def.Values...)

	for _, v := range slices.Sorted(maps.Keys(def.DeprecatedValues)) {
		if !slices.Contains(def.Values, v) {
			b.fail("type %q: deprecated value %q is not one of its values", name, v)
			continue
		}

		if r := def.DeprecatedValues[v]; r != "" {
			eb.DeprecateWithReplacement(v, r)
		} else {
			eb.Deprecate(v, fmt.Sprintf("The value '%s' is deprecated", v))
		}
	}

	return eb.Build()
}

func (b *builder) union(name string, def TypeDef) schema.Type {
	if len(def.Members) < 2 {
		b.fail("type %q: union needs at least two members", name)
		return nil
	}

	members := make([]*schema.YType, 0, len(def.Members))

	for _, m := range def.Members {
		t, ok := b.resolve(m).(*schema.YType)
		if !ok || t == nil {
			return nil
		}

		if !t.IsBean() {
			b.fail("type %q: union member %q is not a bean", name, m)
			return nil
		}

		members = append(members, t)
	}

	return b.factory.Union(name, members...)
}

func (b *builder) fillBean(name string, t *schema.YType) {
	b.filled[name] = true

	def, _ := b.def.Types.Get(name)

	for _, pd := range def.Properties {
		pt := b.resolve(pd.Type)
		if pt == nil {
			continue
		}

		p := schema.Prop(pd.Name, pt).Describe(pd.Description)
		if pd.Required {
			p.AsRequired()
		}

		if pd.Deprecated.Deprecated || pd.Replacement != "" {
			p.Deprecate(pd.Deprecated.Message)
			p.DeprecationReplacement = pd.Replacement
		}

		t.AddProperty(p)
	}

	for _, group := range def.OneOf {
		if b.checkNames(name, def, group) {
			t.RequireOneOf(group...)
		}
	}

	for _, group := range def.AtMostOneOf {
		if b.checkNames(name, def, group) {
			t.Require(schema.RequireAtMostOneOf(group...))
		}
	}
}

func (b *builder) checkNames(typeName string, def TypeDef, names []string) bool {
	ok := true

	for _, n := range names {
		if !slices.ContainsFunc(def.Properties, func(p PropertyDef) bool { return p.Name == n }) {
			b.fail("type %q: constraint refers to unknown property %q", typeName, n)
			ok = false
		}
	}

	return ok
}

// unwrap returns the argument of a generic expression such as list<T>.
func unwrap(ref, name string) (string, bool) {
	if !strings.HasPrefix(ref, name+"<") || !strings.HasSuffix(ref, ">") {
		return "", false
	}

	return ref[len(name)+1 : len(ref)-1], true
}

// splitPair splits "K, V" at the top-level comma.
func splitPair(s string) (string, string, bool) {
	depth := 0

	for i, c := range s {
		switch c {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}

	return "", "", false
}
