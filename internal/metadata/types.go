package metadata

import (
	"fmt"
	"strings"

	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
	"yaml-reconciler/internal/yamlast"
)

const (
	objectType   = "java.lang.Object"
	stringType   = "java.lang.String"
	durationType = "java.time.Duration"
)

// primitiveNames are the nice names of boxed Java types.
var primitiveNames = map[string]string{
	"java.lang.Boolean":   "boolean",
	"java.lang.Byte":      "byte",
	"java.lang.Short":     "short",
	"java.lang.Integer":   "int",
	"java.lang.Long":      "long",
	"java.lang.Double":    "double",
	"java.lang.Float":     "float",
	"java.lang.Character": "char",
}

var valueParsers = map[string]valueparse.Parser{
	"java.lang.Boolean":   valueparse.Boolean,
	"java.lang.Byte":      valueparse.RadixInteger(8),
	"java.lang.Short":     valueparse.RadixInteger(16),
	"java.lang.Integer":   valueparse.RadixInteger(32),
	"java.lang.Long":      valueparse.RadixInteger(64),
	"java.lang.Double":    valueparse.Float,
	"java.lang.Float":     valueparse.Float,
	"java.lang.Character": charParser,
	durationType:          valueparse.Duration,
}

// atomicTypes are scalar types without a value parser.
var atomicTypes = setOf(
	stringType,
	"java.net.InetAddress",
	"java.lang.Class",
	"java.nio.charset.Charset",
	"java.util.Locale",
	"org.springframework.core.io.Resource",
	"org.springframework.util.unit.DataSize",
)

var sequenceTypes = setOf("java.util.List", "java.util.Set", "java.util.Collection")

var mapTypes = setOf(
	"java.util.Map",
	"java.util.HashMap",
	"java.util.LinkedHashMap",
	"java.util.TreeMap",
	"java.util.SortedMap",
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}

	return m
}

var charParser = valueparse.ParserFunc(func(text string) (any, error) {
	if r := []rune(text); len(r) == 1 {
		return r[0], nil
	}

	return nil, valueparse.ErrorAt(fmt.Sprintf("'%s' is not a valid 'char'", text), text, 0, len(text))
})

// javaType is a parsed Java type expression such as java.util.Map<K,V>.
type javaType struct {
	erasure string
	params  []*javaType
}

// parseJavaType parses a type string. Arrays are kept in the erasure ("X[]").
func parseJavaType(s string) *javaType {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lt := strings.IndexByte(s, '<')
	if lt < 0 || !strings.HasSuffix(s, ">") {
		return &javaType{erasure: s}
	}

	t := &javaType{erasure: s[:lt]}

	depth, start := 0, lt+1
	inner := s[:len(s)-1]

	for i := lt + 1; i < len(inner); i++ {
		switch inner[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				t.params = append(t.params, parseJavaType(inner[start:i]))
				start = i + 1
			}
		}
	}

	t.params = append(t.params, parseJavaType(inner[start:]))

	return t
}

func (t *javaType) param(i int) *javaType {
	if t == nil || i >= len(t.params) {
		return nil
	}

	return t.params[i]
}

func (t *javaType) isArray() bool {
	return strings.HasSuffix(t.erasure, "[]")
}

func (t *javaType) isSequence() bool {
	return t.isArray() || sequenceTypes[t.erasure]
}

// domain returns the element type of a sequence or the value type of a map.
func (t *javaType) domain() *javaType {
	if t.isArray() {
		return &javaType{erasure: strings.TrimSuffix(t.erasure, "[]")}
	}

	if mapTypes[t.erasure] {
		return t.param(1)
	}

	return t.param(0)
}

// NiceTypeName renders a Java type the way problem messages show it:
// "int" for java.lang.Integer, "List<String>" for java.util.List<java.lang.String>.
func NiceTypeName(javaTypeName string) string {
	var sb strings.Builder
	niceName(parseJavaType(javaTypeName), nil, &sb)

	return sb.String()
}

func niceName(t *javaType, enumValues []string, sb *strings.Builder) {
	if t == nil {
		sb.WriteString("null")
		return
	}

	switch name := t.erasure; {
	case primitiveNames[name] != "":
		sb.WriteString(primitiveNames[name])
	case strings.HasPrefix(name, "java.lang."):
		sb.WriteString(strings.TrimPrefix(name, "java.lang."))
	case strings.HasPrefix(name, "java.util."):
		sb.WriteString(strings.TrimPrefix(name, "java.util."))
	default:
		sb.WriteString(name)
	}

	if len(enumValues) > 0 {
		shown := enumValues[:min(4, len(enumValues))]
		sb.WriteString("[" + strings.Join(shown, ", "))

		if len(shown) < len(enumValues) {
			sb.WriteString(", ...")
		}

		sb.WriteString("]")

		return
	}

	if len(t.params) > 0 {
		sb.WriteString("<")

		for i, p := range t.params {
			if i > 0 {
				sb.WriteString(", ")
			}

			niceName(p, nil, sb)
		}

		sb.WriteString(">")
	}
}

// TypeResolver converts Java type strings into schema types. Types are cached
// by their type string.
type TypeResolver struct {
	factory *schema.Factory
	cache   map[string]schema.Type
	plain   map[schema.Type]schema.Type
}

// NewTypeResolver creates a resolver with its own type factory.
func NewTypeResolver() *TypeResolver {
	return &TypeResolver{
		factory: schema.NewFactory(),
		cache:   make(map[string]schema.Type),
		plain:   make(map[schema.Type]schema.Type),
	}
}

// TypeUtil returns the query interface for resolved types.
func (r *TypeResolver) TypeUtil() schema.TypeUtil {
	return r.factory.TypeUtil()
}

// Resolve returns the schema type for a Java type string. Unknown classes
// resolve to a type accepting any value, as their properties are not known.
func (r *TypeResolver) Resolve(javaTypeName string) schema.Type {
	t := parseJavaType(javaTypeName)
	if t == nil {
		return nil
	}

	return r.resolve(t, javaTypeName)
}

// ResolveProperty resolves the type of p. A property with value hints and a
// type without a parser of its own becomes an enum of the hinted values.
func (r *TypeResolver) ResolveProperty(p *PropertyInfo) schema.Type {
	if len(p.Hints) == 0 {
		return r.Resolve(p.Type)
	}

	t := parseJavaType(p.Type)
	if t != nil && (valueParsers[t.erasure] != nil || t.erasure == stringType || t.isSequence() || mapTypes[t.erasure]) {
		return r.Resolve(p.Type)
	}

	key := p.Type + "#" + p.ID
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	values := p.HintValues()

	var sb strings.Builder
	niceName(t, values, &sb)

	if t == nil {
		sb.Reset()
		sb.WriteString("String")
	}

	enum := r.factory.Atomic(sb.String()).
		AddHints(values...).
		ParseWith(valueparse.Enum(sb.String(), values...).IgnoringCase())
	enum.Seal()
	r.cache[key] = enum

	return enum
}

// Plain returns the value type behind a map value type that also accepts
// nested mappings, and t itself otherwise.
func (r *TypeResolver) Plain(t schema.Type) schema.Type {
	if p, ok := r.plain[t]; ok {
		return p
	}

	return t
}

func (r *TypeResolver) resolve(t *javaType, key string) schema.Type {
	if key == "" {
		key = typeString(t)
	}

	if cached, ok := r.cache[key]; ok {
		return cached
	}

	var sb strings.Builder
	niceName(t, nil, &sb)
	nice := sb.String()

	var result *schema.YType

	switch {
	case t.erasure == objectType:
		result = r.factory.Any(nice)
	case valueParsers[t.erasure] != nil:
		result = r.factory.Atomic(nice).ParseWith(valueParsers[t.erasure])
		if t.erasure == "java.lang.Boolean" {
			result.AddHints("true", "false")
		}
	case atomicTypes[t.erasure]:
		result = r.factory.Atomic(nice)
	case t.isSequence():
		el := r.resolveOrString(t.domain())
		result = r.factory.Seq(el).Named(nice)

		if p := r.TypeUtil().ValueParser(el, nil); p != nil {
			result.AllowScalar(valueparse.Delimited(p))
		} else if r.TypeUtil().IsAtomic(el) {
			result.AllowScalar(valueparse.Delimited(valueparse.ParserFunc(func(s string) (any, error) { return s, nil })))
		}
	case mapTypes[t.erasure] || t.erasure == "java.util.Properties":
		result = r.mapType(t, nice)
	default:
		result = r.factory.Any(nice)
	}

	result.Seal()
	r.cache[key] = result

	return result
}

func (r *TypeResolver) resolveOrString(t *javaType) schema.Type {
	if t == nil {
		return r.resolve(&javaType{erasure: stringType}, "")
	}

	return r.resolve(t, "")
}

// mapType builds a map type. When the key is a String and the value atomic,
// a nested mapping is also accepted as a value: keys may be written either
// dotted ("logging.level.org.springframework: debug") or nested.
func (r *TypeResolver) mapType(t *javaType, nice string) *schema.YType {
	keyT, valueT := t.param(0), t.param(1)
	if t.erasure == "java.util.Properties" {
		keyT, valueT = &javaType{erasure: stringType}, &javaType{erasure: stringType}
	}

	key := r.resolveOrString(keyT)
	value := r.resolveOrString(valueT)
	util := r.TypeUtil()

	m := r.factory.Map(key, value).Named(nice)
	m.ParseWith(valueparse.AlwaysFail(nice))

	if keyT != nil && keyT.erasure == stringType && util.IsAtomic(value) && !util.IsMap(value) {
		nested := r.factory.ContextAware(util.NiceTypeName(value), func(dc schema.DynamicContext) schema.Type {
			if dc != nil && dc.Node() != nil && dc.Node().Kind() == yamlast.Mapping {
				return m
			}

			return value
		})

		r.plain[nested] = value

		m = r.factory.Map(key, nested).Named(nice)
		m.ParseWith(valueparse.AlwaysFail(nice))
	}

	return m
}

func typeString(t *javaType) string {
	if t == nil {
		return ""
	}

	if len(t.params) == 0 {
		return t.erasure
	}

	params := make([]string, 0, len(t.params))
	for _, p := range t.params {
		params = append(params, typeString(p))
	}

	return t.erasure + "<" + strings.Join(params, ",") + ">"
}
