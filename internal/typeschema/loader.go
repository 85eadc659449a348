package typeschema

import (
	"cmp"
	"errors"
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"

	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages and converts their structs into schema types.
type Loader struct {
	// Dir is the directory package patterns are resolved in; empty means the
	// current directory.
	Dir string

	factory *schema.Factory
	pkgs    map[string]*types.Package
	cache   map[types.Type]schema.Type // handles recursive types
	errs    *multierror.Error
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{
		factory: schema.NewFactory(),
		pkgs:    make(map[string]*types.Package),
		cache:   make(map[types.Type]schema.Type),
	}
}

// Load loads the specified packages. Patterns are standard Go package
// patterns (e.g., "./config", "example.com/app/config").
func (l *Loader) Load(patterns ...string) error {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	var result *multierror.Error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			result = multierror.Append(result, e)
		}

		if pkg.Types != nil {
			l.pkgs[pkg.PkgPath] = pkg.Types
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("package errors: %w", err)
	}

	return nil
}

// Schema builds a schema whose top level type is the named struct. pkgPath may
// be a full import path or a path suffix such as "config".
func (l *Loader) Schema(pkgPath, typeName string) (*schema.BasicSchema, error) {
	pkg := l.lookupPackage(pkgPath)
	if pkg == nil {
		return nil, fmt.Errorf("package %s not loaded", pkgPath)
	}

	tn, ok := pkg.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("type %s.%s not found", pkg.Path(), typeName)
	}

	if _, ok := tn.Type().Underlying().(*types.Struct); !ok {
		return nil, fmt.Errorf("type %s.%s is not a struct", pkg.Path(), typeName)
	}

	l.errs = nil
	top := l.convert(tn.Type(), typeName)

	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	l.factory.Seal()

	return schema.NewBasicSchema(typeName, top, l.factory.TypeUtil()), nil
}

func (l *Loader) lookupPackage(path string) *types.Package {
	if p, ok := l.pkgs[path]; ok {
		return p
	}

	for p, pkg := range l.pkgs {
		if strings.HasSuffix(p, "/"+path) {
			return pkg
		}
	}

	return nil
}

func (l *Loader) fail(where string, err error) {
	l.errs = multierror.Append(l.errs, fmt.Errorf("%s: %w", where, err))
}

var errUnsupported = errors.New("unsupported type")

// convert recursively converts a go/types.Type. where names the field being
// converted for error messages.
func (l *Loader) convert(t types.Type, where string) schema.Type {
	if cached, ok := l.cache[t]; ok {
		return cached
	}

	switch tt := t.(type) {
	case *types.Named:
		return l.convertNamed(tt, where)
	case *types.Alias:
		return l.convert(types.Unalias(tt), where)
	case *types.Pointer:
		return l.convert(tt.Elem(), where)
	case *types.Basic:
		return l.remember(t, l.basic(tt.Kind(), basicName(tt)))
	case *types.Slice:
		if b, ok := tt.Elem().(*types.Basic); ok && b.Kind() == types.Byte {
			return l.remember(t, l.factory.Atomic("String"))
		}

		return l.sequence(t, tt.Elem(), where)
	case *types.Array:
		return l.sequence(t, tt.Elem(), where)
	case *types.Map:
		k, v := l.convert(tt.Key(), where), l.convert(tt.Elem(), where)
		if k == nil || v == nil {
			return nil
		}

		return l.remember(t, l.factory.Map(k, v))
	case *types.Interface:
		return l.remember(t, l.factory.Any("Object"))
	default:
		l.fail(where, fmt.Errorf("%w %s", errUnsupported, t))
		return nil
	}
}

func (l *Loader) remember(t types.Type, st schema.Type) schema.Type {
	l.cache[t] = st
	return st
}

func (l *Loader) sequence(t, elem types.Type, where string) schema.Type {
	el := l.convert(elem, where)
	if el == nil {
		return nil
	}

	return l.remember(t, l.factory.Seq(el))
}

func (l *Loader) convertNamed(named *types.Named, where string) schema.Type {
	obj := named.Obj()

	if pkg := obj.Pkg(); pkg != nil && pkg.Path() == "time" {
		switch obj.Name() {
		case "Duration":
			return l.remember(named, l.factory.Atomic("Duration").ParseWith(valueparse.Duration))
		case "Time":
			return l.remember(named, l.factory.Atomic("Time").ParseWith(timeParser))
		}
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		bean := l.factory.Bean(obj.Name())
		// pre-cache so that recursive fields resolve to the bean being filled
		l.cache[named] = bean
		l.fillBean(bean, ut, obj.Name())

		return bean
	case *types.Basic:
		if values := enumValues(named); len(values) > 0 {
			return l.remember(named, l.factory.Enum(obj.Name(), values...))
		}

		return l.remember(named, l.basic(ut.Kind(), obj.Name()))
	default:
		return l.remember(named, l.convert(ut, where))
	}
}

func (l *Loader) fillBean(bean *schema.YType, st *types.Struct, where string) {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i))

		name, inline, skip := yamlName(field.Name(), tag)
		if skip {
			continue
		}

		if field.Embedded() || inline {
			if s, ok := derefStruct(field.Type()); ok {
				l.fillBean(bean, s, where)
				continue
			}
		}

		ft := l.convert(field.Type(), where+"."+field.Name())
		if ft == nil {
			continue
		}

		p := schema.Prop(name, ft)

		if isRequired(tag) {
			p.AsRequired()
		}

		if msg, ok := tag.Lookup("deprecated"); ok {
			if msg == "true" {
				msg = ""
			}

			p.Deprecate(msg)
		}

		if r := tag.Get("replacement"); r != "" {
			p.ReplacedBy(r)
		}

		bean.AddProperty(p)
	}
}

// basic returns an atomic type for a basic kind, named name.
func (l *Loader) basic(kind types.BasicKind, name string) schema.Type {
	t := l.factory.Atomic(name)

	switch {
	case kind == types.Bool || kind == types.UntypedBool:
		t.ParseWith(valueparse.Boolean)
	case kind >= types.Int && kind <= types.Int64:
		t.ParseWith(valueparse.Integer)
	case kind >= types.Uint && kind <= types.Uintptr:
		t.ParseWith(valueparse.PositiveInteger)
	case kind == types.Float32 || kind == types.Float64:
		t.ParseWith(valueparse.Float)
	}

	return t
}

var timeParser = valueparse.Of("Time", func(text string) (any, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(text))
})

func basicName(b *types.Basic) string {
	switch k := b.Kind(); {
	case k == types.String:
		return "String"
	case k == types.Bool:
		return "Boolean"
	case k >= types.Int && k <= types.Int64, k >= types.Uint && k <= types.Uintptr:
		return "Integer"
	case k == types.Float32 || k == types.Float64:
		return "Float"
	default:
		return b.Name()
	}
}

// enumValues returns the values of the constants declared with type named in
// its own package, in declaration order.
func enumValues(named *types.Named) []string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}

	scope := obj.Pkg().Scope()

	type decl struct {
		pos   int
		value string
	}

	var decls []decl

	for _, n := range scope.Names() {
		c, ok := scope.Lookup(n).(*types.Const)
		if !ok || !types.Identical(c.Type(), named) {
			continue
		}

		v := c.Val()
		if v.Kind() == constant.String {
			decls = append(decls, decl{pos: int(c.Pos()), value: constant.StringVal(v)})
		} else {
			decls = append(decls, decl{pos: int(c.Pos()), value: v.ExactString()})
		}
	}

	slices.SortFunc(decls, func(a, b decl) int { return cmp.Compare(a.pos, b.pos) })

	values := make([]string, 0, len(decls))
	for _, d := range decls {
		values = append(values, d.value)
	}

	return values
}

func derefStruct(t types.Type) (*types.Struct, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	s, ok := t.Underlying().(*types.Struct)

	return s, ok
}
