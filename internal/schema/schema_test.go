package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/valueparse"
	"yaml-reconciler/internal/yamlast"
)

func parseDoc(t *testing.T, src string) (*yamlast.File, yamlast.Node) {
	t.Helper()

	f, err := yamlast.ParseString(src)
	require.NoError(t, err)
	require.NotEmpty(t, f.Documents)

	return f, f.Documents[0]
}

func TestFactory_Shapes(t *testing.T) {
	f := NewFactory()
	util := f.TypeUtil()

	str := f.Atomic("String").ParseWith(valueparse.NonBlankString)
	person := f.Bean("Person", Prop("name", str))
	people := f.Seq(person)
	labels := f.Map(str, str)
	anything := f.Any("Object")

	tests := []struct {
		name   string
		t      Type
		atomic bool
		bean   bool
		isMap  bool
		seq    bool
		nice   string
	}{
		{"atomic", str, true, false, false, false, "String"},
		{"bean", person, false, true, false, false, "Person"},
		{"seq", people, false, false, false, true, "Person[]"},
		{"map", labels, false, false, true, false, "Map<String, String>"},
		{"any", anything, true, false, true, true, "Object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.atomic, util.IsAtomic(tt.t))
			assert.Equal(t, tt.bean, util.IsBean(tt.t))
			assert.Equal(t, tt.isMap, util.IsMap(tt.t))
			assert.Equal(t, tt.seq, util.IsSequenceable(tt.t))
			assert.Equal(t, tt.nice, util.NiceTypeName(tt.t))
		})
	}

	assert.Equal(t, person, util.DomainType(people))
	assert.Equal(t, str, util.KeyType(labels))
	assert.Equal(t, str, util.DomainType(labels))
	assert.NotNil(t, util.ValueParser(str, nil))
	assert.False(t, util.IsContextAwareParser(str))
}

func TestTypeUtil_AbsentData(t *testing.T) {
	util := NewFactory().TypeUtil()

	assert.False(t, util.IsAtomic(nil))
	assert.Nil(t, util.PropertiesMap(nil))
	assert.Nil(t, util.KeyType(nil))
	assert.Nil(t, util.DomainType(nil))
	assert.Nil(t, util.ValueParser(nil, nil))
	assert.Empty(t, util.Constraints(nil))
	assert.Empty(t, util.NiceTypeName(nil))
	assert.Nil(t, util.InferMoreSpecificType(nil, nil))
	assert.Empty(t, util.HintValues(nil, nil))
	assert.Equal(t, 0, util.PropertiesMap(nil).Len())
}

func TestPropertyMap_Order(t *testing.T) {
	f := NewFactory()
	str := f.Atomic("String")

	bean := f.Bean("B", Prop("z", str), Prop("a", str).AsRequired())
	bean.AddProperty(Prop("m", str).Deprecate("gone"))

	props := f.TypeUtil().PropertiesMap(bean)
	assert.Equal(t, []string{"z", "a", "m"}, props.Names())

	a, ok := props.Get("a")
	require.True(t, ok)
	assert.True(t, a.Required)

	m, _ := props.Get("m")
	assert.True(t, m.Deprecated)
	assert.Equal(t, "gone", m.DeprecationMessage)
	assert.Equal(t, "m:String", m.String())
}

func TestSeal_PanicsOnMutation(t *testing.T) {
	f := NewFactory()
	bean := f.Bean("B")
	f.Seal()

	assert.True(t, bean.Sealed())
	assert.Panics(t, func() {
		bean.AddProperty(Prop("x", f.Atomic("String")))
	})
}

func TestUnion_InfersMember(t *testing.T) {
	f := NewFactory()
	str := f.Atomic("String")

	git := f.Bean("GitResource", Prop("uri", str), Prop("branch", str))
	docker := f.Bean("DockerResource", Prop("repository", str), Prop("tag", str))
	resource := f.Union("Resource", git, docker)
	f.Seal()

	util := f.TypeUtil()

	file, node := parseDoc(t, "repository: busybox\ntag: latest\n")
	dc := NewASTContext(file, yamlast.Path{yamlast.IndexSegment(0)}, node)
	assert.Equal(t, docker, util.InferMoreSpecificType(resource, dc))

	file, node = parseDoc(t, "other: x\n")
	dc = NewASTContext(file, yamlast.Path{yamlast.IndexSegment(0)}, node)
	assert.Equal(t, resource, util.InferMoreSpecificType(resource, dc))

	assert.Equal(t, []string{"uri", "repository"}, util.PropertiesMap(resource).Names())
}

func TestUnion_NoUniqueProperty(t *testing.T) {
	f := NewFactory()
	str := f.Atomic("String")

	a := f.Bean("A", Prop("name", str))
	b := f.Bean("B", Prop("name", str))

	assert.Panics(t, func() {
		f.Union("AB", a, b).Seal()
	})
	assert.Panics(t, func() {
		f.Union("Single", a)
	})
}

func TestContextAware_Infers(t *testing.T) {
	f := NewFactory()
	str := f.Atomic("String")
	num := f.Atomic("Integer")

	byKind := f.ContextAware("Value", func(dc DynamicContext) Type {
		if _, ok := yamlast.AsScalar(dc.Node()); ok {
			return str
		}

		return nil
	})

	util := f.TypeUtil()
	assert.True(t, util.IsAtomic(byKind))
	assert.True(t, util.IsBean(byKind))

	file, node := parseDoc(t, "hello")
	assert.Equal(t, str, util.InferMoreSpecificType(byKind, NewASTContext(file, nil, node)))

	file, node = parseDoc(t, "a: 1")
	assert.Equal(t, byKind, util.InferMoreSpecificType(byKind, NewASTContext(file, nil, node)))
	assert.Equal(t, byKind, util.InferMoreSpecificType(byKind, nil))

	narrowed := f.ContextAware("Narrow", func(DynamicContext) Type { return num }).TreatAsAtomic()
	assert.True(t, util.IsAtomic(narrowed))
	assert.False(t, util.IsBean(narrowed))
}

func TestEnumBuilder_DeprecatedValues(t *testing.T) {
	f := NewFactory()
	color := f.EnumBuilder("Color", "red", "green", "grey").
		DeprecateWithReplacement("grey", "gray").
		Build()

	util := f.TypeUtil()
	assert.Equal(t, []string{"red", "green"}, util.HintValues(color, nil))

	parser := util.ValueParser(color, nil)
	require.NotNil(t, parser)

	_, err := parser.Parse("red")
	require.NoError(t, err)

	_, err = parser.Parse("grey")
	require.Error(t, err)
	assert.Equal(t, "The value 'grey' is deprecated in favor of 'gray'", valueparse.MessageOf(err))
	assert.Equal(t, diagnostic.DeprecatedValue, valueparse.ProblemTypeOf(err))

	fix := valueparse.ReplacementOf(err)
	require.NotNil(t, fix)
	assert.Equal(t, "gray", fix.Text)
	assert.Equal(t, "Replace deprecated value 'grey' by 'gray'", fix.Message)

	_, err = parser.Parse("blue")
	require.Error(t, err)
	assert.Equal(t, diagnostic.SchemaProblem, valueparse.ProblemTypeOf(err))

	assert.Panics(t, func() {
		f.EnumBuilder("Color", "red").Deprecate("blue", "nope")
	})
}

func TestEnumFromHints(t *testing.T) {
	f := NewFactory()
	profile := f.EnumFromHints("Profile", func(DynamicContext) []string {
		return []string{"dev", "prod"}
	})

	util := f.TypeUtil()
	assert.True(t, util.IsContextAwareParser(profile))
	assert.Equal(t, []string{"dev", "prod"}, util.HintValues(profile, nil))

	_, err := util.ValueParser(profile, nil).Parse("test")
	assert.Error(t, err)
}

func TestHints_Dedup(t *testing.T) {
	f := NewFactory()
	a := f.Atomic("A").AddHints("x", "y", "x")
	a.AddHintProvider(func(DynamicContext) []string { return []string{"y", "z"} })

	assert.Equal(t, []string{"x", "y", "z"}, f.TypeUtil().HintValues(a, nil))
}

func TestNamedAndAllowScalar(t *testing.T) {
	f := NewFactory()
	util := f.TypeUtil()

	str := f.Atomic("String")
	list := f.Seq(str).Named("List<String>").AllowScalar(valueparse.Delimited(valueparse.NonBlankString))

	assert.Equal(t, "List<String>", util.NiceTypeName(list))
	assert.True(t, util.IsAtomic(list))
	assert.True(t, util.IsSequenceable(list))
	assert.Equal(t, str, util.DomainType(list))
	assert.NotNil(t, util.ValueParser(list, nil))
}

func TestConstraints(t *testing.T) {
	f := NewFactory()
	str := f.Atomic("String")
	bean := f.Bean("Job", Prop("get", str), Prop("put", str), Prop("task", str))

	tests := []struct {
		name       string
		constraint Constraint
		src        string
		want       []string
		wantType   diagnostic.ProblemType
	}{
		{
			name:       "require one of satisfied",
			constraint: RequireOneOf("get", "put"),
			src:        "put: x\n",
		},
		{
			name:       "require one of missing",
			constraint: RequireOneOf("get", "put"),
			src:        "task: x\n",
			want:       []string{"One of [get, put] is required for 'Job'"},
			wantType:   diagnostic.MissingProperty,
		},
		{
			name:       "at most one of",
			constraint: RequireAtMostOneOf("get", "put"),
			src:        "get: a\nput: b\n",
			want: []string{
				"Only one of [get, put] should be defined for 'Job'",
				"Only one of [get, put] should be defined for 'Job'",
			},
			wantType: diagnostic.ConstraintViolation,
		},
		{
			name:       "mutually exclusive",
			constraint: MutuallyExclusive([]string{"get"}, []string{"task"}),
			src:        "get: a\ntask: b\nput: c\n",
			want: []string{
				"Property 'get' cannot be used together with [task]",
				"Property 'task' cannot be used together with [get]",
			},
			wantType: diagnostic.ConstraintViolation,
		},
		{
			name: "deprecated properties",
			constraint: DeprecatedProperties(func(name string, t Type) string {
				return DeprecatedPropertyMessage(name, t.String(), "", "")
			}, "task"),
			src:      "task: b\n",
			want:     []string{"Property 'task' of type 'Job' is Deprecated!"},
			wantType: diagnostic.DeprecatedProperty,
		},
		{
			name: "context aware",
			constraint: ContextAware(func(dc DynamicContext) Constraint {
				if len(dc.DefinedProperties()) > 1 {
					return RequireAtMostOneOf("get", "put")
				}

				return nil
			}),
			src: "get: a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, node := parseDoc(t, tt.src)
			problems := diagnostic.NewProblemList()

			dc := NewASTContext(file, yamlast.Path{yamlast.IndexSegment(0)}, node)
			tt.constraint.Verify(dc, nil, node, bean, problems)

			var got []string
			for _, p := range problems.Problems() {
				got = append(got, p.Message)
				assert.Equal(t, tt.wantType, p.Type)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingPropertyRegion(t *testing.T) {
	file, root := parseDoc(t, "job:\n  task: x\n")
	m := yamlast.AsMapping(root)
	child := m.Entries[0].Value

	start, end := MissingPropertyRegion(root, child)
	assert.Equal(t, "job", file.Source[start:end])

	start, end = MissingPropertyRegion(nil, root)
	assert.Equal(t, "job", file.Source[start:end])
}

func TestDeprecatedPropertyMessage(t *testing.T) {
	tests := []struct {
		name, ctx, replace, reason string
		want                       string
	}{
		{"a.b", "", "", "", "Property 'a.b' is Deprecated!"},
		{"a.b", "Foo", "", "", "Property 'a.b' of type 'Foo' is Deprecated!"},
		{"a.b", "", "c.d", "", "Property 'a.b' is Deprecated: Use 'c.d' instead."},
		{"a.b", "", "", "too old", "Property 'a.b' is Deprecated: too old"},
		{"a.b", "Foo", "c.d", "too old", "Property 'a.b' of type 'Foo' is Deprecated: Use 'c.d' instead. Reason: too old"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DeprecatedPropertyMessage(tt.name, tt.ctx, tt.replace, tt.reason))
		})
	}
}

func TestBasicSchema(t *testing.T) {
	f := NewFactory()
	top := f.Bean("Root")

	s := NewBasicSchema("root-schema", top, f.TypeUtil())
	assert.Equal(t, "root-schema", s.Name())
	assert.Equal(t, top, s.TopLevelType())
	assert.True(t, s.ExpectedDocuments().Contains(3))
	assert.False(t, s.ExpectedDocuments().Contains(0))
}
