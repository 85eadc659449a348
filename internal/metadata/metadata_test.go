package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/valueparse"
	"yaml-reconciler/internal/yamlast"
)

const bootMetadata = `{
  "properties": [
    {"name": "server.port", "type": "java.lang.Integer", "defaultValue": 8080},
    {"name": "server.address", "type": "java.net.InetAddress"},
    {"name": "spring.application.name", "type": "java.lang.String", "description": "Application name."},
    {"name": "logging.level", "type": "java.util.Map<java.lang.String,java.lang.String>"},
    {"name": "spring.profiles.active", "type": "java.util.List<java.lang.String>"},
    {"name": "server.context-path", "type": "java.lang.String",
     "deprecation": {"replacement": "server.servlet.context-path", "reason": "moved"}},
    {"name": "server.servlet.context-path", "type": "java.lang.String"},
    {"name": "spring.main.web-application-type", "type": "java.lang.String"},
    {"name": "flyway.enabled", "type": "java.lang.Boolean", "deprecated": true},
    {"name": "legacy.mode", "type": "java.lang.String",
     "deprecation": {"level": "error"}}
  ],
  "hints": [
    {"name": "spring.main.web-application-type", "values": [
      {"value": "none"}, {"value": "servlet"}, {"value": "reactive", "description": "Reactive web."}
    ]}
  ]
}`

func bootIndex(t *testing.T) *Index {
	t.Helper()

	props, err := Parse([]byte(bootMetadata))
	require.NoError(t, err)

	return NewIndex(props...)
}

func TestParse(t *testing.T) {
	props, err := Parse([]byte(bootMetadata))
	require.NoError(t, err)
	require.Len(t, props, 10)

	ix := NewIndex(props...)

	port, ok := ix.Find("server.port")
	require.True(t, ok)
	assert.Equal(t, "java.lang.Integer", port.Type)
	assert.EqualValues(t, 8080, port.DefaultValue)
	assert.False(t, port.IsDeprecated())

	name, ok := ix.Find("spring.application.name")
	require.True(t, ok)
	assert.Equal(t, "Application name.", name.Description)

	cp, ok := ix.Find("server.context-path")
	require.True(t, ok)
	require.True(t, cp.IsDeprecated())
	assert.Equal(t, LevelWarning, cp.Deprecation.Level)
	assert.Equal(t, "server.servlet.context-path", cp.DeprecationReplacement())
	assert.Equal(t, "moved", cp.DeprecationReason())

	flyway, ok := ix.Find("flyway.enabled")
	require.True(t, ok)
	assert.True(t, flyway.IsDeprecated())
	assert.Empty(t, flyway.DeprecationReplacement())

	legacy, ok := ix.Find("legacy.mode")
	require.True(t, ok)
	assert.Equal(t, LevelError, legacy.Deprecation.Level)

	web, ok := ix.Find("spring.main.web-application-type")
	require.True(t, ok)
	assert.Equal(t, []string{"none", "servlet", "reactive"}, web.HintValues())
	assert.Equal(t, "Reactive web.", web.Hints[2].Description)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"properties": [`))
	require.ErrorIs(t, err, ErrInvalidJSON)

	props, err := Parse([]byte(`{"properties": [{"type": "java.lang.String"}]}`))
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	broken := filepath.Join(dir, "broken.json")

	require.NoError(t, os.WriteFile(first, []byte(`{"properties": [{"name": "a.b", "type": "java.lang.String"}]}`), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`{"properties": [{"name": "a.b", "type": "java.lang.Integer"}]}`), 0o600))
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))

	ix, err := LoadFiles(first, second)
	require.NoError(t, err)
	require.Equal(t, 1, ix.Len())

	p, ok := ix.Find("a.b")
	require.True(t, ok)
	assert.Equal(t, "java.lang.Integer", p.Type)

	ix, err = LoadFiles(first, broken, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse metadata file")
	assert.Contains(t, err.Error(), "failed to read metadata file")
	assert.Equal(t, 1, ix.Len())
}

func TestIndex_FindLongestValidProperty(t *testing.T) {
	ix := bootIndex(t)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "exact", key: "server.port", want: "server.port"},
		{name: "map key", key: "logging.level.org.springframework", want: "logging.level"},
		{name: "list index", key: "spring.profiles.active[0]", want: "spring.profiles.active"},
		{name: "camel case", key: "server.contextPath", want: "server.contextPath"},
		{name: "unknown", key: "server.bogus", want: ""},
		{name: "empty", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ix.FindLongestValidProperty(tt.key)
			if tt.want == "" {
				assert.Nil(t, p)
				return
			}

			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.ID)
		})
	}

	// the relaxed lookup keeps the metadata of the canonical property
	p := ix.FindLongestValidProperty("server.contextPath")
	require.NotNil(t, p)
	assert.True(t, p.IsDeprecated())
}

func TestIndex_FindLongestCommonPrefixEntry(t *testing.T) {
	ix := bootIndex(t)

	assert.Equal(t, "server.port", ix.FindLongestCommonPrefixEntry("server.port").ID)
	assert.Equal(t, "server.port", ix.FindLongestCommonPrefixEntry("server.pork").ID)
	assert.Nil(t, NewIndex().FindLongestCommonPrefixEntry("server.port"))
}

func TestIndex_Add(t *testing.T) {
	ix := NewIndex(&PropertyInfo{ID: "b"}, &PropertyInfo{ID: "a"})
	ix.Add(&PropertyInfo{ID: "b", Type: "java.lang.Integer"}, &PropertyInfo{ID: "c"})

	assert.Equal(t, []string{"a", "b", "c"}, ix.IDs())

	b, _ := ix.Find("b")
	assert.Equal(t, "java.lang.Integer", b.Type)

	var nilIndex *Index
	assert.True(t, nilIndex.IsEmpty())
	assert.False(t, ix.IsEmpty())
}

func TestIndex_Prefix(t *testing.T) {
	ix := bootIndex(t)

	assert.True(t, ix.HasPrefix("server"))
	assert.True(t, ix.HasPrefix("server.servlet"))
	assert.False(t, ix.HasPrefix("server.port"))
	assert.False(t, ix.HasPrefix("serv"))
	assert.Len(t, ix.WithPrefix("server."), 4)
}

func TestNavigator(t *testing.T) {
	ix := bootIndex(t)

	root := ix.Navigate("")
	assert.Nil(t, root.ExactMatch())
	assert.NotNil(t, root.ExtensionCandidate())

	server := root.SelectSubProperty("server")
	assert.Equal(t, "server", server.Prefix())
	assert.Nil(t, server.ExactMatch())
	assert.NotNil(t, server.ExtensionCandidate())

	port := server.SelectSubProperty("port")
	require.NotNil(t, port.ExactMatch())
	assert.Equal(t, "server.port", port.ExactMatch().ID)
	assert.Nil(t, port.ExtensionCandidate())

	bogus := server.SelectSubProperty("bogus")
	assert.Nil(t, bogus.ExactMatch())
	assert.Nil(t, bogus.ExtensionCandidate())
}

func TestPropertyInfo_DeprecationMessage(t *testing.T) {
	ix := bootIndex(t)

	cp, _ := ix.Find("server.context-path")
	assert.Equal(t, "Property 'server.context-path' is Deprecated: Use 'server.servlet.context-path' instead. Reason: moved",
		cp.DeprecationMessage())

	flyway, _ := ix.Find("flyway.enabled")
	assert.Equal(t, "Property 'flyway.enabled' is Deprecated!", flyway.DeprecationMessage())
}

func TestNiceTypeName(t *testing.T) {
	tests := []struct {
		java string
		want string
	}{
		{java: "java.lang.Integer", want: "int"},
		{java: "java.lang.String", want: "String"},
		{java: "java.util.List<java.lang.String>", want: "List<String>"},
		{java: "java.util.Map<java.lang.String,java.util.List<java.lang.Long>>", want: "Map<String, List<long>>"},
		{java: "java.time.Duration", want: "java.time.Duration"},
		{java: "java.lang.String[]", want: "String[]"},
		{java: "com.example.Foo", want: "com.example.Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.java, func(t *testing.T) {
			assert.Equal(t, tt.want, NiceTypeName(tt.java))
		})
	}
}

func TestParseJavaType(t *testing.T) {
	jt := parseJavaType("java.util.Map<java.lang.String, java.util.Map<java.lang.String,java.lang.Integer>>")
	require.NotNil(t, jt)
	assert.Equal(t, "java.util.Map", jt.erasure)
	require.Len(t, jt.params, 2)
	assert.Equal(t, "java.lang.String", jt.params[0].erasure)
	assert.Equal(t, "java.util.Map", jt.params[1].erasure)
	assert.Equal(t, "java.lang.Integer", jt.params[1].param(1).erasure)
	assert.Equal(t, "java.util.Map<java.lang.String,java.util.Map<java.lang.String,java.lang.Integer>>", typeString(jt))

	assert.Nil(t, parseJavaType("  "))
	assert.Equal(t, "int", (&javaType{erasure: "int[]"}).domain().erasure)
}

func parse(t *testing.T, r *TypeResolver, typ schema.Type, text string) error {
	t.Helper()

	p := r.TypeUtil().ValueParser(typ, nil)
	require.NotNil(t, p)

	_, err := p.Parse(text)

	return err
}

func TestTypeResolver_Atomic(t *testing.T) {
	r := NewTypeResolver()
	util := r.TypeUtil()

	integer := r.Resolve("java.lang.Integer")
	assert.True(t, util.IsAtomic(integer))
	assert.Equal(t, "int", util.NiceTypeName(integer))
	require.NoError(t, parse(t, r, integer, "0x1F"))
	require.Error(t, parse(t, r, integer, "abc"))
	require.Error(t, parse(t, r, integer, "99999999999"))

	b := r.Resolve("java.lang.Boolean")
	require.NoError(t, parse(t, r, b, "TRUE"))
	assert.Equal(t, "Value should be 'true' or 'false'", valueparse.MessageOf(parse(t, r, b, "yes")))
	assert.Equal(t, []string{"true", "false"}, util.HintValues(b, nil))

	ch := r.Resolve("java.lang.Character")
	require.NoError(t, parse(t, r, ch, "x"))
	require.Error(t, parse(t, r, ch, "xy"))

	str := r.Resolve("java.lang.String")
	assert.True(t, util.IsAtomic(str))
	assert.Nil(t, util.ValueParser(str, nil))

	assert.Same(t, integer, r.Resolve("java.lang.Integer"))
	assert.Nil(t, r.Resolve(""))
}

func TestTypeResolver_Collections(t *testing.T) {
	r := NewTypeResolver()
	util := r.TypeUtil()

	list := r.Resolve("java.util.List<java.lang.Integer>")
	assert.True(t, util.IsSequenceable(list))
	assert.True(t, util.IsAtomic(list))
	assert.Equal(t, "List<int>", util.NiceTypeName(list))
	require.NoError(t, parse(t, r, list, "1, 2, 3"))
	require.Error(t, parse(t, r, list, "1, x"))

	set := r.Resolve("java.util.Set<java.lang.String>")
	require.NoError(t, parse(t, r, set, "a,b"))

	arr := r.Resolve("java.lang.Long[]")
	assert.True(t, util.IsSequenceable(arr))
	assert.Equal(t, "long", util.NiceTypeName(util.DomainType(arr)))

	m := r.Resolve("java.util.Map<java.lang.String,java.lang.Integer>")
	assert.True(t, util.IsMap(m))
	assert.Equal(t, "Map<String, int>", util.NiceTypeName(m))
	assert.Equal(t, "Value of type 'Map<String, int>' can not be a scalar", valueparse.MessageOf(parse(t, r, m, "x")))

	obj := r.Resolve("java.lang.Object")
	assert.True(t, util.IsAtomic(obj))
	assert.True(t, util.IsMap(obj))

	unknown := r.Resolve("com.example.Bean")
	assert.True(t, util.IsBean(unknown) || util.IsMap(unknown))
}

func TestTypeResolver_NestedMapValues(t *testing.T) {
	r := NewTypeResolver()
	util := r.TypeUtil()

	m := r.Resolve("java.util.Map<java.lang.String,java.lang.String>")
	domain := util.DomainType(m)

	file, err := yamlast.ParseString("org:\n  springframework: debug\n")
	require.NoError(t, err)

	root := yamlast.AsMapping(file.Documents[0])
	require.NotNil(t, root)

	value := root.Entries[0].Value
	nested := util.InferMoreSpecificType(domain, schema.NewASTContext(file, yamlast.Path{}, value))
	assert.Same(t, m, nested)

	scalar := root.Entries[0].Value.(*yamlast.MappingNode).Entries[0].Value
	leaf := util.InferMoreSpecificType(domain, schema.NewASTContext(file, yamlast.Path{}, scalar))
	assert.Equal(t, "String", util.NiceTypeName(leaf))
}

func TestTypeResolver_ResolveProperty(t *testing.T) {
	r := NewTypeResolver()
	util := r.TypeUtil()

	web := &PropertyInfo{
		ID:    "spring.main.web-application-type",
		Type:  "org.springframework.boot.WebApplicationType",
		Hints: []ValueHint{{Value: "none"}, {Value: "servlet"}, {Value: "reactive"}, {Value: "mixed"}, {Value: "other"}},
	}

	enum := r.ResolveProperty(web)
	assert.Equal(t, "org.springframework.boot.WebApplicationType[none, servlet, reactive, mixed, ...]", util.NiceTypeName(enum))
	require.NoError(t, parse(t, r, enum, "SERVLET"))
	require.Error(t, parse(t, r, enum, "bogus"))
	assert.Same(t, enum, r.ResolveProperty(web))

	port := &PropertyInfo{ID: "server.port", Type: "java.lang.Integer", Hints: []ValueHint{{Value: "8080"}}}
	assert.Same(t, r.Resolve("java.lang.Integer"), r.ResolveProperty(port))
}

func TestTypeResolver_Plain(t *testing.T) {
	r := NewTypeResolver()
	util := r.TypeUtil()

	m := r.Resolve("java.util.Map<java.lang.String,java.lang.Integer>")
	plain := r.Plain(util.DomainType(m))
	assert.Same(t, r.Resolve("java.lang.Integer"), plain)
	assert.Same(t, m, r.Plain(m))
}

func TestPropertyInfo_DeprecationProblemType(t *testing.T) {
	ix := bootIndex(t)

	legacy, _ := ix.Find("legacy.mode")
	assert.Equal(t, diagnostic.DeprecatedError, legacy.DeprecationProblemType())

	cp, _ := ix.Find("server.context-path")
	assert.Equal(t, diagnostic.DeprecatedProperty, cp.DeprecationProblemType())
}
