package requestmapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootOneMappings = `{
  "/webjars/**": {"bean": "resourceHandlerMapping"},
  "{[/bye],methods=[],params=[],headers=[],consumes=[],produces=[],custom=[]}": {
    "bean": "requestMappingHandlerMapping",
    "method": "public java.lang.String com.example.demo.ByeController.bye()"
  },
  "{[/hello || hi],methods=[GET || post]}": {
    "bean": "requestMappingHandlerMapping",
    "method": "public java.lang.String com.example.demo.HelloController.hello(java.lang.String,java.util.Map<java.lang.String, java.lang.Object>) throws java.io.IOException"
  }
}`

const bootTwoMappings = `{
  "contexts": {
    "application": {
      "mappings": {
        "dispatcherServlets": {
          "dispatcherServlet": [
            {
              "handler": "public java.lang.String com.example.demo.HelloController.hello(int)",
              "predicate": "{GET /hello, produces [text/plain]}",
              "details": {
                "handlerMethod": {
                  "className": "com.example.demo.HelloController",
                  "name": "hello",
                  "descriptor": "(I)Ljava/lang/String;"
                },
                "requestMappingConditions": {
                  "methods": ["GET", "POST"],
                  "patterns": ["/hello", "/hi"]
                }
              }
            },
            {
              "handler": "ResourceHttpRequestHandler [classpath [META-INF/resources/webjars/]]",
              "predicate": "/webjars/**",
              "details": null
            },
            {
              "handler": "public void com.example.demo.Legacy.run()",
              "predicate": "{[/legacy],methods=[PUT]}"
            }
          ]
        },
        "servletFilters": [],
        "servlets": []
      }
    }
  }
}`

func TestParseV1(t *testing.T) {
	mappings, err := Parse([]byte(bootOneMappings))
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	webjars := mappings[0]
	assert.Equal(t, []string{"/webjars/**"}, webjars.Paths())
	assert.Empty(t, webjars.RequestMethods())
	assert.Empty(t, webjars.FullyQualifiedClassName())

	bye := mappings[1]
	assert.Equal(t, []string{"/bye"}, bye.Paths())
	assert.Empty(t, bye.RequestMethods())
	assert.Equal(t, "com.example.demo.ByeController", bye.FullyQualifiedClassName())
	assert.Equal(t, "bye", bye.MethodName())
	assert.Empty(t, bye.MethodParameters())
	assert.Equal(t, "{[/bye],methods=[],params=[],headers=[],consumes=[],produces=[],custom=[]}", bye.String())

	hello := mappings[2]
	assert.Equal(t, []string{"/hello", "/hi"}, hello.Paths())
	assert.Equal(t, []string{"GET", "POST"}, hello.RequestMethods())
	assert.Equal(t, "com.example.demo.HelloController", hello.FullyQualifiedClassName())
	assert.Equal(t, "hello", hello.MethodName())
	assert.Equal(t,
		[]string{"java.lang.String", "java.util.Map<java.lang.String, java.lang.Object>"},
		hello.MethodParameters())
}

func TestParseV2(t *testing.T) {
	mappings, err := Parse([]byte(bootTwoMappings))
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	hello := mappings[0]
	assert.Equal(t, []string{"/hello", "/hi"}, hello.Paths())
	assert.Equal(t, []string{"GET", "POST"}, hello.RequestMethods())
	assert.Equal(t, "com.example.demo.HelloController", hello.FullyQualifiedClassName())
	assert.Equal(t, "hello", hello.MethodName())
	assert.Equal(t, []string{"int"}, hello.MethodParameters())
	assert.Equal(t, "{GET /hello, produces [text/plain]}", hello.String())

	webjars := mappings[1]
	assert.Equal(t, []string{"/webjars/**"}, webjars.Paths())
	assert.Empty(t, webjars.FullyQualifiedClassName())
	assert.Empty(t, webjars.RequestMethods())

	legacy := mappings[2]
	assert.Equal(t, []string{"/legacy"}, legacy.Paths())
	assert.Equal(t, []string{"PUT"}, legacy.RequestMethods())
	assert.Equal(t, "com.example.demo.Legacy", legacy.FullyQualifiedClassName())
	assert.Equal(t, "run", legacy.MethodName())
}

func TestParse_Invalid(t *testing.T) {
	for _, data := range []string{"", "{", `{"a": }`} {
		_, err := Parse([]byte(data))
		require.ErrorIs(t, err, ErrInvalidJSON, data)
	}

	_, err := ParseV1([]byte("["))
	require.ErrorIs(t, err, ErrInvalidJSON)

	_, err = ParseV2([]byte("nope"))
	require.ErrorIs(t, err, ErrInvalidJSON)
}

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		predicate string
		path      string
		methods   []string
	}{
		{"{GET /hello}", "/hello", []string{"GET"}},
		{"{/hello}", "/hello", []string{}},
		{"{[GET, POST] /a/b, consumes [application/json]}", "/a/b", []string{"GET", "POST"}},
		{"{[post] /c}", "/c", []string{"POST"}},
		{"{GET /a || /b}", "/a || /b", []string{"GET"}},
		{"{[/old],methods=[GET]}", "/old", []string{"GET"}},
		{"{[/plain]}", "/plain", nil},
		{"/static/**", "/static/**", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			path, methods := parsePredicate(tt.predicate)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.methods, methods)
		})
	}
}

func TestParseV2_ReactivePredicate(t *testing.T) {
	mappings, err := ParseV2([]byte(`{"contexts": {"app": {"mappings": {"dispatcherHandlers": {
  "webHandler": [
    {"predicate": "{[GET, POST] /a/b, consumes [application/json]}",
     "handler": "public reactor.core.publisher.Mono<java.lang.String> com.example.Api.ab()"}
  ]}}}}}`))
	require.NoError(t, err)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, []string{"/a/b"}, m.Paths())
	assert.Equal(t, []string{"GET", "POST"}, m.RequestMethods())
	assert.Equal(t, "com.example.Api", m.FullyQualifiedClassName())
	assert.Equal(t, "ab", m.MethodName())
}

func TestParseSignature(t *testing.T) {
	class, method, params, ok := parseSignature(
		"public org.springframework.http.ResponseEntity<java.util.Map<java.lang.String, java.lang.Object>> a.b.C.d(java.util.List<java.lang.String>,long)")
	require.True(t, ok)
	assert.Equal(t, "a.b.C", class)
	assert.Equal(t, "d", method)
	assert.Equal(t, []string{"java.util.List<java.lang.String>", "long"}, params)

	for _, sig := range []string{"", "ResourceHttpRequestHandler [classpath]", "public void run()", "public void a.b.C.d("} {
		_, _, _, ok = parseSignature(sig)
		assert.False(t, ok, sig)
	}
}

func TestSplitPaths(t *testing.T) {
	assert.Equal(t, []string{"/a", "/b"}, splitPaths(" a || /b || "))
	assert.Empty(t, splitPaths(""))
}
