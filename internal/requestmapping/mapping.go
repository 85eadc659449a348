package requestmapping

import (
	"regexp"
	"slices"
	"strings"
)

var methodsPattern = regexp.MustCompile(`methods=\[([^\]]*)\]`)

// RequestMapping is a single handler mapping. All parts are computed when the
// mapping is created.
type RequestMapping struct {
	source     string
	paths      []string
	className  string
	methodName string
	params     []string
	methods    []string
}

// Paths returns the mapped paths. "/a || /b" maps two paths; every path starts
// with '/'.
func (m *RequestMapping) Paths() []string {
	return slices.Clone(m.paths)
}

// FullyQualifiedClassName returns the handler class, or "" when the handler
// is not a method.
func (m *RequestMapping) FullyQualifiedClassName() string {
	return m.className
}

// MethodName returns the handler method name.
func (m *RequestMapping) MethodName() string {
	return m.methodName
}

// MethodParameters returns the parameter type names of the handler method.
func (m *RequestMapping) MethodParameters() []string {
	return slices.Clone(m.params)
}

// RequestMethods returns the sorted HTTP verbs the mapping accepts. An empty
// result means any verb.
func (m *RequestMapping) RequestMethods() []string {
	return slices.Clone(m.methods)
}

// String returns the mapping as reported by the endpoint.
func (m *RequestMapping) String() string {
	return m.source
}

// splitPaths splits an "OR" of paths.
func splitPaths(s string) []string {
	var paths []string

	for _, p := range strings.Split(s, "||") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}

		paths = append(paths, p)
	}

	return paths
}

// keyPath extracts the path part of a Boot 1.x key: the text between the first
// '[' and the next ']' of "{[/path],methods=[GET],...}". Other keys are the path.
func keyPath(key string) string {
	if !strings.HasPrefix(key, "{[") {
		return key
	}

	start := strings.IndexByte(key, '[') + 1

	end := strings.IndexByte(key[start:], ']')
	if end < 0 {
		return key[start:]
	}

	return key[start : start+end]
}

// keyMethods extracts the verbs of a "methods=[GET || POST]" fragment.
func keyMethods(key string) []string {
	found := methodsPattern.FindStringSubmatch(key)
	if found == nil {
		return nil
	}

	var methods []string

	for _, m := range strings.Split(found[1], "||") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}

	return normalizeMethods(methods)
}

func normalizeMethods(methods []string) []string {
	result := make([]string, 0, len(methods))

	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && !slices.Contains(result, m) {
			result = append(result, m)
		}
	}

	slices.Sort(result)

	return result
}

// parseSignature reads a reflection style method signature such as
// "public java.lang.String com.example.Hello.greet(java.lang.String,java.util.Map<K, V>) throws java.io.IOException".
func parseSignature(sig string) (className, methodName string, params []string, ok bool) {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return "", "", nil, false
	}

	head := strings.TrimSpace(sig[:open])
	if i := strings.LastIndexAny(head, " \t"); i >= 0 {
		head = head[i+1:]
	}

	dot := strings.LastIndexByte(head, '.')
	if dot <= 0 || dot == len(head)-1 {
		return "", "", nil, false
	}

	end := matchingParen(sig, open)
	if end < 0 {
		return "", "", nil, false
	}

	return head[:dot], head[dot+1:], splitParams(sig[open+1 : end]), true
}

func matchingParen(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// splitParams splits a parameter list at the commas outside of generics.
func splitParams(s string) []string {
	var (
		params []string
		depth  int
		start  int
	)

	add := func(p string) {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				add(s[start:i])
				start = i + 1
			}
		}
	}

	add(s[start:])

	return params
}
