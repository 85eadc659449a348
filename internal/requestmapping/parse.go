package requestmapping

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned for payloads that are not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid request mappings json")

// Parse reads a mappings payload of either generation.
func Parse(data []byte) ([]*RequestMapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	if gjson.GetBytes(data, "contexts").Exists() {
		return ParseV2(data)
	}

	return ParseV1(data)
}

// ParseV1 reads the Boot 1.x format: an object keyed by a description of the
// mapping, with the handler signature in the "method" field.
func ParseV1(data []byte) ([]*RequestMapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	var result []*RequestMapping

	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		k := key.String()

		m := &RequestMapping{
			source:  k,
			paths:   splitPaths(keyPath(k)),
			methods: keyMethods(k),
		}

		if sig := value.Get("method"); sig.Exists() {
			m.className, m.methodName, m.params, _ = parseSignature(sig.String())
		}

		result = append(result, m)

		return true
	})

	return result, nil
}

// ParseV2 reads the Boot 2.x format, where the mappings of every application
// context are listed per dispatcher servlet (or dispatcher handler for
// reactive applications).
func ParseV2(data []byte) ([]*RequestMapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	var result []*RequestMapping

	gjson.GetBytes(data, "contexts").ForEach(func(_, ctx gjson.Result) bool {
		for _, kind := range []string{"dispatcherServlets", "dispatcherHandlers"} {
			ctx.Get("mappings." + kind).ForEach(func(_, mappings gjson.Result) bool {
				mappings.ForEach(func(_, entry gjson.Result) bool {
					result = append(result, parseV2Entry(entry))
					return true
				})

				return true
			})
		}

		return true
	})

	return result, nil
}

func parseV2Entry(entry gjson.Result) *RequestMapping {
	predicate := entry.Get("predicate").String()
	m := &RequestMapping{source: predicate}

	path, verbs := parsePredicate(predicate)

	conditions := entry.Get("details.requestMappingConditions")
	if patterns := conditions.Get("patterns"); patterns.IsArray() {
		for _, p := range patterns.Array() {
			m.paths = append(m.paths, splitPaths(p.String())...)
		}
	} else {
		m.paths = splitPaths(path)
	}

	if methods := conditions.Get("methods"); methods.IsArray() {
		var listed []string
		for _, v := range methods.Array() {
			listed = append(listed, v.String())
		}

		m.methods = normalizeMethods(listed)
	} else {
		m.methods = verbs
	}

	if handler := entry.Get("details.handlerMethod"); handler.Exists() {
		m.className = handler.Get("className").String()
		m.methodName = handler.Get("name").String()
	}

	if class, method, params, ok := parseSignature(entry.Get("handler").String()); ok {
		if m.className == "" {
			m.className, m.methodName = class, method
		}

		m.params = params
	}

	return m
}

// parsePredicate reads the paths and verbs of a predicate without mapping
// conditions. Three forms exist: "{[/hello],methods=[GET]}",
// "{GET /hello, produces [text/plain]}" and "{[GET, POST] /hello}".
func parsePredicate(predicate string) (string, []string) {
	if isLegacyKey(predicate) {
		return keyPath(predicate), keyMethods(predicate)
	}

	p := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(predicate, "{"), "}"))

	var verbs []string

	if strings.HasPrefix(p, "[") {
		if i := strings.IndexByte(p, ']'); i >= 0 {
			verbs = strings.Split(p[1:i], ",")
			p = p[i+1:]
		}
	} else if i := strings.IndexByte(p, ' '); i > 0 && !strings.HasPrefix(p, "/") {
		verbs = []string{p[:i]}
		p = p[i+1:]
	}

	if i := strings.IndexByte(p, ','); i >= 0 {
		p = p[:i]
	}

	if i := strings.IndexByte(p, '/'); i > 0 {
		p = p[i:]
	}

	return strings.TrimSpace(p), normalizeMethods(verbs)
}

// isLegacyKey reports whether s has the "{[/path],methods=[...]}" form, as
// opposed to a bracketed verb list.
func isLegacyKey(s string) bool {
	if !strings.HasPrefix(s, "{[") {
		return false
	}

	return strings.HasPrefix(strings.TrimSpace(s[2:]), "/") || strings.Contains(s, "methods=")
}
