package typeschema

import (
	"reflect"
	"slices"
	"strings"
	"unicode"
)

// yamlName returns the property name of a field: the yaml tag name if
// present, otherwise the lower camel case field name.
func yamlName(field string, tag reflect.StructTag) (name string, inline, skip bool) {
	value, ok := tag.Lookup("yaml")
	if !ok {
		return lowerCamel(field), false, false
	}

	if value == "-" {
		return "", false, true
	}

	parts := strings.Split(value, ",")
	inline = slices.Contains(parts[1:], "inline")

	if parts[0] == "" {
		return lowerCamel(field), inline, false
	}

	return parts[0], inline, false
}

// isRequired reports whether a validate tag lists "required".
func isRequired(tag reflect.StructTag) bool {
	return slices.Contains(strings.Split(tag.Get("validate"), ","), "required")
}

// lowerCamel lowers the leading upper case run of s, keeping the last upper
// case letter of a run followed by a lower case one: "HTTPPort" -> "httpPort".
func lowerCamel(s string) string {
	runes := []rune(s)

	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}

		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}

		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}
