package match

import (
	"strings"
	"unicode"

	"yaml-reconciler/internal/common"
)

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase is
// tokenized, everything is lowercased and separators (_, -, ., spaces) are dropped.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// CamelCaseToHyphens converts "maxPoolSize" to "max-pool-size". Existing
// hyphens and dots are kept; other text is returned unchanged.
func CamelCaseToHyphens(s string) string {
	var sb strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !isSeparator(runes[i-1]) && runes[i-1] != '.' {
			if !unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				sb.WriteByte('-')
			}
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// SnakeCaseToHyphens converts "max_pool_size" to "max-pool-size".
func SnakeCaseToHyphens(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// KeyAliases returns the spellings a configuration key is matched by: the key
// itself, its hyphenated camel case form and its hyphenated snake case form.
// Duplicates are removed, the original key always comes first.
func KeyAliases(key string) []string {
	return common.Dedup([]string{key, CamelCaseToHyphens(key), SnakeCaseToHyphens(key)})
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "maxSize" -> ["max", "Size"]
//   - "URLPath" -> ["URL", "Path"]
//   - "server.port" -> ["server", "port"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) || r == '.' {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	// "maxSize": split before 'S'
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// "URLPath": split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return unicode.IsUpper(r) && unicode.IsUpper(prev) && hasNextLower
}
