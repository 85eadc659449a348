package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// Identical strings
		{"", "", 0},
		{"port", "port", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"abc", "", 3},

		// Single operations
		{"port", "prot", 2},
		{"port", "ports", 1},
		{"ports", "port", 1},
		{"name", "nme", 1},

		// Multiple operations
		{"kitten", "sitting", 3},
		{"nickname", "name", 4},

		// Runes, not bytes
		{"grüße", "grusse", 3},
		{"ü", "u", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			if reverse := Levenshtein(tt.b, tt.a); reverse != result {
				t.Errorf("Levenshtein symmetry failed: (%q, %q) = %d, reverse = %d", tt.a, tt.b, result, reverse)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1.0},
		{"port", "port", 1.0},
		{"abcd", "wxyz", 0.0},
		{"port", "ports", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Similarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}

	if got := NormalizedSimilarity("maxSize", "max-size"); got != 1.0 {
		t.Errorf("NormalizedSimilarity(maxSize, max-size) = %f, want 1", got)
	}
}
