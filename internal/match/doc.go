// Package match provides name normalization, relaxed property key aliases,
// Levenshtein distance, and ranking of similar names for "did you mean"
// suggestions.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - KeyAliases: the relaxed spellings a configuration key may stand for
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates / Suggest: rank known names by similarity to an unknown one
package match
