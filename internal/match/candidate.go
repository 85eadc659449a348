package match

import (
	"sort"
	"strings"
)

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name string
	// Score is the normalized similarity (0-1).
	Score float64
	// CommonPrefix is the length of the shared prefix, in bytes.
	CommonPrefix int
}

// CandidateList is a list of candidates sorted best first.
type CandidateList []Candidate

// RankCandidates scores every known name against name and returns them best first.
func RankCandidates(name string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		candidates = append(candidates, Candidate{
			Name:         k,
			Score:        max(Similarity(name, k), NormalizedSimilarity(name, k)),
			CommonPrefix: CommonPrefixLen(name, k),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns the most similar known name if its score reaches threshold.
func Suggest(name string, known []string, threshold float64) (string, bool) {
	best := RankCandidates(name, known).Best()
	if best == nil || best.Score < threshold {
		return "", false
	}

	return best.Name, true
}

// CommonPrefixLen returns the length of the longest common prefix of a and b.
func CommonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then common prefix, then name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	if c[i].CommonPrefix != c[j].CommonPrefix {
		return c[i].CommonPrefix > c[j].CommonPrefix
	}

	return strings.Compare(c[i].Name, c[j].Name) < 0
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}
