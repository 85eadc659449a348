package metadata

import (
	"slices"
	"strings"

	"yaml-reconciler/internal/match"
)

// Index holds properties sorted by id.
type Index struct {
	entries []*PropertyInfo
}

// NewIndex creates an index of props.
func NewIndex(props ...*PropertyInfo) *Index {
	ix := &Index{}
	ix.Add(props...)

	return ix
}

// Add inserts props, replacing entries with the same id.
func (ix *Index) Add(props ...*PropertyInfo) {
	for _, p := range props {
		i, found := ix.search(p.ID)
		if found {
			ix.entries[i] = p
			continue
		}

		ix.entries = slices.Insert(ix.entries, i, p)
	}
}

func (ix *Index) search(id string) (int, bool) {
	return slices.BinarySearchFunc(ix.entries, id, func(p *PropertyInfo, id string) int {
		return strings.Compare(p.ID, id)
	})
}

// Len returns the number of properties.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// IsEmpty reports whether the index has no properties.
func (ix *Index) IsEmpty() bool {
	return ix == nil || len(ix.entries) == 0
}

// All returns the properties sorted by id.
func (ix *Index) All() []*PropertyInfo {
	return slices.Clone(ix.entries)
}

// IDs returns the sorted property ids.
func (ix *Index) IDs() []string {
	ids := make([]string, 0, len(ix.entries))
	for _, p := range ix.entries {
		ids = append(ids, p.ID)
	}

	return ids
}

// Find returns the property with exactly the given id.
func (ix *Index) Find(id string) (*PropertyInfo, bool) {
	i, found := ix.search(id)
	if !found {
		return nil, false
	}

	return ix.entries[i], true
}

// FindLongestValidProperty finds the longest prefix of name, cut at a '.'
// before any '[', that is a property. The prefix is looked up in its
// hyphenated form; the returned property carries the prefix as written.
func (ix *Index) FindLongestValidProperty(name string) *PropertyInfo {
	end := len(name)
	if i := strings.IndexByte(name, '['); i >= 0 {
		end = i
	}

	for end > 0 {
		prefix := name[:end]
		if p, ok := ix.Find(match.CamelCaseToHyphens(prefix)); ok {
			return p.WithID(prefix)
		}

		end = strings.LastIndexByte(name[:end], '.')
	}

	return nil
}

// FindLongestCommonPrefixEntry returns the property sharing the longest
// common prefix with name, or nil for an empty index.
func (ix *Index) FindLongestCommonPrefixEntry(name string) *PropertyInfo {
	if len(ix.entries) == 0 {
		return nil
	}

	// the best match is a neighbour of name's insertion point
	i, found := ix.search(name)
	if found {
		return ix.entries[i]
	}

	var best *PropertyInfo

	bestLen := -1

	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(ix.entries) {
			continue
		}

		if n := match.CommonPrefixLen(name, ix.entries[j].ID); n > bestLen {
			best, bestLen = ix.entries[j], n
		}
	}

	return best
}

// WithPrefix returns the properties whose id starts with prefix.
func (ix *Index) WithPrefix(prefix string) []*PropertyInfo {
	i, _ := ix.search(prefix)

	var result []*PropertyInfo

	for ; i < len(ix.entries) && strings.HasPrefix(ix.entries[i].ID, prefix); i++ {
		result = append(result, ix.entries[i])
	}

	return result
}

// HasPrefix reports whether some property extends prefix with a '.' or '['.
func (ix *Index) HasPrefix(prefix string) bool {
	return ix.extension(prefix) != nil
}

func (ix *Index) extension(prefix string) *PropertyInfo {
	for _, sep := range []string{".", "["} {
		if ps := ix.WithPrefix(prefix + sep); len(ps) > 0 {
			return ps[0]
		}
	}

	return nil
}

// Navigate returns a navigator positioned at prefix. An empty prefix is the
// root of the index.
func (ix *Index) Navigate(prefix string) *Navigator {
	return &Navigator{index: ix, prefix: prefix}
}

// Navigator walks the index one key at a time, the way nested YAML mappings
// spell out a dotted property name.
type Navigator struct {
	index  *Index
	prefix string
}

// Prefix returns the dotted name the navigator is positioned at.
func (n *Navigator) Prefix() string {
	return n.prefix
}

// SelectSubProperty moves one key deeper.
func (n *Navigator) SelectSubProperty(key string) *Navigator {
	if n.prefix == "" {
		return n.index.Navigate(key)
	}

	return n.index.Navigate(n.prefix + "." + key)
}

// ExactMatch returns the property named by the prefix.
func (n *Navigator) ExactMatch() *PropertyInfo {
	if n.prefix == "" {
		return nil
	}

	p, _ := n.index.Find(n.prefix)

	return p
}

// ExtensionCandidate returns a property that extends the prefix, if any.
func (n *Navigator) ExtensionCandidate() *PropertyInfo {
	if n.prefix == "" {
		if len(n.index.entries) == 0 {
			return nil
		}

		return n.index.entries[0]
	}

	return n.index.extension(n.prefix)
}
