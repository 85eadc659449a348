package yamlast

import (
	"strconv"
	"strings"
)

// SegmentKind identifies how a path segment navigates.
type SegmentKind int

const (
	// ValueAtIndex selects a sequence item or document by index.
	ValueAtIndex SegmentKind = iota
	// ValueAtKey selects the value of a mapping entry.
	ValueAtKey
	// KeyAt selects the key node of a mapping entry.
	KeyAt
)

// PathSegment is one navigation step.
type PathSegment struct {
	Kind  SegmentKind
	Index int
	Key   string
}

// IndexSegment creates a ValueAtIndex segment.
func IndexSegment(i int) PathSegment {
	return PathSegment{Kind: ValueAtIndex, Index: i}
}

// KeySegment creates a ValueAtKey segment.
func KeySegment(key string) PathSegment {
	return PathSegment{Kind: ValueAtKey, Key: key}
}

// KeyNodeSegment creates a KeyAt segment.
func KeyNodeSegment(key string) PathSegment {
	return PathSegment{Kind: KeyAt, Key: key}
}

func (s PathSegment) String() string {
	switch s.Kind {
	case ValueAtIndex:
		return "[" + strconv.Itoa(s.Index) + "]"
	case KeyAt:
		return "&" + s.Key
	default:
		return "." + s.Key
	}
}

// Path is an immutable list of segments from a document root.
type Path []PathSegment

// Append returns a new path with seg added; p is left untouched.
func (p Path) Append(seg PathSegment) Path {
	result := make(Path, len(p), len(p)+1)
	copy(result, p)

	return append(result, seg)
}

// Last returns the last segment of p.
func (p Path) Last() (PathSegment, bool) {
	if len(p) == 0 {
		return PathSegment{}, false
	}

	return p[len(p)-1], true
}

// Parent returns p without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}

	return p[:len(p)-1:len(p)-1]
}

func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(s.String())
	}

	return sb.String()
}

// Traverse follows p starting at n and returns the node reached, or nil.
func (p Path) Traverse(n Node) Node {
	for _, seg := range p {
		if n == nil {
			return nil
		}

		n = seg.step(n)
	}

	return n
}

func (s PathSegment) step(n Node) Node {
	switch s.Kind {
	case ValueAtIndex:
		seq, ok := n.(*SequenceNode)
		if !ok || s.Index < 0 || s.Index >= len(seq.Items) {
			return nil
		}

		return seq.Items[s.Index]
	case ValueAtKey, KeyAt:
		m, ok := n.(*MappingNode)
		if !ok {
			return nil
		}

		for _, e := range m.Entries {
			if k, ok := AsScalar(e.Key); ok && k == s.Key {
				if s.Kind == KeyAt {
					return e.Key
				}

				return e.Value
			}
		}
	}

	return nil
}

// At resolves a path whose first segment selects the document.
func (f *File) At(p Path) Node {
	if len(p) == 0 || p[0].Kind != ValueAtIndex {
		return nil
	}

	if p[0].Index < 0 || p[0].Index >= len(f.Documents) {
		return nil
	}

	return p[1:].Traverse(f.Documents[p[0].Index])
}
