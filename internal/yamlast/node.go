package yamlast

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind discriminates the node shapes.
type Kind int

const (
	Scalar Kind = iota
	Mapping
	Sequence
	Anchor
)

// Span is a half-open range of absolute byte offsets into the source.
type Span struct {
	Start int
	End   int
}

// Len returns the span length.
func (s Span) Len() int {
	return s.End - s.Start
}

// Node is a node of the document tree.
type Node interface {
	Kind() Kind
	Span() Span
}

// ScalarStyle is the presentation style of a scalar.
type ScalarStyle int

const (
	Plain ScalarStyle = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

// ScalarNode is a scalar value.
type ScalarNode struct {
	Value string
	Style ScalarStyle
	// Tag is the resolved YAML tag, e.g. "!!str" or "!!null".
	Tag  string
	span Span
}

// Entry is a key/value pair of a mapping.
type Entry struct {
	Key   Node
	Value Node
}

// MappingNode is an ordered list of entries. Keys are not necessarily unique.
type MappingNode struct {
	Entries []Entry
	// Flow is true for mappings written as {a: b}.
	Flow bool
	span Span
}

// SequenceNode is an ordered list of items.
type SequenceNode struct {
	Items []Node
	Flow  bool
	span  Span
}

// AnchorNode is an alias referring to an anchored node elsewhere in the document.
type AnchorNode struct {
	Alias string
	span  Span
}

func (n *ScalarNode) Kind() Kind   { return Scalar }
func (n *MappingNode) Kind() Kind  { return Mapping }
func (n *SequenceNode) Kind() Kind { return Sequence }
func (n *AnchorNode) Kind() Kind   { return Anchor }

func (n *ScalarNode) Span() Span   { return n.span }
func (n *MappingNode) Span() Span  { return n.span }
func (n *SequenceNode) Span() Span { return n.span }
func (n *AnchorNode) Span() Span   { return n.span }

// NewScalar creates a scalar node with an explicit span.
func NewScalar(value string, start, end int) *ScalarNode {
	return &ScalarNode{Value: value, Tag: "!!str", span: Span{Start: start, End: end}}
}

// NewMapping creates a mapping node with an explicit span.
func NewMapping(entries []Entry, start, end int) *MappingNode {
	return &MappingNode{Entries: entries, span: Span{Start: start, End: end}}
}

// NewSequence creates a sequence node with an explicit span.
func NewSequence(items []Node, start, end int) *SequenceNode {
	return &SequenceNode{Items: items, span: Span{Start: start, End: end}}
}

// AsScalar returns the value of n if it is a scalar node.
func AsScalar(n Node) (string, bool) {
	s, ok := n.(*ScalarNode)
	if !ok || s == nil {
		return "", false
	}

	return s.Value, true
}

// AsMapping returns n as a mapping node, or nil.
func AsMapping(n Node) *MappingNode {
	m, _ := n.(*MappingNode)
	return m
}

// ScalarKeys returns the set of scalar keys of m.
func ScalarKeys(m *MappingNode) map[string]struct{} {
	keys := make(map[string]struct{}, len(m.Entries))

	for _, e := range m.Entries {
		if k, ok := AsScalar(e.Key); ok {
			keys[k] = struct{}{}
		}
	}

	return keys
}

// Get returns the value of the first entry of m whose key is the scalar key.
func (m *MappingNode) Get(key string) (Node, bool) {
	for _, e := range m.Entries {
		if k, ok := AsScalar(e.Key); ok && k == key {
			return e.Value, true
		}
	}

	return nil, false
}

// File is a parsed YAML source with one root node per document.
type File struct {
	Source    string
	Documents []Node
}

// Text returns the source covered by span.
func (f *File) Text(s Span) string {
	start := min(max(s.Start, 0), len(f.Source))
	end := min(max(s.End, start), len(f.Source))

	return f.Source[start:end]
}
