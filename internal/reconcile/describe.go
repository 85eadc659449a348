package reconcile

import (
	"strings"

	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/yamlast"
)

// Describe names the shapes t accepts for "Expecting a '...'" messages: the
// nice type name of atomic types, otherwise "Map" and/or "Sequence".
func Describe(util schema.TypeUtil, t schema.Type) string {
	if util.IsAtomic(t) {
		return util.NiceTypeName(t)
	}

	var shapes []string
	if util.IsBean(t) || util.IsMap(t) {
		shapes = append(shapes, "Map")
	}

	if util.IsSequenceable(t) {
		shapes = append(shapes, "Sequence")
	}

	return strings.Join(shapes, " or ")
}

// DescribeNode renders a node for "but got ..." messages.
func DescribeNode(n yamlast.Node) string {
	switch n := n.(type) {
	case *yamlast.ScalarNode:
		return "'" + n.Value + "'"
	case *yamlast.MappingNode:
		return "a 'Mapping' node"
	case *yamlast.SequenceNode:
		return "a 'Sequence' node"
	default:
		return "a 'Anchor' node"
	}
}

// kindOf treats moustache variables such as {{name}} as scalars: they parse
// as nested flow mappings but stand for a string.
func kindOf(n yamlast.Node) yamlast.Kind {
	if n.Kind() == yamlast.Mapping && debrace(debrace(n)) != nil {
		if _, ok := debrace(debrace(n)).(*yamlast.ScalarNode); ok {
			return yamlast.Scalar
		}
	}

	return n.Kind()
}

func debrace(n yamlast.Node) yamlast.Node {
	m := yamlast.AsMapping(n)
	if m == nil || !m.Flow || len(m.Entries) != 1 {
		return nil
	}

	if v, ok := yamlast.AsScalar(m.Entries[0].Value); ok && v == "" {
		return m.Entries[0].Key
	}

	return nil
}
