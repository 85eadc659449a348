package schema

import (
	"fmt"
	"slices"
	"strings"

	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/yamlast"
)

// Constraint is a check attached to a type. Constraints are verified after the
// whole document has been walked; they may inspect the tree but never change it.
type Constraint interface {
	Verify(dc DynamicContext, parent, node yamlast.Node, t Type, problems diagnostic.Collector)
}

// ConstraintFunc adapts a function to the Constraint interface.
type ConstraintFunc func(dc DynamicContext, parent, node yamlast.Node, t Type, problems diagnostic.Collector)

// Verify calls f.
func (f ConstraintFunc) Verify(dc DynamicContext, parent, node yamlast.Node, t Type, problems diagnostic.Collector) {
	f(dc, parent, node, t, problems)
}

// RequireOneOf reports a mapping that defines none of the named properties.
func RequireOneOf(names ...string) Constraint {
	return ConstraintFunc(func(_ DynamicContext, parent, node yamlast.Node, t Type, problems diagnostic.Collector) {
		m := yamlast.AsMapping(node)
		if m == nil {
			return
		}

		keys := yamlast.ScalarKeys(m)
		for _, n := range names {
			if _, ok := keys[n]; ok {
				return
			}
		}

		start, end := MissingPropertyRegion(parent, node)
		problems.Accept(diagnostic.NewProblem(diagnostic.MissingProperty,
			fmt.Sprintf("One of %s is required for '%s'", formatNames(names), t), start, end))
	})
}

// RequireAtMostOneOf reports every key of a mapping that defines more than one
// of the named properties.
func RequireAtMostOneOf(names ...string) Constraint {
	return ConstraintFunc(func(_ DynamicContext, _, node yamlast.Node, t Type, problems diagnostic.Collector) {
		m := yamlast.AsMapping(node)
		if m == nil {
			return
		}

		var found []yamlast.Node
		for _, e := range m.Entries {
			if k, ok := yamlast.AsScalar(e.Key); ok && slices.Contains(names, k) {
				found = append(found, e.Key)
			}
		}

		if len(found) <= 1 {
			return
		}

		msg := fmt.Sprintf("Only one of %s should be defined for '%s'", formatNames(names), t)
		for _, k := range found {
			problems.Accept(diagnostic.NewProblem(diagnostic.ConstraintViolation, msg, k.Span().Start, k.Span().End))
		}
	})
}

// MutuallyExclusive reports properties of group a used together with properties of group b.
func MutuallyExclusive(a, b []string) Constraint {
	return ConstraintFunc(func(_ DynamicContext, _, node yamlast.Node, _ Type, problems diagnostic.Collector) {
		m := yamlast.AsMapping(node)
		if m == nil {
			return
		}

		keys := yamlast.ScalarKeys(m)

		present := func(group []string) []string {
			var result []string

			for _, n := range group {
				if _, ok := keys[n]; ok {
					result = append(result, n)
				}
			}

			return result
		}

		inA, inB := present(a), present(b)
		if len(inA) == 0 || len(inB) == 0 {
			return
		}

		for _, e := range m.Entries {
			k, ok := yamlast.AsScalar(e.Key)
			if !ok {
				continue
			}

			var others []string

			switch {
			case slices.Contains(inA, k):
				others = inB
			case slices.Contains(inB, k):
				others = inA
			default:
				continue
			}

			msg := fmt.Sprintf("Property '%s' cannot be used together with %s", k, formatNames(others))
			problems.Accept(diagnostic.NewProblem(diagnostic.ConstraintViolation, msg, e.Key.Span().Start, e.Key.Span().End))
		}
	})
}

// DeprecatedProperties reports the named properties as deprecated using msg
// to build the message.
func DeprecatedProperties(msg func(name string, t Type) string, names ...string) Constraint {
	return ConstraintFunc(func(_ DynamicContext, _, node yamlast.Node, t Type, problems diagnostic.Collector) {
		m := yamlast.AsMapping(node)
		if m == nil {
			return
		}

		for _, e := range m.Entries {
			if k, ok := yamlast.AsScalar(e.Key); ok && slices.Contains(names, k) {
				problems.Accept(diagnostic.NewProblem(diagnostic.DeprecatedProperty, msg(k, t), e.Key.Span().Start, e.Key.Span().End))
			}
		}
	})
}

// ContextAware selects the constraint to verify from the dynamic context.
// A nil result means nothing to check.
func ContextAware(fn func(dc DynamicContext) Constraint) Constraint {
	return ConstraintFunc(func(dc DynamicContext, parent, node yamlast.Node, t Type, problems diagnostic.Collector) {
		if c := fn(dc); c != nil {
			c.Verify(dc, parent, node, t, problems)
		}
	})
}

// MissingPropertyRegion returns the region used to report properties missing
// from node: the key pointing to node in its parent mapping, or else the first
// line of node.
func MissingPropertyRegion(parent, node yamlast.Node) (int, int) {
	if pm := yamlast.AsMapping(parent); pm != nil {
		for _, e := range pm.Entries {
			if e.Value == node {
				return e.Key.Span().Start, e.Key.Span().End
			}
		}
	}

	s := node.Span()

	if m := yamlast.AsMapping(node); m != nil && len(m.Entries) > 0 {
		first := m.Entries[0].Key.Span()
		return first.Start, first.End
	}

	return s.Start, s.End
}

func formatNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
