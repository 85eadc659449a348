package properties

import (
	"fmt"
	"strconv"
	"strings"

	"yaml-reconciler/internal/common"
	"yaml-reconciler/internal/diagnostic"
	"yaml-reconciler/internal/match"
	"yaml-reconciler/internal/schema"
)

// navigator follows the part of a property key that goes beyond the
// longest known property: map keys, bean properties and list indices.
type navigator struct {
	text     string
	start    int
	end      int
	util     schema.TypeUtil
	plain    func(schema.Type) schema.Type
	problems diagnostic.Collector
}

// navigate walks the key from offset, where t is the type of the text before
// offset. It returns the type at the end of the key, or nil when the type
// can't be determined.
func (n *navigator) navigate(offset int, t schema.Type) schema.Type {
	for t != nil {
		if offset >= n.end {
			return t
		}

		switch n.text[offset] {
		case '.':
			if !n.dotable(t) {
				n.report(diagnostic.InvalidNavigation,
					fmt.Sprintf("Can't use '.' navigation for property '%s' of type %s", n.text[n.start:offset], n.util.NiceTypeName(t)),
					offset, n.end)

				return nil
			}

			t, offset = n.dotNavigate(offset, t)
		case '[':
			if !n.util.IsSequenceable(t) {
				n.report(diagnostic.InvalidNavigation,
					fmt.Sprintf("Can't use '[..]' navigation for property '%s' of type %s", n.text[n.start:offset], n.util.NiceTypeName(t)),
					offset, n.end)

				return nil
			}

			t, offset = n.bracketNavigate(offset, t)
		default:
			n.report(diagnostic.InvalidNavigation, "Expecting either a '.' or '['", offset, n.end)
			return nil
		}
	}

	return nil
}

// dotable reports whether '.' navigates into t. Object is not dotable so that
// the keys of a Map<String, Object> may contain dots.
func (n *navigator) dotable(t schema.Type) bool {
	switch {
	case t == nil:
		return false
	case n.util.NiceTypeName(t) == "Object":
		return false
	case n.util.IsMap(t), n.util.IsBean(t), n.util.IsSequenceable(t):
		return true
	default:
		return !n.util.IsAtomic(t)
	}
}

func (n *navigator) dotNavigate(offset int, t schema.Type) (schema.Type, int) {
	keyStart := offset + 1

	if n.util.IsMap(t) {
		domain := n.plain(n.util.DomainType(t))

		ops := "["
		if n.dotable(domain) {
			ops = ".["
		}

		keyEnd := n.nextNavOp(ops, keyStart)
		key := n.text[keyStart:keyEnd]

		if keyType := n.util.KeyType(t); keyType != nil {
			if p := n.util.ValueParser(keyType, nil); p != nil {
				if _, err := p.Parse(key); err != nil {
					n.report(diagnostic.ValueParseError, "Expecting "+n.util.NiceTypeName(keyType), keyStart, keyEnd)
				}
			}
		}

		return domain, keyEnd
	}

	keyEnd := n.nextNavOp(".[", keyStart)
	key := match.CamelCaseToHyphens(n.text[keyStart:keyEnd])

	props := n.util.PropertiesMap(t)
	if props == nil || props.Len() == 0 {
		return nil, keyEnd
	}

	prop, ok := props.Get(key)
	if !ok {
		n.report(diagnostic.UnknownProperty,
			fmt.Sprintf("Type '%s' has no property '%s'", n.util.NiceTypeName(t), key),
			keyStart, keyEnd)

		return nil, keyEnd
	}

	if prop.Deprecated {
		msg := prop.DeprecationMessage
		if !common.HasText(msg) {
			msg = schema.DeprecatedPropertyMessage(prop.Name, n.util.NiceTypeName(t), prop.DeprecationReplacement, "")
		}

		p := diagnostic.NewProblem(diagnostic.DeprecatedProperty, msg, keyStart, keyEnd)
		p.Metadata = prop
		n.problems.Accept(p)
	}

	return n.plain(prop.Type), keyEnd
}

func (n *navigator) bracketNavigate(offset int, t schema.Type) (schema.Type, int) {
	lbrack := offset

	rel := strings.IndexByte(n.text[lbrack:n.end], ']')
	if rel < 0 {
		n.report(diagnostic.InvalidNavigation, "No matching ']'", offset, offset+1)
		return nil, n.end
	}

	rbrack := lbrack + rel

	index := n.text[lbrack+1 : rbrack]
	if !strings.Contains(index, "${") {
		if _, err := strconv.Atoi(index); err != nil {
			n.report(diagnostic.InvalidNavigation,
				fmt.Sprintf("Expecting 'Integer' for '[...]' notation '%s'", n.text[n.start:lbrack]),
				lbrack+1, rbrack)
		}
	}

	return n.plain(n.util.DomainType(t)), rbrack + 1
}

// nextNavOp returns the offset of the next character from ops, or the end of
// the key.
func (n *navigator) nextNavOp(ops string, pos int) int {
	if i := strings.IndexAny(n.text[pos:n.end], ops); i >= 0 {
		return pos + i
	}

	return n.end
}

func (n *navigator) report(t diagnostic.ProblemType, msg string, start, end int) {
	n.problems.Accept(diagnostic.NewProblem(t, msg, start, end))
}
