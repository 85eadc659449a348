package schemadef

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind selects how a type definition is built.
type Kind string

const (
	KindAtomic Kind = "atomic"
	KindBean   Kind = "bean"
	KindSeq    Kind = "seq"
	KindMap    Kind = "map"
	KindEnum   Kind = "enum"
	KindUnion  Kind = "union"
	KindAny    Kind = "any"
)

// Definition is the top level of a schema definition file.
type Definition struct {
	Name      string         `yaml:"name"`
	Documents *DocumentRange `yaml:"documents,omitempty"`
	Root      string         `yaml:"root"`
	Types     TypeDefs       `yaml:"types"`
}

// DocumentRange bounds the number of YAML documents in a file. Nil bounds are open.
type DocumentRange struct {
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
}

// TypeDef declares one named type.
type TypeDef struct {
	Kind        Kind   `yaml:"kind"`
	Description string `yaml:"description,omitempty"`

	// atomic
	Parser string `yaml:"parser,omitempty"`
	Min    *int   `yaml:"min,omitempty"`
	Max    *int   `yaml:"max,omitempty"`

	// bean
	Properties  PropertyDefs `yaml:"properties,omitempty"`
	OneOf       [][]string   `yaml:"one_of,omitempty"`
	AtMostOneOf [][]string   `yaml:"at_most_one_of,omitempty"`

	// seq
	Of string `yaml:"of,omitempty"`

	// map
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value,omitempty"`

	// enum
	Values           []string          `yaml:"values,omitempty"`
	IgnoreCase       bool              `yaml:"ignore_case,omitempty"`
	DeprecatedValues map[string]string `yaml:"deprecated_values,omitempty"`

	// union
	Members []string `yaml:"members,omitempty"`
}

// PropertyDef declares a bean property.
type PropertyDef struct {
	Name        string      `yaml:"-"`
	Type        string      `yaml:"type"`
	Required    bool        `yaml:"required,omitempty"`
	Deprecated  Deprecation `yaml:"deprecated,omitempty"`
	Replacement string      `yaml:"replacement,omitempty"`
	Description string      `yaml:"description,omitempty"`
}

// NamedType pairs a type definition with its name.
type NamedType struct {
	Name string
	Def  TypeDef
}

// TypeDefs keeps type definitions in file order.
type TypeDefs []NamedType

// PropertyDefs keeps property definitions in file order.
type PropertyDefs []PropertyDef

// Deprecation is either a boolean or a deprecation message.
type Deprecation struct {
	Deprecated bool
	Message    string
}

// UnmarshalYAML implements custom YAML unmarshaling for TypeDefs.
// A mapping is required so that file order can be kept.
func (t *TypeDefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: types must be a mapping", node.Line)
	}

	result := make(TypeDefs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var def TypeDef
		if err := node.Content[i+1].Decode(&def); err != nil {
			return fmt.Errorf("type %q: %w", node.Content[i].Value, err)
		}

		result = append(result, NamedType{Name: node.Content[i].Value, Def: def})
	}

	*t = result

	return nil
}

// Get returns the definition named name.
func (t TypeDefs) Get(name string) (TypeDef, bool) {
	for _, nt := range t {
		if nt.Name == name {
			return nt.Def, true
		}
	}

	return TypeDef{}, false
}

// UnmarshalYAML implements custom YAML unmarshaling for PropertyDefs.
// Accepts either a full property mapping or a bare type reference:
//   - name: {type: string, required: true}
//   - name: string
func (p *PropertyDefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}

	result := make(PropertyDefs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]

		var def PropertyDef

		switch value.Kind {
		case yaml.ScalarNode:
			def.Type = value.Value
		case yaml.MappingNode:
			if err := value.Decode(&def); err != nil {
				return fmt.Errorf("property %q: %w", name, err)
			}
		default:
			return fmt.Errorf("line %d: property %q must be a type name or a mapping", value.Line, name)
		}

		def.Name = name
		result = append(result, def)
	}

	*p = result

	return nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Deprecation.
// Accepts true/false or a message, which implies deprecated.
func (d *Deprecation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: deprecated must be a boolean or a message", node.Line)
	}

	if node.ShortTag() == "!!bool" {
		return node.Decode(&d.Deprecated)
	}

	d.Deprecated = node.Value != ""
	d.Message = node.Value

	return nil
}
