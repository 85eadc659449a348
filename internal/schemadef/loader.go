package schemadef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"yaml-reconciler/internal/schema"
)

// LoadFile reads a definition file and builds its schema.
func LoadFile(path string) (*schema.BasicSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Load(data)
}

// Load parses and builds a schema definition.
func Load(data []byte) (*schema.BasicSchema, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return Build(def)
}

// Parse parses YAML data into a Definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&def)

	return &def, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(def *Definition) {
	if def.Name == "" {
		def.Name = def.Root
	}

	for i := range def.Types {
		d := &def.Types[i].Def
		if d.Kind == "" {
			d.Kind = inferKind(d)
		}
	}
}

// inferKind guesses the kind of a definition that does not name one.
func inferKind(d *TypeDef) Kind {
	switch {
	case len(d.Properties) > 0:
		return KindBean
	case d.Of != "":
		return KindSeq
	case d.Value != "":
		return KindMap
	case len(d.Values) > 0:
		return KindEnum
	case len(d.Members) > 0:
		return KindUnion
	default:
		return KindAtomic
	}
}
