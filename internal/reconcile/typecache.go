package reconcile

import (
	"yaml-reconciler/internal/schema"
	"yaml-reconciler/internal/yamlast"
)

// TypeCache is a TypeCollector remembering the type of every visited node.
// Constraints can consult it because they run after the walk.
type TypeCache struct {
	file  *yamlast.File
	types map[yamlast.Node]schema.Type
}

// NewTypeCache creates an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{types: make(map[yamlast.Node]schema.Type)}
}

func (c *TypeCache) BeginCollecting(file *yamlast.File) {
	c.file = file
	clear(c.types)
}

func (c *TypeCache) Accept(node yamlast.Node, t schema.Type) {
	c.types[node] = t
}

func (c *TypeCache) EndCollecting(*yamlast.File) {}

// TypeOf returns the type node was checked against.
func (c *TypeCache) TypeOf(node yamlast.Node) (schema.Type, bool) {
	t, ok := c.types[node]
	return t, ok
}

// NodesOfType returns the visited nodes checked against t.
func (c *TypeCache) NodesOfType(t schema.Type) []yamlast.Node {
	var result []yamlast.Node

	for n, nt := range c.types {
		if nt == t {
			result = append(result, n)
		}
	}

	return result
}
