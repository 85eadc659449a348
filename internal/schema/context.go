package schema

import "yaml-reconciler/internal/yamlast"

// DynamicContext describes where in a document a node being checked lives.
type DynamicContext interface {
	File() *yamlast.File
	Path() yamlast.Path
	Node() yamlast.Node
	// DefinedProperties returns the scalar keys of the node when it is a mapping.
	DefinedProperties() map[string]struct{}
}

type astContext struct {
	file    *yamlast.File
	path    yamlast.Path
	node    yamlast.Node
	defined map[string]struct{}
}

// NewASTContext binds a context to a node of file reached by path.
func NewASTContext(file *yamlast.File, path yamlast.Path, node yamlast.Node) DynamicContext {
	c := &astContext{file: file, path: path, node: node}

	if m := yamlast.AsMapping(node); m != nil {
		c.defined = yamlast.ScalarKeys(m)
	} else {
		c.defined = map[string]struct{}{}
	}

	return c
}

func (c *astContext) File() *yamlast.File {
	return c.file
}

func (c *astContext) Path() yamlast.Path {
	return c.path
}

func (c *astContext) Node() yamlast.Node {
	return c.node
}

func (c *astContext) DefinedProperties() map[string]struct{} {
	return c.defined
}
