// Package reconcile walks YAML node trees against a schema and reports problems.
//
// The Engine visits every document root with the schema's top level type,
// checking node shapes, bean properties, duplicate keys, deprecations and
// scalar values. Constraints attached to types are queued during the walk and
// verified once the whole file has been visited.
package reconcile
