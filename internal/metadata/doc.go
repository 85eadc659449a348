// Package metadata indexes Spring-style configuration property metadata.
//
// Metadata is read from *-configuration-metadata.json files with gjson. The
// Index keeps properties sorted by id so that prefix queries used while
// navigating nested YAML or dotted property names are binary searches.
// TypeResolver turns Java type strings into schema types with value parsers.
package metadata
