// Package yamlast converts YAML documents into a node tree whose nodes carry
// absolute source spans.
//
// gopkg.in/yaml.v3 reports only line and column marks, so the parser resolves
// start offsets through a line index and scans the source to find where each
// node ends. Mapping entries keep document order and duplicate keys.
package yamlast
