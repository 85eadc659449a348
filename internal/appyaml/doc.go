// Package appyaml checks Spring Boot application.yml files against a property
// metadata index. Nested mappings spell out dotted property names; once a key
// path reaches a known property its value is checked by the reconcile engine
// against the property's type.
package appyaml
