// Package typeschema derives schemas from Go struct declarations.
//
// It uses golang.org/x/tools/go/packages with go/types to walk a struct and
// its field types:
//   - structs become beans, with property names taken from yaml tags
//   - slices and arrays become sequences, maps become maps
//   - basic kinds, time.Duration and time.Time become atomic types with parsers
//   - named string or integer types with declared constants become enums
//
// Field tags add requirements and deprecations:
//
//	Port     int    `yaml:"port" validate:"required"`
//	Hostname string `yaml:"hostname" deprecated:"use 'host'" replacement:"host"`
package typeschema
