// Package schemadef loads schema definitions written in YAML.
//
// A definition names a root type and declares the types reachable from it:
//
//	name: person-schema
//	documents: {min: 1, max: 1}
//	root: Person
//	types:
//	  Person:
//	    kind: bean
//	    properties:
//	      name: {type: string, required: true}
//	      age: {type: age}
//	      nick: {type: string, deprecated: "use 'name'", replacement: name}
//	    one_of: [[name, nick]]
//	  age: {kind: atomic, parser: integer, min: 0, max: 150}
//	  People: {kind: seq, of: Person}
//	  Labels: {kind: map, key: string, value: string}
//	  Color: {kind: enum, values: [red, green]}
//
// Type references may name a declared type, a built-in atomic type (string,
// ne-string, integer, positive-integer, boolean, float, duration, any) or an
// inline expression such as list<Person> or map<string, integer>.
//
// Every definition error found is reported; Build returns them together as a
// *multierror.Error.
package schemadef
