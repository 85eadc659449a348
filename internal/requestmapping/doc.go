// Package requestmapping parses the request mappings reported by the Spring
// Boot actuator "mappings" endpoint. Both the flat Boot 1.x format and the
// nested Boot 2.x format are understood.
package requestmapping
