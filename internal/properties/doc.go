// Package properties parses Java .properties files and checks them against a
// property metadata index.
package properties
