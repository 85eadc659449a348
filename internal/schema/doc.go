// Package schema defines the type model configuration documents are reconciled
// against.
//
// Types are built with a Factory: atomic types validated by value parsers,
// bean types with named properties, map and sequence types, unions of beans
// and context aware types whose shape is inferred from the surrounding document.
// Once sealed, types are immutable and safe to share between reconcile runs.
//
// TypeUtil answers the read-only queries used by the reconciler; it never
// fails and answers "nothing known" with nil or empty results.
package schema
