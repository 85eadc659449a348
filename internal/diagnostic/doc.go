// Package diagnostic provides the problem model produced by the reconcilers:
// positioned problems, quick-fix replacements, and collectors that receive them.
//
// Key capabilities:
//   - Problem types with default severities
//   - Replacement quick fixes attached to a problem region
//   - Collectors: in-order list and duplicate filtering wrapper
//   - Per-severity grouping and line/column rendering for CLI output
package diagnostic
