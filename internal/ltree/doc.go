// Package ltree implements materialized label paths.
//
// A path is a non-empty sequence of labels joined by ".", for example
// "Top.Science.Astronomy". Labels are restricted to ASCII letters, digits
// and underscore. The encoding is the one used by the PostgreSQL ltree
// extension, which lets the same strings be stored in SQLite and compared
// with plain text operators.
//
// # Limits
//
//   - A label is 1..MaxLabelLen bytes.
//   - An encoded path is at most MaxPathLen bytes.
//
// # Containment
//
// Ancestry is label-wise, never byte-prefix: "Top.Sci" is not an ancestor of
// "Top.Science". IsAncestorOf and IsDescendantOf include equality, mirroring
// the ltree "@>" and "<@" operators.
//
// Everything in this package is pure and safe for concurrent use.
package ltree
