// Package pathquery is the predicate algebra over materialized-path nodes.
//
// A Predicate selects a set of nodes. Tree relations (ascendants,
// descendants, children, siblings) are predicates too: they take another
// predicate as their source set, so relations compose freely:
//
//	// descendants of every level-4 "Astronomy" node
//	DescendantsOf(And{Predicates: []Predicate{
//	    Level{Op: Eq, N: 4},
//	    Match{Query: "*.Astronomy"},
//	}})
//
// ARCHITECTURE:
//
//	[tree.Set] → [pathquery IR] → [pathsql compiler] → [SQLite + ltree functions]
//
// The IR only describes what to select. The pathsql package turns it into
// SQL; pattern strings (Match, MatchText, MatchAny) are handed to the
// storage engine verbatim and matched there.
//
// SEALED INTERFACES:
//
// Predicate is sealed with a marker method. Only types in this package
// implement it, so compilers can switch exhaustively.
//
// RELATIONS:
//
// Relation is a closed enum. Each relation maps to exactly one predicate
// builder in the compiler; there is no open registration. The relations
// that exclude their source exclude it by identity (node ID), never by path
// equality.
//
// Siblings of a root are defined as the other roots. This is a deliberate
// special case: a root has no parent path to build a children pattern from.
package pathquery
