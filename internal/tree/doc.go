// Package tree is the node entity and its mutation and traversal API.
//
// A Tree composes the pieces below it:
//
//	ltree     path codec (labels, join, parent, depth)
//	position  sibling position allocation
//	pathquery relation and pattern predicates
//	pathsql   predicate → SQL
//	store     SQLite rows and the ltree SQL functions
//
// # Ordered and unordered trees
//
// Unordered (plain) nodes are created with an explicit path via Create and
// carry no position. Ordered nodes are created with AddRoot, AddChild and
// AddSibling; their label is their position token, so a node's path is the
// chain of its ancestors' positions and sorting siblings by path sorts them
// by position.
//
// # Mutations
//
// Every ordered mutation does exactly this, inside one storage transaction
// and under the lock of the target parent:
//
//  1. read the neighbour positions through pathquery
//  2. call the Allocator once
//  3. insert one row
//
// If allocation fails (ErrSpaceExhausted) nothing is written. Existing rows
// are never modified. A race with another process that computed the same
// position surfaces as store.ErrPositionConflict; the Tree does not retry.
//
// # Traversal
//
// Set is a lazily evaluated node selection. Relations chain:
//
//	tr.Where(pathquery.Level{Op: pathquery.Eq, N: 2}).AscendantsOrSelf().Nodes(ctx)
//
// Nothing touches the database until Nodes, First, Paths or Count.
package tree
