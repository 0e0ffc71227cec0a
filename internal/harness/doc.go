// Package harness runs tree scenarios described in YAML.
//
// A scenario builds a tree from nothing, one step at a time, and then
// asserts on relations, pattern matches and sibling order. Nodes are
// referred to by the names the steps give them.
//
// # Scenario Format
//
//	name: upstream_ordered
//	description: "Ordered build of the documentation tree"
//	steps:
//	  - op: add_root
//	    as: top
//	  - op: add_child
//	    ref: top
//	    slot: first
//	    as: science
//	  - op: create
//	    path: Top
//	  - op: add_sibling
//	    ref: top
//	    expect_error: not ordered
//	assertions:
//	  - type: relation
//	    relation: descendants
//	    of: [top]
//	    expect: [science]
//	  - type: order
//	    of: [top]
//	    expect: [science]
//
// Step ops are add_root, add_child, add_sibling, create and delete. Slots
// default to last. A create step is named by its path unless it sets as.
//
// # Assertion Types
//
//   - relation: nodes standing in a relation to the of nodes (or to every
//     node at level), compared as a set
//   - match: nodes whose path matches an lquery, compared as a set
//   - match_text: nodes whose path matches an ltxtquery, compared as a set
//   - order: children of the of node in sibling order, or the whole tree
//     in default order, compared exactly
//   - count: total number of nodes
//
// # Deterministic Testing
//
// Every scenario runs in its own in-memory database with sequential node
// ids and the binary allocator, so the trace of a scenario never changes
// between runs and can be compared against a golden file.
package harness
