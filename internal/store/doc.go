// Package store provides SQLite-backed storage for materialized-path trees.
//
// Every node is one row:
//
//	nodes(id TEXT PK, path TEXT UNIQUE, parent_path TEXT, depth INT, position TEXT NULL)
//
// parent_path is "" for roots. position is NULL for nodes of unordered
// trees and a fixed-width token otherwise.
//
// # Critical Patterns
//
// Sibling uniqueness:
//   - UNIQUE(parent_path, position) (schema v1)
//   - A racing insert that computed the same position fails with
//     ErrPositionConflict instead of silently duplicating order
//
// Deterministic query results:
//   - All row queries carry ORDER BY with COLLATE BINARY tiebreakers
//
// # ltree Functions
//
// The driver registered as DriverName installs these pure functions on
// every connection, mirroring the PostgreSQL ltree operators:
//
//	ltree_isancestor(a, b)      a @> b (ancestor or equal)
//	ltree_nlevel(p)             nlevel(p)
//	ltree_subpath(p, off, len)  subpath(p, off, len)
//	ltree_match(p, lquery)      p ~ lquery
//	ltree_match_text(p, txt)    p @ ltxtquery
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
