package tree

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/sapling/internal/ltree"
	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/pathsql"
	"github.com/roach88/sapling/internal/store"
)

// Set is a lazily evaluated selection of nodes. Methods return new Sets;
// a Set is immutable and safe to share.
type Set struct {
	tree  *Tree
	where pq.Predicate
	order pathsql.Order
	limit int
}

// All selects every node.
func (t *Tree) All() Set {
	return Set{tree: t, where: pq.All{}}
}

// Where selects the nodes matching p.
func (t *Tree) Where(p pq.Predicate) Set {
	return Set{tree: t, where: p}
}

// Of selects exactly the given nodes, by identity.
func (t *Tree) Of(nodes ...Node) Set {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return t.Where(pq.IDIn{IDs: ids})
}

// Roots selects every root.
func (t *Tree) Roots() Set {
	return t.Where(pq.Level{Op: pq.Eq, N: 1})
}

// Ascendants returns the strict ancestors of n.
func (t *Tree) Ascendants(n Node) Set { return t.Of(n).Ascendants() }

// Descendants returns the strict descendants of n.
func (t *Tree) Descendants(n Node) Set { return t.Of(n).Descendants() }

// Children returns the immediate children of n, in sibling order.
func (t *Tree) Children(n Node) Set { return t.Of(n).Children().OrderBy(pathsql.OrderPosition) }

// Siblings returns the siblings of n, excluding n, in sibling order.
func (t *Tree) Siblings(n Node) Set { return t.Of(n).Siblings().OrderBy(pathsql.OrderPosition) }

// Related returns the nodes standing in rel to some node of s. Ordering and
// limit are reset.
func (s Set) Related(rel pq.Relation) Set {
	return Set{tree: s.tree, where: pq.Related{Relation: rel, Source: s.where}}
}

// Ascendants returns the strict ancestors of the nodes in s.
func (s Set) Ascendants() Set { return s.Related(pq.RelAscendants) }

// Descendants returns the strict descendants of the nodes in s.
func (s Set) Descendants() Set { return s.Related(pq.RelDescendants) }

// Children returns the immediate children of the nodes in s.
func (s Set) Children() Set { return s.Related(pq.RelChildren) }

// Siblings returns the siblings of the nodes in s, excluding s itself.
func (s Set) Siblings() Set { return s.Related(pq.RelSiblings) }

// AscendantsOrSelf returns s together with every ancestor of its nodes.
func (s Set) AscendantsOrSelf() Set { return s.Related(pq.RelAscendantsOrSelf) }

// DescendantsOrSelf returns s together with every descendant of its nodes.
func (s Set) DescendantsOrSelf() Set { return s.Related(pq.RelDescendantsOrSelf) }

// Where narrows s to the nodes also matching p.
func (s Set) Where(p pq.Predicate) Set {
	s.where = pq.Conj(s.where, p)
	return s
}

// OrderBy sets the result order.
func (s Set) OrderBy(o pathsql.Order) Set {
	s.order = o
	return s
}

// Limit caps the number of results. Zero means no limit.
func (s Set) Limit(n int) Set {
	s.limit = n
	return s
}

// Predicate returns the predicate that defines s.
func (s Set) Predicate() pq.Predicate {
	return s.where
}

// SQL returns the compiled row query for s.
func (s Set) SQL() (string, []any, error) {
	return pathsql.NewCompiler().Compile(s.selectQuery())
}

func (s Set) selectQuery() pathsql.Select {
	return pathsql.Select{Where: s.where, Order: s.order, Limit: s.limit}
}

// Nodes evaluates s.
func (s Set) Nodes(ctx context.Context) ([]Node, error) {
	defer s.tree.metrics.observeQuery("nodes", time.Now())

	if res := pq.Validate(s.where); len(res.Warnings) > 0 {
		s.tree.log.Debug("query selects nothing", "warnings", res.Warnings)
	}

	sql, args, err := s.SQL()
	if err != nil {
		return nil, err
	}
	rows, err := s.tree.store.SelectNodes(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// First returns the first node of s, or store.ErrNotFound.
func (s Set) First(ctx context.Context) (Node, error) {
	nodes, err := s.Limit(1).Nodes(ctx)
	if err != nil {
		return Node{}, err
	}
	if len(nodes) == 0 {
		return Node{}, fmt.Errorf("%w: empty selection", store.ErrNotFound)
	}
	return nodes[0], nil
}

// Paths evaluates s and returns only the paths.
func (s Set) Paths(ctx context.Context) ([]ltree.Path, error) {
	nodes, err := s.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]ltree.Path, len(nodes))
	for i, n := range nodes {
		paths[i] = n.Path
	}
	return paths, nil
}

// Count returns the number of nodes in s. Limit is ignored.
func (s Set) Count(ctx context.Context) (int, error) {
	defer s.tree.metrics.observeQuery("count", time.Now())

	sql, args, err := pathsql.NewCompiler().CompileCount(s.where)
	if err != nil {
		return 0, err
	}
	return s.tree.store.Count(ctx, sql, args...)
}
