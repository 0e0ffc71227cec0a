package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sapling/internal/ltree"
	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/pathsql"
	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/store"
)

// Tree is the mutation and traversal API over one node table.
//
// Thread-safety: all methods are safe for concurrent use. Ordered inserts
// under the same parent are serialized in-process; across processes the
// store's sibling uniqueness constraint arbitrates.
type Tree struct {
	store   *store.Store
	alloc   position.Allocator
	ids     IDGenerator
	log     *slog.Logger
	metrics *Metrics
	locks   *parentLocks
}

// Option configures a Tree.
type Option func(*Tree)

// WithAllocator sets the position allocator. Default: position.BinaryAllocator.
func WithAllocator(a position.Allocator) Option {
	return func(t *Tree) {
		t.alloc = a
	}
}

// WithIDGenerator sets the node identity source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Tree) {
		t.ids = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		t.log = l
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(t *Tree) {
		t.metrics = m
	}
}

// New creates a Tree over s.
func New(s *store.Store, opts ...Option) *Tree {
	t := &Tree{
		store: s,
		alloc: position.BinaryAllocator{},
		ids:   UUIDv7Generator{},
		log:   slog.Default(),
		locks: newParentLocks(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// nodeReader is implemented by both *store.Store and *store.Tx.
type nodeReader interface {
	ReadNode(ctx context.Context, id string) (store.NodeRow, error)
	SelectNodes(ctx context.Context, query string, args ...any) ([]store.NodeRow, error)
}

// orderedOnly restricts a scope to rows that carry a position.
var orderedOnly = pq.PositionCmp{Op: pq.Ge, Position: position.FromUint64(0)}

// Get returns the node with the given id.
func (t *Tree) Get(ctx context.Context, id string) (Node, error) {
	row, err := t.store.ReadNode(ctx, id)
	if err != nil {
		return Node{}, err
	}
	return fromRow(row), nil
}

// GetByPath returns the node at path.
func (t *Tree) GetByPath(ctx context.Context, path ltree.Path) (Node, error) {
	row, err := t.store.ReadNodeByPath(ctx, path)
	if err != nil {
		return Node{}, err
	}
	return fromRow(row), nil
}

// AddRoot creates an ordered root after every existing ordered root.
func (t *Tree) AddRoot(ctx context.Context) (Node, error) {
	return t.insertOrdered(ctx, "add_root", "", position.Right, func(ctx context.Context, r nodeReader) (position.Neighbors, error) {
		last, err := t.edge(ctx, r, pq.Level{Op: pq.Eq, N: 1}, pathsql.OrderPositionDesc)
		if err != nil {
			return position.Neighbors{}, err
		}
		return position.Neighbors{Current: last}, nil
	})
}

// AddChild creates an ordered child of parent. Only First and Last are
// meaningful for a child; Left is treated as First and Right as Last.
func (t *Tree) AddChild(ctx context.Context, parent Node, slot position.Slot) (Node, error) {
	switch slot {
	case position.Left:
		slot = position.First
	case position.Right:
		slot = position.Last
	}

	return t.insertOrdered(ctx, "add_child", parent.Path, slot, func(ctx context.Context, r nodeReader) (position.Neighbors, error) {
		row, err := r.ReadNode(ctx, parent.ID)
		if errors.Is(err, store.ErrNotFound) {
			return position.Neighbors{}, fmt.Errorf("%w: %s", ErrParentNotFound, parent)
		}
		if err != nil {
			return position.Neighbors{}, err
		}
		if row.Path != parent.Path {
			return position.Neighbors{}, fmt.Errorf("%w: %s is stored at %s", ErrParentNotFound, parent, row.Path)
		}

		scope := pq.ChildrenOf(pq.IDIn{IDs: []string{parent.ID}})
		first, err := t.edge(ctx, r, scope, pathsql.OrderPosition)
		if err != nil {
			return position.Neighbors{}, err
		}
		last, err := t.edge(ctx, r, scope, pathsql.OrderPositionDesc)
		if err != nil {
			return position.Neighbors{}, err
		}
		return position.Neighbors{Left: first, Right: last}, nil
	})
}

// AddSibling creates an ordered sibling of ref at slot: First or Last among
// ref's siblings, or immediately Left or Right of ref.
func (t *Tree) AddSibling(ctx context.Context, ref Node, slot position.Slot) (Node, error) {
	parent, err := ref.Path.Parent()
	if err != nil {
		parent = ""
	}

	return t.insertOrdered(ctx, "add_sibling", parent, slot, func(ctx context.Context, r nodeReader) (position.Neighbors, error) {
		row, err := r.ReadNode(ctx, ref.ID)
		if err != nil {
			return position.Neighbors{}, err
		}
		if row.Path != ref.Path {
			return position.Neighbors{}, fmt.Errorf("%w: %s is stored at %s", store.ErrNotFound, ref, row.Path)
		}
		if row.Position.IsZero() {
			return position.Neighbors{}, fmt.Errorf("%w: %s", ErrUnordered, ref)
		}
		cur := row.Position

		// Siblings including ref itself.
		self := pq.IDIn{IDs: []string{ref.ID}}
		scope := pq.Or{Predicates: []pq.Predicate{pq.SiblingsOf(self), self}}

		switch slot {
		case position.First:
			first, err := t.edge(ctx, r, scope, pathsql.OrderPosition)
			return position.Neighbors{Left: first}, err
		case position.Last:
			last, err := t.edge(ctx, r, scope, pathsql.OrderPositionDesc)
			return position.Neighbors{Right: last}, err
		case position.Left:
			before := pq.And{Predicates: []pq.Predicate{scope, pq.PositionCmp{Op: pq.Lt, Position: cur}}}
			prev, err := t.edge(ctx, r, before, pathsql.OrderPositionDesc)
			return position.Neighbors{Left: prev, Current: &cur}, err
		case position.Right:
			after := pq.And{Predicates: []pq.Predicate{scope, pq.PositionCmp{Op: pq.Gt, Position: cur}}}
			next, err := t.edge(ctx, r, after, pathsql.OrderPosition)
			return position.Neighbors{Current: &cur, Right: next}, err
		default:
			return position.Neighbors{}, fmt.Errorf("add sibling: invalid slot %v", slot)
		}
	})
}

type neighborFunc func(ctx context.Context, r nodeReader) (position.Neighbors, error)

// insertOrdered runs the read-allocate-insert sequence for one new node
// under parent ("" for roots).
func (t *Tree) insertOrdered(ctx context.Context, op string, parent ltree.Path, slot position.Slot, neighbors neighborFunc) (node Node, err error) {
	defer func() { t.metrics.recordMutation(op, err) }()

	unlock := t.locks.lock(parent)
	defer unlock()

	id := t.ids.Generate()
	err = t.store.InTx(ctx, func(tx *store.Tx) error {
		n, err := neighbors(ctx, tx)
		if err != nil {
			return err
		}

		pos, err := t.alloc.Allocate(n, slot)
		t.metrics.recordAllocation(slot, err)
		if err != nil {
			return err
		}

		path, err := ltree.Join(parent, string(pos))
		if err != nil {
			return err
		}

		row := store.NewNodeRow(id, path, pos)
		if err := tx.InsertNode(ctx, row); err != nil {
			return err
		}
		node = fromRow(row)
		return nil
	})
	if err != nil {
		t.log.Debug("ordered insert failed", "op", op, "parent", parent, "slot", slot, "error", err)
		return Node{}, fmt.Errorf("%s: %w", op, err)
	}

	t.log.Debug("node inserted", "op", op, "id", node.ID, "path", node.Path, "position", node.Position)
	return node, nil
}

// edge returns the position of the first row of scope in the given order,
// or nil if scope has no ordered rows.
func (t *Tree) edge(ctx context.Context, r nodeReader, scope pq.Predicate, order pathsql.Order) (*position.Position, error) {
	sql, args, err := pathsql.NewCompiler().Compile(pathsql.Select{
		Where: pq.Conj(scope, orderedOnly),
		Order: order,
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	rows, err := r.SelectNodes(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Position.Ptr(), nil
}

// Create inserts an unordered node at an explicit path. The parent path
// must already exist unless path is a root.
func (t *Tree) Create(ctx context.Context, path ltree.Path) (node Node, err error) {
	defer func() { t.metrics.recordMutation("create", err) }()

	if _, err := ltree.Parse(string(path)); err != nil {
		return Node{}, fmt.Errorf("create: %w", err)
	}
	parent, perr := path.Parent()
	if perr != nil {
		parent = ""
	}

	unlock := t.locks.lock(parent)
	defer unlock()

	row := store.NewNodeRow(t.ids.Generate(), path, "")
	err = t.store.InTx(ctx, func(tx *store.Tx) error {
		if parent != "" {
			if _, err := tx.ReadNodeByPath(ctx, parent); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrParentNotFound, parent)
				}
				return err
			}
		}
		return tx.InsertNode(ctx, row)
	})
	if err != nil {
		t.log.Debug("create failed", "path", path, "error", err)
		return Node{}, fmt.Errorf("create: %w", err)
	}

	t.log.Debug("node inserted", "op", "create", "id", row.ID, "path", row.Path)
	return fromRow(row), nil
}

// Delete removes n and all of its descendants and returns the number of
// rows removed.
func (t *Tree) Delete(ctx context.Context, n Node) (removed int64, err error) {
	defer func() { t.metrics.recordMutation("delete", err) }()

	parent, perr := n.Path.Parent()
	if perr != nil {
		parent = ""
	}
	unlock := t.locks.lock(parent)
	defer unlock()

	err = t.store.InTx(ctx, func(tx *store.Tx) error {
		row, err := tx.ReadNode(ctx, n.ID)
		if err != nil {
			return err
		}
		removed, err = tx.DeleteSubtree(ctx, row.Path)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}

	t.log.Debug("subtree deleted", "id", n.ID, "path", n.Path, "removed", removed)
	return removed, nil
}
