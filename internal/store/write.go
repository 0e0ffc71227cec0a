package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

var (
	// ErrPositionConflict is returned when a sibling already holds the
	// position being inserted.
	ErrPositionConflict = errors.New("sibling position already taken")

	// ErrPathConflict is returned when a node with the same path exists.
	ErrPathConflict = errors.New("path already exists")

	// ErrIDConflict is returned when a node with the same id exists.
	ErrIDConflict = errors.New("node id already exists")

	// ErrNotFound is returned when a requested node does not exist.
	ErrNotFound = errors.New("node not found")
)

// NodeRow is one row of the nodes table.
type NodeRow struct {
	ID         string
	Path       ltree.Path
	ParentPath ltree.Path // "" for roots
	Depth      int
	Position   position.Position // zero for unordered nodes
}

// NewNodeRow derives ParentPath and Depth from path.
func NewNodeRow(id string, path ltree.Path, pos position.Position) NodeRow {
	parent, err := path.Parent()
	if err != nil {
		parent = ""
	}
	return NodeRow{
		ID:         id,
		Path:       path,
		ParentPath: parent,
		Depth:      path.Depth(),
		Position:   pos,
	}
}

// ops implements node operations over either the database or a transaction.
type ops struct {
	q dbtx
}

// dbtx is the subset of *sql.DB and *sql.Tx the node operations use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertNode writes one node row.
//
// Unique violations are reported as ErrPositionConflict, ErrPathConflict or
// ErrIDConflict so callers can tell a lost allocation race from a bad path.
func (o ops) InsertNode(ctx context.Context, row NodeRow) error {
	var pos sql.NullString
	if !row.Position.IsZero() {
		pos = sql.NullString{String: string(row.Position), Valid: true}
	}

	_, err := o.q.ExecContext(ctx, `
		INSERT INTO nodes (id, path, parent_path, depth, position)
		VALUES (?, ?, ?, ?, ?)
	`,
		row.ID,
		string(row.Path),
		string(row.ParentPath),
		row.Depth,
		pos,
	)
	if err != nil {
		return fmt.Errorf("insert node %s: %w", row.Path, mapConstraint(err))
	}
	return nil
}

// DeleteSubtree removes the node at path and all of its descendants and
// returns the number of rows removed.
func (o ops) DeleteSubtree(ctx context.Context, path ltree.Path) (int64, error) {
	res, err := o.q.ExecContext(ctx, `DELETE FROM nodes WHERE ltree_isancestor(?, path)`, string(path))
	if err != nil {
		return 0, fmt.Errorf("delete subtree %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete subtree %s: %w", path, err)
	}
	return n, nil
}

// mapConstraint translates SQLite unique violations into package errors.
func mapConstraint(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		msg := se.Error()
		switch {
		case strings.Contains(msg, "nodes.position"):
			return fmt.Errorf("%w: %v", ErrPositionConflict, err)
		case strings.Contains(msg, "nodes.path"):
			return fmt.Errorf("%w: %v", ErrPathConflict, err)
		}
	case sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", ErrIDConflict, err)
	}
	return err
}
