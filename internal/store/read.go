package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

const nodeColumns = "id, path, parent_path, depth, position"

// ReadNode returns the node with the given id, or ErrNotFound.
func (o ops) ReadNode(ctx context.Context, id string) (NodeRow, error) {
	row := o.q.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return NodeRow{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if err != nil {
		return NodeRow{}, fmt.Errorf("read node %s: %w", id, err)
	}
	return n, nil
}

// ReadNodeByPath returns the node at path, or ErrNotFound.
func (o ops) ReadNodeByPath(ctx context.Context, path ltree.Path) (NodeRow, error) {
	row := o.q.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE path = ?`, string(path))
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return NodeRow{}, fmt.Errorf("%w: path %s", ErrNotFound, path)
	}
	if err != nil {
		return NodeRow{}, fmt.Errorf("read node %s: %w", path, err)
	}
	return n, nil
}

// SelectNodes runs a compiled row query. The query must project the node
// columns in table order (see pathsql.Columns).
//
// Returns an empty slice (not nil) when nothing matches.
func (o ops) SelectNodes(ctx context.Context, query string, args ...any) ([]NodeRow, error) {
	rows, err := o.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []NodeRow{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// Count runs a compiled COUNT(*) query.
func (o ops) Count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := o.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(s scanner) (NodeRow, error) {
	var (
		n      NodeRow
		path   string
		parent string
		pos    sql.NullString
	)
	if err := s.Scan(&n.ID, &path, &parent, &n.Depth, &pos); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NodeRow{}, err
		}
		return NodeRow{}, fmt.Errorf("scan node: %w", err)
	}
	n.Path = ltree.Path(path)
	n.ParentPath = ltree.Path(parent)
	if pos.Valid {
		n.Position = position.Position(pos.String)
	}
	return n, nil
}
