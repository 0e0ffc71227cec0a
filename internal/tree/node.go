package tree

import (
	"fmt"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/store"
)

// Node is a stored tree node. Nodes are values; they do not track later
// changes to the database.
type Node struct {
	ID       string
	Path     ltree.Path
	Position position.Position // zero for unordered nodes
}

// Ordered reports whether the node carries a sibling position.
func (n Node) Ordered() bool {
	return !n.Position.IsZero()
}

// Label returns the last label of the node's path.
func (n Node) Label() string {
	return n.Path.Last()
}

// Depth returns the number of labels in the node's path.
func (n Node) Depth() int {
	return n.Path.Depth()
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.Path.IsRoot()
}

// String formats the node as "[id] path".
func (n Node) String() string {
	return fmt.Sprintf("[%s] %s", n.ID, n.Path)
}

func fromRow(r store.NodeRow) Node {
	return Node{ID: r.ID, Path: r.Path, Position: r.Position}
}

func fromRows(rows []store.NodeRow) []Node {
	nodes := make([]Node, len(rows))
	for i, r := range rows {
		nodes[i] = fromRow(r)
	}
	return nodes
}
