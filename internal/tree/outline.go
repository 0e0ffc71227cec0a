package tree

import (
	"context"
	"fmt"

	"github.com/roach88/sapling/internal/ltree"
)

// Outline is the shape a renderer needs to draw a subtree: each node's
// label and its children in sibling order, with the last child flagged.
type Outline struct {
	Node     Node
	Label    string
	IsLast   bool
	Children []*Outline
}

// Outline loads the subtree rooted at n.
func (t *Tree) Outline(ctx context.Context, n Node) (*Outline, error) {
	// Default order is depth then path, so every parent precedes its
	// children and ordered siblings arrive in position order.
	nodes, err := t.Of(n).DescendantsOrSelf().Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("outline: node %s not found", n)
	}

	byPath := make(map[ltree.Path]*Outline, len(nodes))
	root := &Outline{Node: nodes[0], Label: nodes[0].Label(), IsLast: true}
	byPath[nodes[0].Path] = root

	for _, node := range nodes[1:] {
		o := &Outline{Node: node, Label: node.Label()}
		byPath[node.Path] = o

		parentPath, err := node.Path.Parent()
		if err != nil {
			continue
		}
		if parent, ok := byPath[parentPath]; ok {
			parent.Children = append(parent.Children, o)
		}
	}

	for _, o := range byPath {
		if k := len(o.Children); k > 0 {
			o.Children[k-1].IsLast = true
		}
	}
	return root, nil
}

// Walk visits o and its descendants depth-first, parents before children.
func (o *Outline) Walk(fn func(o *Outline, depth int)) {
	o.walk(fn, 0)
}

func (o *Outline) walk(fn func(o *Outline, depth int), depth int) {
	fn(o, depth)
	for _, c := range o.Children {
		c.walk(fn, depth+1)
	}
}
