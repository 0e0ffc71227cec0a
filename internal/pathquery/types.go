package pathquery

import (
	"errors"
	"fmt"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

// ErrUnresolvedRelation is returned for relation values with no defined
// semantics.
var ErrUnresolvedRelation = errors.New("unresolved relation")

// Predicate selects a set of nodes.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// CmpOp is a comparison operator for Level and PositionCmp.
type CmpOp int

const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var cmpSymbols = map[CmpOp]string{Eq: "=", Ne: "<>", Lt: "<", Le: "<=", Gt: ">", Ge: ">="}

// Symbol returns the SQL spelling of the operator, or "" if op is unknown.
func (op CmpOp) Symbol() string {
	return cmpSymbols[op]
}

func (op CmpOp) String() string {
	if s, ok := cmpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("CmpOp(%d)", int(op))
}

// All selects every node.
type All struct{}

func (All) predicateNode() {}

// IDIn selects nodes by identity. An empty list selects nothing.
type IDIn struct {
	IDs []string
}

func (IDIn) predicateNode() {}

// PathIn selects nodes whose path is one of Paths.
type PathIn struct {
	Paths []ltree.Path
}

func (PathIn) predicateNode() {}

// Level filters on depth (ltree nlevel).
//
//	Level{Op: Eq, N: 2}  →  nlevel(path) = 2
type Level struct {
	Op CmpOp
	N  int
}

func (Level) predicateNode() {}

// Match selects nodes whose path matches an lquery pattern (ltree "~").
// The pattern is passed to the storage engine unchanged.
type Match struct {
	Query string
}

func (Match) predicateNode() {}

// MatchText selects nodes whose path satisfies an ltxtquery (ltree "@").
type MatchText struct {
	Query string
}

func (MatchText) predicateNode() {}

// MatchAny selects nodes whose path matches any of the lquery patterns
// (ltree "?"). An empty list selects nothing.
type MatchAny struct {
	Queries []string
}

func (MatchAny) predicateNode() {}

// AncestorOf selects nodes whose path is an ancestor of Path or equal to it
// (path @> Path).
type AncestorOf struct {
	Path ltree.Path
}

func (AncestorOf) predicateNode() {}

// DescendantOf selects nodes whose path is a descendant of Path or equal to
// it (path <@ Path).
type DescendantOf struct {
	Path ltree.Path
}

func (DescendantOf) predicateNode() {}

// PositionCmp compares the sibling position token. Unordered nodes never
// match.
type PositionCmp struct {
	Op       CmpOp
	Position position.Position
}

func (PositionCmp) predicateNode() {}

// And is a conjunction. Empty means always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. Empty means always false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Relation names a tree relationship between a candidate node and the
// nodes of a source set.
type Relation int

const (
	// RelAscendants: strict ancestors of some source node. Source rows are
	// excluded by identity.
	RelAscendants Relation = iota + 1

	// RelDescendants: strict descendants of some source node.
	RelDescendants

	// RelChildren: nodes exactly one level below some source node.
	RelChildren

	// RelSiblings: other children of a source node's parent; for roots,
	// the other roots. Source rows are excluded by identity.
	RelSiblings

	// RelAscendantsOrSelf: ancestor-or-equal containment, nothing excluded.
	RelAscendantsOrSelf

	// RelDescendantsOrSelf: descendant-or-equal containment, nothing
	// excluded.
	RelDescendantsOrSelf
)

var relationNames = map[Relation]string{
	RelAscendants:        "ascendants",
	RelDescendants:       "descendants",
	RelChildren:          "children",
	RelSiblings:          "siblings",
	RelAscendantsOrSelf:  "ascendants-or-self",
	RelDescendantsOrSelf: "descendants-or-self",
}

func (r Relation) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Relation(%d)", int(r))
}

// Valid reports whether r is a defined relation.
func (r Relation) Valid() bool {
	_, ok := relationNames[r]
	return ok
}

// ParseRelation resolves a relation name such as "children".
func ParseRelation(name string) (Relation, error) {
	for r, n := range relationNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnresolvedRelation, name)
}

// Relations lists every defined relation in declaration order.
func Relations() []Relation {
	return []Relation{
		RelAscendants, RelDescendants, RelChildren, RelSiblings,
		RelAscendantsOrSelf, RelDescendantsOrSelf,
	}
}

// Related selects the nodes standing in Relation to some node of Source.
type Related struct {
	Relation Relation
	Source   Predicate
}

func (Related) predicateNode() {}

// AscendantsOf returns the strict ancestors of src.
func AscendantsOf(src Predicate) Related {
	return Related{Relation: RelAscendants, Source: src}
}

// DescendantsOf returns the strict descendants of src.
func DescendantsOf(src Predicate) Related {
	return Related{Relation: RelDescendants, Source: src}
}

// ChildrenOf returns the immediate children of src.
func ChildrenOf(src Predicate) Related {
	return Related{Relation: RelChildren, Source: src}
}

// SiblingsOf returns the siblings of src.
func SiblingsOf(src Predicate) Related {
	return Related{Relation: RelSiblings, Source: src}
}

// AscendantsOrSelfOf returns src together with its ancestors.
func AscendantsOrSelfOf(src Predicate) Related {
	return Related{Relation: RelAscendantsOrSelf, Source: src}
}

// DescendantsOrSelfOf returns src together with its descendants.
func DescendantsOrSelfOf(src Predicate) Related {
	return Related{Relation: RelDescendantsOrSelf, Source: src}
}

// Conj builds an And, flattening nested Ands and dropping nil and All.
func Conj(preds ...Predicate) Predicate {
	var out []Predicate
	for _, p := range preds {
		switch v := p.(type) {
		case nil, All:
			continue
		case And:
			out = append(out, v.Predicates...)
		default:
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return All{}
	case 1:
		return out[0]
	default:
		return And{Predicates: out}
	}
}
