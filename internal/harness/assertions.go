package harness

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/tree"
)

// AssertionContext provides what assertions evaluate against.
type AssertionContext struct {
	Ctx  context.Context
	Tree *tree.Tree

	names *names
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates every assertion and returns the failure
// messages. An empty slice means all assertions passed.
func EvaluateAssertions(actx *AssertionContext, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(actx, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(actx *AssertionContext, a Assertion) error {
	switch a.Type {
	case AssertRelation:
		return assertRelation(actx, a)
	case AssertMatch:
		return assertSet(actx, a.Type, actx.Tree.Where(pq.Match{Query: a.Query}), a.Expect)
	case AssertMatchText:
		return assertSet(actx, a.Type, actx.Tree.Where(pq.MatchText{Query: a.Query}), a.Expect)
	case AssertOrder:
		return assertOrder(actx, a)
	case AssertCount:
		return assertCount(actx, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertRelation checks rel applied to the source nodes. The source is the
// named nodes, the nodes at the given level, or both intersected.
func assertRelation(actx *AssertionContext, a Assertion) error {
	rel, err := pq.ParseRelation(a.Relation)
	if err != nil {
		return err
	}

	var source []pq.Predicate
	if len(a.Of) > 0 {
		nodes, err := actx.resolve(a.Of)
		if err != nil {
			return err
		}
		source = append(source, actx.Tree.Of(nodes...).Predicate())
	}
	if a.Level > 0 {
		source = append(source, pq.Level{Op: pq.Eq, N: a.Level})
	}

	set := actx.Tree.Where(pq.Conj(source...)).Related(rel)
	return assertSet(actx, a.Type, set, a.Expect)
}

// assertOrder checks the exact order of the children of the named parent,
// or of the whole tree when no parent is given.
func assertOrder(actx *AssertionContext, a Assertion) error {
	set := actx.Tree.All()
	if len(a.Of) == 1 {
		parents, err := actx.resolve(a.Of)
		if err != nil {
			return err
		}
		set = actx.Tree.Children(parents[0])
	}

	got, err := actx.nameSet(set)
	if err != nil {
		return err
	}
	if !slices.Equal(got, a.Expect) {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: "[" + strings.Join(a.Expect, ", ") + "]",
			Actual:   "[" + strings.Join(got, ", ") + "]",
		}
	}
	return nil
}

func assertCount(actx *AssertionContext, a Assertion) error {
	n, err := actx.Tree.All().Count(actx.Ctx)
	if err != nil {
		return err
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d nodes", a.Count),
			Actual:   fmt.Sprintf("%d nodes", n),
		}
	}
	return nil
}

// assertSet compares the selection against the expected names, ignoring
// order.
func assertSet(actx *AssertionContext, typ string, set tree.Set, expect []string) error {
	got, err := actx.nameSet(set)
	if err != nil {
		return err
	}
	want := append([]string{}, expect...)
	sort.Strings(got)
	sort.Strings(want)

	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     typ,
			Expected: "[" + strings.Join(want, ", ") + "]",
			Actual:   "[" + strings.Join(got, ", ") + "]",
		}
	}
	return nil
}

func (actx *AssertionContext) nameSet(set tree.Set) ([]string, error) {
	nodes, err := set.Nodes(actx.Ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = actx.names.name(n)
	}
	return out, nil
}

func (actx *AssertionContext) resolve(names []string) ([]tree.Node, error) {
	nodes := make([]tree.Node, len(names))
	for i, name := range names {
		n, err := actx.names.node(name)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}
