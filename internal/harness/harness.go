package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/store"
	"github.com/roach88/sapling/internal/testutil"
	"github.com/roach88/sapling/internal/tree"
)

// Harness executes one scenario against its own in-memory tree.
type Harness struct {
	tree   *tree.Tree
	names  *names
	logger *slog.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	alloc  position.Allocator
	logger *slog.Logger
}

// WithAllocator runs scenarios with a specific position allocator.
func WithAllocator(a position.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithLogger sets the logger for step progress. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with sequential node
// ids, so the same scenario always produces the same trace.
//
// A returned error means the scenario could not be executed at all; a
// failing step or assertion is reported in Result.Errors instead.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{
		alloc:  position.BinaryAllocator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		tree: tree.New(st,
			tree.WithAllocator(o.alloc),
			tree.WithIDGenerator(testutil.NewSequentialIDs("")),
			tree.WithLogger(o.logger),
		),
		names:  newNames(),
		logger: o.logger,
	}

	result := NewResult(scenario.Name)
	if !h.executeSteps(ctx, scenario.Steps, result) {
		return result, nil
	}

	actx := &AssertionContext{Ctx: ctx, Tree: h.tree, names: h.names}
	for _, msg := range EvaluateAssertions(actx, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// RunAll runs scenarios concurrently, at most limit at a time (limit <= 0
// means no limit). Results are in scenario order.
func RunAll(ctx context.Context, scenarios []*Scenario, limit int, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			res, err := Run(gctx, sc, opts...)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// executeSteps runs the steps in order. It stops at the first step that
// does not behave as expected and reports false.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) bool {
	for i, step := range steps {
		entry := TraceEntry{Step: i + 1, Op: step.Op, Name: step.As}

		n, err := h.execute(ctx, step)
		switch {
		case err != nil && step.ExpectError == "":
			result.AddError(fmt.Sprintf("step %d (%s): %v", i+1, step.Op, err))
			return false
		case err != nil && !strings.Contains(err.Error(), step.ExpectError):
			result.AddError(fmt.Sprintf("step %d (%s): error %q does not contain %q", i+1, step.Op, err, step.ExpectError))
			return false
		case err == nil && step.ExpectError != "":
			result.AddError(fmt.Sprintf("step %d (%s): expected error containing %q", i+1, step.Op, step.ExpectError))
			return false
		}

		if err != nil {
			entry.Failed = true
			if entry.Name == "" {
				entry.Name = step.Ref + step.Path
			}
		} else {
			if entry.Name == "" {
				entry.Name = h.names.name(n)
			}
			entry.ID = n.ID
			entry.Path = string(n.Path)
		}
		result.Trace = append(result.Trace, entry)

		h.logger.Debug("step completed",
			"step", i+1,
			"op", step.Op,
			"name", entry.Name,
			"path", entry.Path,
			"failed", entry.Failed,
		)
	}
	return true
}

func (h *Harness) execute(ctx context.Context, step Step) (tree.Node, error) {
	slot := position.Last
	if step.Slot != "" {
		var err error
		if slot, err = position.ParseSlot(step.Slot); err != nil {
			return tree.Node{}, err
		}
	}

	var (
		n   tree.Node
		err error
	)
	switch step.Op {
	case OpAddRoot:
		n, err = h.tree.AddRoot(ctx)
	case OpAddChild:
		var parent tree.Node
		if parent, err = h.names.node(step.Ref); err == nil {
			n, err = h.tree.AddChild(ctx, parent, slot)
		}
	case OpAddSibling:
		var ref tree.Node
		if ref, err = h.names.node(step.Ref); err == nil {
			n, err = h.tree.AddSibling(ctx, ref, slot)
		}
	case OpCreate:
		var path ltree.Path
		if path, err = ltree.Parse(step.Path); err == nil {
			n, err = h.tree.Create(ctx, path)
		}
		if step.As == "" {
			step.As = step.Path
		}
	case OpDelete:
		var root tree.Node
		if root, err = h.names.node(step.Ref); err == nil {
			_, err = h.tree.Delete(ctx, root)
			n = root
		}
		return n, err
	default:
		err = fmt.Errorf("unknown op %q", step.Op)
	}

	if err == nil && step.As != "" {
		h.names.bind(step.As, n)
	}
	return n, err
}

// errUnknownName is returned when a step or assertion names a node no
// earlier step created.
var errUnknownName = errors.New("unknown node name")

// names maps scenario names to nodes and back.
type names struct {
	byName map[string]tree.Node
	byID   map[string]string
}

func newNames() *names {
	return &names{byName: map[string]tree.Node{}, byID: map[string]string{}}
}

func (ns *names) bind(name string, n tree.Node) {
	ns.byName[name] = n
	ns.byID[n.ID] = name
}

func (ns *names) node(name string) (tree.Node, error) {
	n, ok := ns.byName[name]
	if !ok {
		return tree.Node{}, fmt.Errorf("%w: %q", errUnknownName, name)
	}
	return n, nil
}

// name returns the scenario name of n, or its path if it has none.
func (ns *names) name(n tree.Node) string {
	if name, ok := ns.byID[n.ID]; ok {
		return name
	}
	return string(n.Path)
}
