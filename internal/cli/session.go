package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sapling/internal/lquery"
	"github.com/roach88/sapling/internal/ltree"
	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/store"
	"github.com/roach88/sapling/internal/tree"
)

// session is an open database with a tree configured from the root
// options.
type session struct {
	store *store.Store
	tree  *tree.Tree
	out   *OutputFormatter
}

func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	alloc, err := opts.Settings.Allocator()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid strategy", err)
	}

	slog.Debug("opening database", "path", opts.Settings.Database, "strategy", opts.Settings.Strategy)
	st, err := store.Open(opts.Settings.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &session{
		store: st,
		tree:  tree.New(st, tree.WithAllocator(alloc), tree.WithLogger(slog.Default())),
		out:   &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// withSession opens a session, runs fn and closes the session.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return classify(fn(ctx, s))
}

// nodeAt looks up the node at a path argument.
func (s *session) nodeAt(ctx context.Context, arg string) (tree.Node, error) {
	path, err := ltree.Parse(arg)
	if err != nil {
		return tree.Node{}, err
	}
	return s.tree.GetByPath(ctx, path)
}

// classify attaches an exit code to err. Input the user can fix is a
// command error; everything else is a failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var syntaxErr *lquery.SyntaxError
	switch {
	case errors.As(err, &syntaxErr),
		errors.Is(err, ltree.ErrInvalidLabel),
		errors.Is(err, ltree.ErrPathTooLong),
		errors.Is(err, pq.ErrInvalidPredicate),
		errors.Is(err, pq.ErrUnresolvedRelation),
		errors.Is(err, position.ErrInvalidPosition):
		return WrapExitError(ExitCommandError, "invalid input", err)
	default:
		return WrapExitError(ExitFailure, "operation failed", err)
	}
}

func parseSlot(s string) (position.Slot, error) {
	slot, err := position.ParseSlot(s)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid slot", err)
	}
	return slot, nil
}
