package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sapling/internal/ltree"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and schema",
		Long: `Create the SQLite database if it does not exist and apply the schema.
Running init on an existing database is a no-op.

Example:
  sapling init --db ./tree.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				return s.out.Success(map[string]string{"database": opts.Settings.Database})
			})
		},
	}
}

// NewAddRootCommand creates the add-root command.
func NewAddRootCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add-root",
		Short:         "Append an ordered root",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				n, err := s.tree.AddRoot(ctx)
				if err != nil {
					return err
				}
				return s.out.Node(n)
			})
		},
	}
}

// NewAddChildCommand creates the add-child command.
func NewAddChildCommand(opts *RootOptions) *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "add-child <parent-path>",
		Short: "Insert an ordered child",
		Long: `Insert an ordered child under the node at parent-path, as its first or
last child.

Examples:
  sapling add-child 8000000000000000
  sapling add-child 8000000000000000 --slot first`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := parseSlot(slot)
			if err != nil {
				return err
			}
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				parent, err := s.nodeAt(ctx, args[0])
				if err != nil {
					return err
				}
				n, err := s.tree.AddChild(ctx, parent, sl)
				if err != nil {
					return err
				}
				return s.out.Node(n)
			})
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "last", "first or last")
	return cmd
}

// NewAddSiblingCommand creates the add-sibling command.
func NewAddSiblingCommand(opts *RootOptions) *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "add-sibling <ref-path>",
		Short: "Insert an ordered sibling",
		Long: `Insert an ordered sibling of the node at ref-path: first or last among
its siblings, or immediately left or right of it.

Example:
  sapling add-sibling 8000000000000000.8000000000000000 --slot left`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := parseSlot(slot)
			if err != nil {
				return err
			}
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				ref, err := s.nodeAt(ctx, args[0])
				if err != nil {
					return err
				}
				n, err := s.tree.AddSibling(ctx, ref, sl)
				if err != nil {
					return err
				}
				return s.out.Node(n)
			})
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "right", "first, last, left or right")
	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: "Insert an unordered node at an explicit path",
		Long: `Insert a node at an explicit label path. The parent path must exist
unless the path is a single label.

Example:
  sapling create Top.Science.Astronomy`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				path, err := ltree.Parse(args[0])
				if err != nil {
					return err
				}
				n, err := s.tree.Create(ctx, path)
				if err != nil {
					return err
				}
				return s.out.Node(n)
			})
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <path>",
		Short:         "Delete a node and its descendants",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				n, err := s.nodeAt(ctx, args[0])
				if err != nil {
					return err
				}
				removed, err := s.tree.Delete(ctx, n)
				if err != nil {
					return err
				}
				if s.out.Format == "json" {
					return s.out.Success(map[string]int64{"removed": removed})
				}
				return s.out.Success(fmt.Sprintf("removed %d node(s)", removed))
			})
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	var byID bool

	cmd := &cobra.Command{
		Use:           "get <path>",
		Short:         "Show one node",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, cmd, func(ctx context.Context, s *session) error {
				lookup := s.nodeAt
				if byID {
					lookup = s.tree.Get
				}
				n, err := lookup(ctx, args[0])
				if err != nil {
					return err
				}
				return s.out.Node(n)
			})
		},
	}

	cmd.Flags().BoolVar(&byID, "id", false, "look the node up by id instead of path")
	return cmd
}
