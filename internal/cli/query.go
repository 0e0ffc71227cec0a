package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/tree"
)

// QueryOptions holds flags shared by the read commands.
type QueryOptions struct {
	*RootOptions
	Level int
	Limit int
	SQL   bool // print the compiled statement instead of running it
}

func (o *QueryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Level, "level", 0, "restrict to nodes at this depth (0 = any)")
	cmd.Flags().IntVar(&o.Limit, "limit", 0, "maximum number of nodes (0 = no limit)")
	cmd.Flags().BoolVar(&o.SQL, "sql", false, "print the compiled SQL instead of running it")
}

func (o *QueryOptions) level() pq.Predicate {
	if o.Level <= 0 {
		return nil
	}
	return pq.Level{Op: pq.Eq, N: o.Level}
}

// emit runs set (or prints its SQL) and writes the nodes.
func (o *QueryOptions) emit(ctx context.Context, s *session, set tree.Set) error {
	if o.Limit > 0 {
		set = set.Limit(o.Limit)
	}
	if o.SQL {
		sql, args, err := set.SQL()
		if err != nil {
			return err
		}
		if s.out.Format == "json" {
			return s.out.Success(map[string]any{"sql": sql, "args": args})
		}
		return s.out.Success(fmt.Sprintf("%s\n-- args: %v", sql, args))
	}

	nodes, err := set.Nodes(ctx)
	if err != nil {
		return err
	}
	return s.out.Nodes(nodes)
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <relation> [path...]",
		Short: "List nodes related to a set of nodes",
		Long: fmt.Sprintf(`List the nodes standing in a relation to the given nodes.

The source set is the nodes at the given paths, narrowed to --level if set.
With no paths, the source is every node at --level.

Relations: %s

Examples:
  sapling query children Top
  sapling query siblings Top.Science --sql
  sapling query ascendants-or-self --level 3`, relationList()),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := pq.ParseRelation(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid relation", err)
			}
			if len(args) == 1 && opts.Level <= 0 {
				return NewExitError(ExitCommandError, "a path or --level is required")
			}

			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				var source []pq.Predicate
				if len(args) > 1 {
					nodes := make([]tree.Node, 0, len(args)-1)
					for _, arg := range args[1:] {
						n, err := s.nodeAt(ctx, arg)
						if err != nil {
							return err
						}
						nodes = append(nodes, n)
					}
					source = append(source, s.tree.Of(nodes...).Predicate())
				}
				source = append(source, opts.level())

				return opts.emit(ctx, s, s.tree.Where(pq.Conj(source...)).Related(rel))
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}
	var text bool

	cmd := &cobra.Command{
		Use:   "match <pattern> [pattern...]",
		Short: "List nodes whose path matches a pattern",
		Long: `List nodes whose path matches an lquery pattern. Several patterns match
if any of them does. With --text the single pattern is an ltxtquery.

Examples:
  sapling match '*.Astronomy.*'
  sapling match '*.!pictures@.*.Astronomy.*'
  sapling match --text 'Astro*% & !pictures@'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p pq.Predicate
			switch {
			case text && len(args) > 1:
				return NewExitError(ExitCommandError, "--text takes exactly one pattern")
			case text:
				p = pq.MatchText{Query: args[0]}
			case len(args) > 1:
				p = pq.MatchAny{Queries: args}
			default:
				p = pq.Match{Query: args[0]}
			}

			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return opts.emit(ctx, s, s.tree.Where(pq.Conj(p, opts.level())))
			})
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "treat the pattern as an ltxtquery")
	opts.bind(cmd)
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List nodes in depth, path order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return opts.emit(ctx, s, s.tree.All().Where(opts.level()))
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

// NewOutlineCommand creates the outline command.
func NewOutlineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outline <path>",
		Short: "Show a subtree with children in sibling order",
		Long: `Show the subtree rooted at path, one node per line, indented by depth,
children in sibling order. JSON output is the nested outline.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				root, err := s.nodeAt(ctx, args[0])
				if err != nil {
					return err
				}
				out, err := s.tree.Outline(ctx, root)
				if err != nil {
					return err
				}
				if s.out.Format == "json" {
					return s.out.Success(outlineView(out))
				}

				var b strings.Builder
				out.Walk(func(o *tree.Outline, depth int) {
					fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), o.Label)
				})
				fmt.Fprint(s.out.Writer, b.String())
				return nil
			})
		},
	}
}

// OutlineView is the JSON shape of an outline.
type OutlineView struct {
	NodeView
	Label    string         `json:"label"`
	IsLast   bool           `json:"is_last"`
	Children []*OutlineView `json:"children,omitempty"`
}

func outlineView(o *tree.Outline) *OutlineView {
	v := &OutlineView{NodeView: viewOf(o.Node), Label: o.Label, IsLast: o.IsLast}
	for _, c := range o.Children {
		v.Children = append(v.Children, outlineView(c))
	}
	return v
}

func relationList() string {
	rels := pq.Relations()
	names := make([]string, len(rels))
	for i, r := range rels {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
