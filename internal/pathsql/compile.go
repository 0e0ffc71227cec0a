// Package pathsql compiles pathquery predicates to parameterized SQLite SQL.
//
// The generated SQL relies on the ltree functions the store registers on
// every connection: ltree_isancestor, ltree_match, ltree_match_text,
// ltree_subpath and ltree_nlevel.
//
// CRITICAL: every row query carries an ORDER BY with a total order.
// CRITICAL: values are always bound as parameters, never interpolated.
package pathsql

import (
	"fmt"
	"strings"

	"github.com/roach88/sapling/internal/pathquery"
)

// Table is the node table every query reads from.
const Table = "nodes"

// Columns is the projection of every row query, in scan order.
var Columns = []string{"id", "path", "parent_path", "depth", "position"}

// Order selects the ORDER BY of a row query.
type Order int

const (
	// OrderDefault sorts by depth then path (ltree nlevel, path).
	OrderDefault Order = iota
	// OrderPosition sorts siblings by position, unordered nodes first.
	OrderPosition
	// OrderPositionDesc is OrderPosition reversed.
	OrderPositionDesc
)

func (o Order) String() string {
	switch o {
	case OrderDefault:
		return "default"
	case OrderPosition:
		return "position"
	case OrderPositionDesc:
		return "position-desc"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Select is a row query over the node table.
type Select struct {
	// Where filters rows. Nil selects every node.
	Where pathquery.Predicate
	Order Order
	// Limit caps the result size when positive.
	Limit int
}

// Compiler compiles predicates to SQL. Table aliases are numbered per
// compilation (t0 is always the outer row), so output is deterministic.
//
// A Compiler is not safe for concurrent use.
type Compiler struct {
	aliases int
}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile converts a Select to (sql, params).
//
// The predicate is validated first; pattern syntax errors come back as
// *lquery.SyntaxError and unknown relations as pathquery.ErrUnresolvedRelation.
func (c *Compiler) Compile(q Select) (string, []any, error) {
	t, cond, params, err := c.where(q.Where)
	if err != nil {
		return "", nil, err
	}

	order, err := orderBy(q.Order, t)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s AS %s WHERE %s ORDER BY %s",
		projection(t), Table, t, cond, order)

	if q.Limit > 0 {
		sql += " LIMIT ?"
		params = append(params, int64(q.Limit))
	}
	return sql, params, nil
}

// CompileCount converts a predicate to a COUNT(*) query.
func (c *Compiler) CompileCount(where pathquery.Predicate) (string, []any, error) {
	t, cond, params, err := c.where(where)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s AS %s WHERE %s", Table, t, cond), params, nil
}

func (c *Compiler) where(p pathquery.Predicate) (string, string, []any, error) {
	if p == nil {
		p = pathquery.All{}
	}
	if err := pathquery.Validate(p).Err(); err != nil {
		return "", "", nil, fmt.Errorf("compile: %w", err)
	}

	c.aliases = 0
	t := c.alias()
	cond, params, err := c.predicate(p, t)
	if err != nil {
		return "", "", nil, fmt.Errorf("compile: %w", err)
	}
	return t, cond, params, nil
}

func (c *Compiler) alias() string {
	a := fmt.Sprintf("t%d", c.aliases)
	c.aliases++
	return a
}

func projection(t string) string {
	cols := make([]string, len(Columns))
	for i, col := range Columns {
		cols[i] = t + "." + col
	}
	return strings.Join(cols, ", ")
}

func orderBy(o Order, t string) (string, error) {
	switch o {
	case OrderDefault:
		return fmt.Sprintf("%[1]s.depth ASC, %[1]s.path COLLATE BINARY ASC", t), nil
	case OrderPosition:
		return fmt.Sprintf("%[1]s.position COLLATE BINARY ASC, %[1]s.path COLLATE BINARY ASC", t), nil
	case OrderPositionDesc:
		return fmt.Sprintf("%[1]s.position COLLATE BINARY DESC, %[1]s.path COLLATE BINARY DESC", t), nil
	default:
		return "", fmt.Errorf("compile: unsupported order %v", o)
	}
}

// predicate compiles p as a condition on the row aliased t.
func (c *Compiler) predicate(p pathquery.Predicate, t string) (string, []any, error) {
	switch pred := p.(type) {
	case pathquery.All:
		return "1 = 1", nil, nil

	case pathquery.IDIn:
		if len(pred.IDs) == 0 {
			return "1 = 0", nil, nil
		}
		params := make([]any, len(pred.IDs))
		for i, id := range pred.IDs {
			params[i] = id
		}
		return fmt.Sprintf("%s.id IN (%s)", t, placeholders(len(params))), params, nil

	case pathquery.PathIn:
		if len(pred.Paths) == 0 {
			return "1 = 0", nil, nil
		}
		params := make([]any, len(pred.Paths))
		for i, path := range pred.Paths {
			params[i] = string(path)
		}
		return fmt.Sprintf("%s.path IN (%s)", t, placeholders(len(params))), params, nil

	case pathquery.Level:
		return fmt.Sprintf("%s.depth %s ?", t, pred.Op.Symbol()), []any{int64(pred.N)}, nil

	case pathquery.Match:
		return fmt.Sprintf("ltree_match(%s.path, ?)", t), []any{pred.Query}, nil

	case pathquery.MatchText:
		return fmt.Sprintf("ltree_match_text(%s.path, ?)", t), []any{pred.Query}, nil

	case pathquery.MatchAny:
		if len(pred.Queries) == 0 {
			return "1 = 0", nil, nil
		}
		parts := make([]string, len(pred.Queries))
		params := make([]any, len(pred.Queries))
		for i, q := range pred.Queries {
			parts[i] = fmt.Sprintf("ltree_match(%s.path, ?)", t)
			params[i] = q
		}
		return "(" + strings.Join(parts, " OR ") + ")", params, nil

	case pathquery.AncestorOf:
		return fmt.Sprintf("ltree_isancestor(%s.path, ?)", t), []any{string(pred.Path)}, nil

	case pathquery.DescendantOf:
		return fmt.Sprintf("ltree_isancestor(?, %s.path)", t), []any{string(pred.Path)}, nil

	case pathquery.PositionCmp:
		// IS NOT NULL keeps the result two-valued so Not behaves on
		// unordered rows.
		return fmt.Sprintf("(%[1]s.position IS NOT NULL AND %[1]s.position %[2]s ?)", t, pred.Op.Symbol()),
			[]any{string(pred.Position)}, nil

	case pathquery.And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		return c.junction(pred.Predicates, " AND ", t)

	case pathquery.Or:
		if len(pred.Predicates) == 0 {
			return "1 = 0", nil, nil
		}
		return c.junction(pred.Predicates, " OR ", t)

	case pathquery.Not:
		sql, params, err := c.predicate(pred.Predicate, t)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", params, nil

	case pathquery.Related:
		spec, ok := relations[pred.Relation]
		if !ok {
			return "", nil, fmt.Errorf("%w: %v", pathquery.ErrUnresolvedRelation, pred.Relation)
		}
		return spec.build(c, t, pred.Source)

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *Compiler) junction(preds []pathquery.Predicate, op, t string) (string, []any, error) {
	parts := make([]string, 0, len(preds))
	var params []any
	for _, p := range preds {
		sql, ps, err := c.predicate(p, t)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	return "(" + strings.Join(parts, op) + ")", params, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
