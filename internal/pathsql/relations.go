package pathsql

import (
	"fmt"

	"github.com/roach88/sapling/internal/pathquery"
)

// relationSpec describes how a candidate row relates to a source row.
//
// join is a condition with %[1]s standing for the candidate alias and %[2]s
// for the source alias. Strict relations drop candidates that are themselves
// in the source set, compared by id.
type relationSpec struct {
	join   string
	strict bool
}

// relations is the closed table of tree relations. Every
// pathquery.Relation has exactly one entry.
var relations = map[pathquery.Relation]relationSpec{
	pathquery.RelAscendants: {
		join:   "ltree_isancestor(%[1]s.path, %[2]s.path)",
		strict: true,
	},
	pathquery.RelDescendants: {
		join:   "ltree_isancestor(%[2]s.path, %[1]s.path)",
		strict: true,
	},
	pathquery.RelChildren: {
		join: "ltree_match(%[1]s.path, %[2]s.path || '.*{1}')",
	},
	// Roots have no parent pattern; their siblings are the other roots.
	pathquery.RelSiblings: {
		join: "CASE WHEN %[2]s.depth = 1 THEN %[1]s.depth = 1 " +
			"ELSE ltree_match(%[1]s.path, ltree_subpath(%[2]s.path, 0, %[2]s.depth - 1) || '.*{1}') END",
		strict: true,
	},
	pathquery.RelAscendantsOrSelf: {
		join: "ltree_isancestor(%[1]s.path, %[2]s.path)",
	},
	pathquery.RelDescendantsOrSelf: {
		join: "ltree_isancestor(%[2]s.path, %[1]s.path)",
	},
}

// build compiles the relation as a condition on the candidate alias t:
//
//	EXISTS (SELECT 1 FROM nodes AS s WHERE <src(s)> AND <join(t, s)>)
//	[AND t.id NOT IN (SELECT s2.id FROM nodes AS s2 WHERE <src(s2)>)]
func (r relationSpec) build(c *Compiler, t string, src pathquery.Predicate) (string, []any, error) {
	s := c.alias()
	cond, params, err := c.predicate(src, s)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM %s AS %s WHERE %s AND %s)",
		Table, s, cond, fmt.Sprintf(r.join, t, s))

	if !r.strict {
		return sql, params, nil
	}

	x := c.alias()
	excl, exclParams, err := c.predicate(src, x)
	if err != nil {
		return "", nil, err
	}
	sql += fmt.Sprintf(" AND %[1]s.id NOT IN (SELECT %[2]s.id FROM %[3]s AS %[2]s WHERE %[4]s)", t, x, Table, excl)
	return sql, append(params, exclParams...), nil
}
