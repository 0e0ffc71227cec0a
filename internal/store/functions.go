package store

import (
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/sapling/internal/lquery"
	"github.com/roach88/sapling/internal/ltree"
)

// DriverName is the database/sql driver that opens SQLite connections with
// the ltree functions installed.
const DriverName = "sqlite3_ltree"

// patterns is shared by every connection so a pattern compiles once per
// process, not once per row.
var patterns = lquery.NewCache(lquery.DefaultCacheSize)

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: registerFunctions,
	})
}

type sqlFunc struct {
	name string
	impl any
}

var ltreeFunctions = []sqlFunc{
	{"ltree_isancestor", isAncestor},
	{"ltree_nlevel", nlevel},
	{"ltree_subpath", subpath},
	{"ltree_match", match},
	{"ltree_match_text", matchText},
}

func registerFunctions(conn *sqlite3.SQLiteConn) error {
	for _, f := range ltreeFunctions {
		if err := conn.RegisterFunc(f.name, f.impl, true); err != nil {
			return fmt.Errorf("register %s: %w", f.name, err)
		}
	}
	return nil
}

func isAncestor(a, b string) bool {
	return ltree.Path(a).IsAncestorOf(ltree.Path(b))
}

func nlevel(p string) int64 {
	return int64(ltree.Path(p).Depth())
}

func subpath(p string, offset, length int64) (string, error) {
	sub, err := ltree.Path(p).Subpath(int(offset), int(length))
	if err != nil {
		return "", err
	}
	return string(sub), nil
}

func match(path, pattern string) (bool, error) {
	return patterns.Match(pattern, path)
}

func matchText(path, query string) (bool, error) {
	return patterns.MatchText(query, path)
}
