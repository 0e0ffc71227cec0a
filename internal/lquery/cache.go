package lquery

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultCacheSize bounds the number of compiled patterns a Cache keeps per
// language before it starts over.
const DefaultCacheSize = 1024

type compiled[T any] struct {
	q   T
	err error
}

// Cache memoizes compiled patterns. SQLite calls the matching functions once
// per candidate row, so a query would otherwise re-parse the same pattern
// for every row it scans.
//
// Thread-safety: safe for concurrent use.
type Cache struct {
	limit int
	lq    *xsync.MapOf[string, compiled[*Query]]
	txt   *xsync.MapOf[string, compiled[*TextQuery]]
}

// NewCache creates a cache holding at most limit patterns per language.
// A non-positive limit selects DefaultCacheSize.
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{
		limit: limit,
		lq:    xsync.NewMapOf[string, compiled[*Query]](),
		txt:   xsync.NewMapOf[string, compiled[*TextQuery]](),
	}
}

// Match matches path against a cached lquery pattern.
func (c *Cache) Match(pattern, path string) (bool, error) {
	if c.lq.Size() >= c.limit {
		c.lq.Clear()
	}
	entry, _ := c.lq.LoadOrCompute(pattern, func() compiled[*Query] {
		q, err := Compile(pattern)
		return compiled[*Query]{q: q, err: err}
	})
	if entry.err != nil {
		return false, entry.err
	}
	return entry.q.Match(path), nil
}

// MatchText matches path against a cached ltxtquery.
func (c *Cache) MatchText(query, path string) (bool, error) {
	if c.txt.Size() >= c.limit {
		c.txt.Clear()
	}
	entry, _ := c.txt.LoadOrCompute(query, func() compiled[*TextQuery] {
		q, err := CompileText(query)
		return compiled[*TextQuery]{q: q, err: err}
	})
	if entry.err != nil {
		return false, entry.err
	}
	return entry.q.Match(path), nil
}
