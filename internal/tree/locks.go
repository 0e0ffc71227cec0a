package tree

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/roach88/sapling/internal/ltree"
)

// parentLocks serializes allocate-and-insert per parent path. Roots share
// the "" key. Entries are never removed; one mutex per parent that has ever
// been written to.
type parentLocks struct {
	m *xsync.MapOf[ltree.Path, *sync.Mutex]
}

func newParentLocks() *parentLocks {
	return &parentLocks{m: xsync.NewMapOf[ltree.Path, *sync.Mutex]()}
}

// lock acquires the mutex for parent and returns its unlock function.
func (l *parentLocks) lock(parent ltree.Path) func() {
	mu, _ := l.m.LoadOrCompute(parent, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu.Unlock
}
