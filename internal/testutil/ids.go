package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out predictable node ids for tests: "node-0001",
// "node-0002", ...
//
// Unlike tree.FixedGenerator, SequentialIDs needs no pre-seeded list and can
// be reset for test reuse, so the same scenario run twice produces the same
// ids.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "node".
//
// The first call to Generate() returns "<prefix>-0001".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "node"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Count returns how many ids have been generated since the last Reset.
func (g *SequentialIDs) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. After Reset(), the next id ends in 0001.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
