package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertPaths inserts unordered nodes in order, with ids from nodeID.
func insertPaths(t *testing.T, s *Store, paths ...string) {
	t.Helper()
	for i, p := range paths {
		row := NewNodeRow(nodeID(i), ltree.MustParse(p), "")
		require.NoError(t, s.InsertNode(context.Background(), row), p)
	}
}

func nodeID(i int) string {
	return "n" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}

func pos(v uint64) position.Position {
	return position.FromUint64(v)
}
