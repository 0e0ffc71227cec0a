package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLtreeFunctions_Predicates(t *testing.T) {
	s := createTestStore(t)

	testCases := []struct {
		name string
		sql  string
		args []any
		want bool
	}{
		{"isancestor strict", "SELECT ltree_isancestor(?, ?)", []any{"Top", "Top.Science"}, true},
		{"isancestor equal", "SELECT ltree_isancestor(?, ?)", []any{"Top", "Top"}, true},
		{"isancestor reversed", "SELECT ltree_isancestor(?, ?)", []any{"Top.Science", "Top"}, false},
		{"isancestor label-wise", "SELECT ltree_isancestor(?, ?)", []any{"Top.Sci", "Top.Science"}, false},
		{"match", "SELECT ltree_match(?, ?)", []any{"Top.Science.Astronomy", "*.Astronomy.*"}, true},
		{"match miss", "SELECT ltree_match(?, ?)", []any{"Top.Science", "*.Astronomy"}, false},
		{"match children pattern", "SELECT ltree_match(?, ? || '.*{1}')", []any{"Top.Science", "Top"}, true},
		{"match_text", "SELECT ltree_match_text(?, ?)", []any{"Top.Hobbies.Amateurs_Astronomy", "Astro*%"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got bool
			require.NoError(t, s.db.QueryRow(tc.sql, tc.args...).Scan(&got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLtreeFunctions_PathHelpers(t *testing.T) {
	s := createTestStore(t)

	var depth int
	require.NoError(t, s.db.QueryRow("SELECT ltree_nlevel(?)", "Top.Science.Astronomy").Scan(&depth))
	assert.Equal(t, 3, depth)

	var sub string
	require.NoError(t, s.db.QueryRow("SELECT ltree_subpath(?, 0, 2)", "Top.Science.Astronomy").Scan(&sub))
	assert.Equal(t, "Top.Science", sub)

	require.NoError(t, s.db.QueryRow("SELECT ltree_subpath(?, -1, 1)", "Top.Science.Astronomy").Scan(&sub))
	assert.Equal(t, "Astronomy", sub)
}

func TestLtreeFunctions_Errors(t *testing.T) {
	s := createTestStore(t)

	var sub string
	err := s.db.QueryRow("SELECT ltree_subpath(?, 5, 1)", "Top").Scan(&sub)
	assert.Error(t, err)

	var ok bool
	err = s.db.QueryRow("SELECT ltree_match_text(?, ?)", "Top", "a &").Scan(&ok)
	assert.Error(t, err)
}
