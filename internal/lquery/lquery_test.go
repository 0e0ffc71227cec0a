package lquery

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is the example tree from the ltree documentation.
var upstream = []string{
	"Top",
	"Top.Science",
	"Top.Science.Astronomy",
	"Top.Science.Astronomy.Astrophysics",
	"Top.Science.Astronomy.Cosmology",
	"Top.Hobbies",
	"Top.Hobbies.Amateurs_Astronomy",
	"Top.Collections",
	"Top.Collections.Pictures",
	"Top.Collections.Pictures.Astronomy",
	"Top.Collections.Pictures.Astronomy.Stars",
	"Top.Collections.Pictures.Astronomy.Galaxies",
	"Top.Collections.Pictures.Astronomy.Astronauts",
}

func filter(t *testing.T, match func(string) bool) []string {
	t.Helper()
	var out []string
	for _, p := range upstream {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func sorted(paths ...string) []string {
	sort.Strings(paths)
	return paths
}

func TestMatch_Upstream(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "astronomy anywhere",
			pattern: "*.Astronomy.*",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Science.Astronomy.Cosmology",
				"Top.Collections.Pictures.Astronomy",
				"Top.Collections.Pictures.Astronomy.Stars",
				"Top.Collections.Pictures.Astronomy.Galaxies",
				"Top.Collections.Pictures.Astronomy.Astronauts",
			),
		},
		{
			name:    "astronomy not under pictures",
			pattern: "*.!pictures@.*.Astronomy.*",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Science.Astronomy.Cosmology",
			),
		},
		{
			name:    "astronomy directly under a non-pictures label",
			pattern: "*.!pictures@.Astronomy.*",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Science.Astronomy.Cosmology",
			),
		},
		{
			name:    "children of Top",
			pattern: "Top.*{1}",
			want:    sorted("Top.Science", "Top.Hobbies", "Top.Collections"),
		},
		{
			name:    "suffix label",
			pattern: "*.Stars",
			want:    sorted("Top.Collections.Pictures.Astronomy.Stars"),
		},
		{
			name:    "alternatives",
			pattern: "Top.Science|Hobbies",
			want:    sorted("Top.Science", "Top.Hobbies"),
		},
		{
			name:    "case insensitive",
			pattern: "top@.science@",
			want:    sorted("Top.Science"),
		},
		{
			name:    "prefix",
			pattern: "*.Astro*",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Collections.Pictures.Astronomy",
				"Top.Collections.Pictures.Astronomy.Astronauts",
			),
		},
		{
			name:    "word match",
			pattern: "*.Astronomy%",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Hobbies.Amateurs_Astronomy",
				"Top.Collections.Pictures.Astronomy",
			),
		},
		{
			name:    "bounded depth",
			pattern: "Top.*{,1}",
			want:    sorted("Top", "Top.Science", "Top.Hobbies", "Top.Collections"),
		},
		{
			name:    "at least",
			pattern: "*{5,}",
			want: sorted(
				"Top.Collections.Pictures.Astronomy.Stars",
				"Top.Collections.Pictures.Astronomy.Galaxies",
				"Top.Collections.Pictures.Astronomy.Astronauts",
			),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Compile(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, filter(t, q.Match))
		})
	}
}

func TestMatch_ItemRepetition(t *testing.T) {
	q := MustCompile("Top.a{1,2}.b")

	assert.True(t, q.Match("Top.a.b"))
	assert.True(t, q.Match("Top.a.a.b"))
	assert.False(t, q.Match("Top.b"))
	assert.False(t, q.Match("Top.a.a.a.b"))
}

func TestMatch_NegationAbsorbsAdjacentWildcards(t *testing.T) {
	q := MustCompile("!Top.*")

	assert.True(t, q.Match("Other"))
	assert.True(t, q.Match("Other.Science"))
	assert.False(t, q.Match("Top.Science"))
	assert.False(t, q.Match("Other.Top"), "wildcard next to !Top may not consume Top")
}

func TestMatch_ManyWildcardsOnDeepPath(t *testing.T) {
	labels := make([]string, 400)
	for i := range labels {
		labels[i] = "a"
	}
	deep := strings.Join(labels, ".")

	q := MustCompile("*.*.*.*.*.*.*.*.x")
	assert.False(t, q.Match(deep))
	assert.True(t, q.Match(deep+".x"))

	q = MustCompile("*.b.*.b.*.b.*.x.*")
	assert.False(t, q.Match(deep))
}

func TestCompile_SyntaxErrors(t *testing.T) {
	patterns := []string{
		"",
		"Top..Science",
		"Top.",
		"*{2,1}",
		"*{x}",
		"*{}",
		"*{,}x",
		"Top.-",
		"foo{",
		"a|",
		"!",
		"a b",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			_, err := Compile(pattern)
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se), "want *SyntaxError, got %T", err)
			assert.Equal(t, "lquery", se.Lang)
			assert.Equal(t, pattern, se.Query)
		})
	}
}

func TestMatchText_Upstream(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "word prefix without pictures",
			query: "Astro*% & !pictures@",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Science.Astronomy.Cosmology",
				"Top.Hobbies.Amateurs_Astronomy",
			),
		},
		{
			name:  "label prefix without pictures",
			query: "Astro* & !pictures@",
			want: sorted(
				"Top.Science.Astronomy",
				"Top.Science.Astronomy.Astrophysics",
				"Top.Science.Astronomy.Cosmology",
			),
		},
		{
			name:  "or with grouping",
			query: "(Stars | Galaxies) & Pictures",
			want: sorted(
				"Top.Collections.Pictures.Astronomy.Stars",
				"Top.Collections.Pictures.Astronomy.Galaxies",
			),
		},
		{
			name:  "double negation",
			query: "!!Hobbies",
			want:  sorted("Top.Hobbies", "Top.Hobbies.Amateurs_Astronomy"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := CompileText(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, filter(t, q.Match))
		})
	}
}

func TestCompileText_SyntaxErrors(t *testing.T) {
	queries := []string{"", "   ", "a &", "(a", "a b", "!", "a | | b", "a)"}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			_, err := CompileText(query)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "want *SyntaxError, got %v", err)
			assert.Equal(t, "ltxtquery", se.Lang)
		})
	}
}

func TestPackageMatchHelpers(t *testing.T) {
	ok, err := Match("Top.*", "Top.Science")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MatchText("Science", "Top.Science.Astronomy")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Match("Top..", "Top")
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache(2)

	ok, err := c.Match("*.Astronomy", "Top.Science.Astronomy")
	require.NoError(t, err)
	assert.True(t, ok)

	// Errors are cached too and keep their type.
	for i := 0; i < 2; i++ {
		_, err = c.Match("Top..", "Top")
		var se *SyntaxError
		assert.True(t, errors.As(err, &se))
	}

	// Exceeding the limit resets instead of growing.
	for _, p := range []string{"a", "b", "c", "d"} {
		_, err := c.Match(p, p)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.lq.Size(), 2)

	ok, err = c.MatchText("Astro* & !pictures@", "Top.Collections.Pictures.Astronomy")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range upstream {
				ok, err := c.Match("Top.*", p)
				assert.NoError(t, err)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
