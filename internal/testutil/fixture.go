package testutil

import (
	"path/filepath"
	"sort"
	"testing"
)

// ExamplePaths is the 13-node tree from the PostgreSQL ltree documentation,
// in insertion order (every parent before its children).
var ExamplePaths = []string{
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

// ExampleFilter returns the example paths accepted by keep, sorted.
func ExampleFilter(keep func(path string) bool) []string {
	out := []string{}
	for _, p := range ExamplePaths {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Sorted returns a sorted copy of paths. Expectations in tests are written
// with it so they can be compared against query results sorted the same way.
func Sorted(paths ...string) []string {
	out := append([]string{}, paths...)
	sort.Strings(out)
	return out
}

// DBPath returns a database file path inside a per-test temp directory.
func DBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tree.db")
}
