package testutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("")

	assert.Equal(t, "node-0001", gen.Generate())
	assert.Equal(t, "node-0002", gen.Generate())
	assert.Equal(t, 2, gen.Count())

	gen.Reset()
	assert.Equal(t, "node-0001", gen.Generate())

	custom := NewSequentialIDs("root")
	assert.Equal(t, "root-0001", custom.Generate())
}

func TestSequentialIDs_Concurrent(t *testing.T) {
	gen := NewSequentialIDs("c")

	var wg sync.WaitGroup
	seen := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- gen.Generate()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[string]bool{}
	for id := range seen {
		unique[id] = true
	}
	assert.Len(t, unique, 100)
}

func TestExamplePaths_ParentsFirst(t *testing.T) {
	assert.Len(t, ExamplePaths, 13)

	inserted := map[string]bool{}
	for _, p := range ExamplePaths {
		if i := strings.LastIndex(p, "."); i >= 0 {
			assert.True(t, inserted[p[:i]], "parent of %s listed later", p)
		}
		inserted[p] = true
	}
}

func TestExampleFilter(t *testing.T) {
	got := ExampleFilter(func(p string) bool { return strings.HasPrefix(p, "Top.Hobbies") })
	assert.Equal(t, []string{"Top.Hobbies", "Top.Hobbies.Amateurs_Astronomy"}, got)

	assert.Equal(t, []string{"a", "b", "c"}, Sorted("c", "a", "b"))
}
