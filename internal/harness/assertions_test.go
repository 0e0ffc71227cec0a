package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRun runs a small ordered tree and returns the single assertion
// failure it produces.
func failingRun(t *testing.T, a Assertion) string {
	t.Helper()
	scenario := &Scenario{
		Name:        "small",
		Description: "root with children a, b",
		Steps: []Step{
			{Op: OpAddRoot, As: "root"},
			{Op: OpAddChild, Ref: "root", As: "a"},
			{Op: OpAddChild, Ref: "root", As: "b"},
		},
		Assertions: []Assertion{a},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	require.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	return result.Errors[0]
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertCount, Expected: "3 nodes", Actual: "2 nodes"}
	assert.Equal(t, "Assertion failed: count\n  Expected: 3 nodes\n  Actual: 2 nodes\n", err.Error())
}

func TestAssertOrder_Mismatch(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertOrder, Of: []string{"root"}, Expect: []string{"b", "a"}})
	assert.Contains(t, msg, "Expected: [b, a]")
	assert.Contains(t, msg, "Actual: [a, b]")
}

func TestAssertRelation_Mismatch(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertRelation, Relation: "siblings", Of: []string{"a"}, Expect: []string{}})
	assert.Contains(t, msg, "assertion 0 (relation)")
	assert.Contains(t, msg, "Actual: [b]")
}

func TestAssertRelation_LevelSource(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertRelation, Relation: "ascendants", Level: 2, Expect: []string{"a"}})
	assert.Contains(t, msg, "Actual: [root]")
}

func TestAssertRelation_UnknownName(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertRelation, Relation: "children", Of: []string{"zeta"}})
	assert.Contains(t, msg, "unknown node name")
}

func TestAssertCount_Mismatch(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertCount, Count: 4})
	assert.Contains(t, msg, "Expected: 4 nodes")
	assert.Contains(t, msg, "Actual: 3 nodes")
}

func TestAssertMatch_SyntaxError(t *testing.T) {
	msg := failingRun(t, Assertion{Type: AssertMatch, Query: "a.{", Expect: []string{}})
	assert.Contains(t, msg, "assertion 0 (match)")
}
