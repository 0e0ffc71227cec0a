package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
steps:
  - op: add_root
    as: root
  - op: add_child
    ref: root
    slot: first
    as: a
assertions:
  - type: relation
    relation: children
    of: [root]
    expect: [a]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, Step{Op: OpAddChild, Ref: "root", Slot: "first", As: "a"}, scenario.Steps[1])
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, []string{"a"}, scenario.Assertions[0].Expect)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled key"
steps:
  - op: add_root
assertion:
  - type: count
`)

	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	valid := func() Scenario {
		return Scenario{
			Name:        "s",
			Description: "d",
			Steps:       []Step{{Op: OpAddRoot, As: "r"}},
			Assertions:  []Assertion{{Type: AssertCount, Count: 1}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{"valid", func(s *Scenario) {}, ""},
		{"no name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "steps list is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"missing op", func(s *Scenario) { s.Steps[0].Op = "" }, "op is required"},
		{"unknown op", func(s *Scenario) { s.Steps[0].Op = "move" }, `unknown op "move"`},
		{"child without ref", func(s *Scenario) { s.Steps[0] = Step{Op: OpAddChild} }, "ref is required for add_child"},
		{"create without path", func(s *Scenario) { s.Steps[0] = Step{Op: OpCreate} }, "path is required"},
		{"bad slot", func(s *Scenario) { s.Steps[0].Slot = "middle" }, "unknown slot"},
		{"bad relation", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertRelation, Relation: "cousins", Of: []string{"r"}}
		}, "unresolved relation"},
		{"relation without source", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertRelation, Relation: "children"}
		}, "of or level is required"},
		{"match without query", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertMatch}
		}, "query is required"},
		{"order with two parents", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertOrder, Of: []string{"a", "b"}}
		}, "at most one parent"},
		{"negative count", func(s *Scenario) { s.Assertions[0].Count = -1 }, "non-negative"},
		{"unknown assertion", func(s *Scenario) { s.Assertions[0].Type = "exists" }, "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := validateScenario(&s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	scenarios, err := LoadDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "documentation_tree", scenarios[0].Name)
	assert.Equal(t, "upstream_ordered", scenarios[1].Name)

	_, err = LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "no scenario files")
}
