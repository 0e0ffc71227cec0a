package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	pq "github.com/roach88/sapling/internal/pathquery"
	"github.com/roach88/sapling/internal/position"
)

// Scenario builds a tree step by step and asserts on the result.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are executed in order against a fresh tree.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after every step has run.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one tree mutation.
type Step struct {
	// Op is one of add_root, add_child, add_sibling, create, delete.
	Op string `yaml:"op"`

	// As names the created node for later steps and assertions. For create
	// it defaults to the path.
	As string `yaml:"as,omitempty"`

	// Ref names the parent (add_child), the reference sibling
	// (add_sibling) or the subtree root (delete).
	Ref string `yaml:"ref,omitempty"`

	// Slot is first, last, left or right. Default: last.
	Slot string `yaml:"slot,omitempty"`

	// Path is the explicit path for create.
	Path string `yaml:"path,omitempty"`

	// ExpectError, when set, requires the step to fail with an error whose
	// message contains it.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion checks a selection of nodes. Expected nodes are given by name.
type Assertion struct {
	// Type is one of relation, match, match_text, order, count.
	Type string `yaml:"type"`

	// Relation names the relation for type relation, e.g. "siblings" or
	// "descendants-or-self".
	Relation string `yaml:"relation,omitempty"`

	// Of names the source nodes (relation) or the parent whose children
	// are listed (order).
	Of []string `yaml:"of,omitempty"`

	// Level restricts the relation source to nodes at this depth.
	Level int `yaml:"level,omitempty"`

	// Query is the lquery (match) or ltxtquery (match_text) pattern.
	Query string `yaml:"query,omitempty"`

	// Expect lists the expected nodes. Compared as a set except for order.
	Expect []string `yaml:"expect"`

	// Count is the expected total number of nodes (count).
	Count int `yaml:"count,omitempty"`
}

// Step ops.
const (
	OpAddRoot    = "add_root"
	OpAddChild   = "add_child"
	OpAddSibling = "add_sibling"
	OpCreate     = "create"
	OpDelete     = "delete"
)

// Assertion types.
const (
	AssertRelation  = "relation"
	AssertMatch     = "match"
	AssertMatchText = "match_text"
	AssertOrder     = "order"
	AssertCount     = "count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file
// name.
func LoadDir(dir string) ([]*Scenario, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		sc, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Op {
	case OpAddRoot:
	case OpAddChild, OpAddSibling, OpDelete:
		if s.Ref == "" {
			return fmt.Errorf("steps[%d]: ref is required for %s", index, s.Op)
		}
	case OpCreate:
		if s.Path == "" {
			return fmt.Errorf("steps[%d]: path is required for create", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	if s.Slot != "" {
		if _, err := position.ParseSlot(s.Slot); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertRelation:
		if _, err := pq.ParseRelation(a.Relation); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if len(a.Of) == 0 && a.Level == 0 {
			return fmt.Errorf("assertions[%d]: of or level is required for relation", index)
		}
	case AssertMatch, AssertMatchText:
		if a.Query == "" {
			return fmt.Errorf("assertions[%d]: query is required for %s", index, a.Type)
		}
	case AssertOrder:
		if len(a.Of) > 1 {
			return fmt.Errorf("assertions[%d]: order takes at most one parent", index)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
