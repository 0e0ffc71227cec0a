package harness

import (
	"fmt"
	"strings"
)

// TraceEntry records the outcome of one step.
type TraceEntry struct {
	Step   int    `json:"step"`
	Op     string `json:"op"`
	Name   string `json:"name"`
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
	Failed bool   `json:"failed,omitempty"`
}

// String renders the entry as one trace line.
func (e TraceEntry) String() string {
	if e.Failed {
		return fmt.Sprintf("%02d %s %s error", e.Step, e.Op, e.Name)
	}
	return fmt.Sprintf("%02d %s %s %s", e.Step, e.Op, e.Name, e.Path)
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true if every step behaved as expected and every assertion
	// held.
	Pass bool `json:"pass"`

	// Trace lists the executed steps in order.
	Trace []TraceEntry `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEntry{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FormatTrace renders the trace one line per step. Paths and names only,
// so the output is stable across runs.
func (r *Result) FormatTrace() string {
	var b strings.Builder
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
