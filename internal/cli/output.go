package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sapling/internal/tree"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure, empty lookup
	ExitCommandError = 2 // Command error (bad arguments, database or config problems)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NodeView is the JSON shape of a node.
type NodeView struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
	Position string `json:"position,omitempty"`
}

func viewOf(n tree.Node) NodeView {
	return NodeView{
		ID:       n.ID,
		Path:     string(n.Path),
		Depth:    n.Depth(),
		Position: string(n.Position),
	}
}

// Node outputs a single node.
func (f *OutputFormatter) Node(n tree.Node) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: viewOf(n)})
	}
	fmt.Fprintln(f.Writer, n)
	return nil
}

// Nodes outputs a node list, one per line in text mode.
func (f *OutputFormatter) Nodes(nodes []tree.Node) error {
	if f.Format == "json" {
		views := make([]NodeView, len(nodes))
		for i, n := range nodes {
			views[i] = viewOf(n)
		}
		return f.encode(CLIResponse{Status: "ok", Data: views})
	}
	for _, n := range nodes {
		fmt.Fprintln(f.Writer, n)
	}
	return nil
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

func (f *OutputFormatter) encode(v any) error {
	return json.NewEncoder(f.Writer).Encode(v)
}
