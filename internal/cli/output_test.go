package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sapling/internal/ltree"
	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/tree"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E001", "parent not found")
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "parent not found", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("removed 4 node(s)")
	require.NoError(t, err)
	assert.Equal(t, "removed 4 node(s)\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("E001", "parent not found")
	require.NoError(t, err)
	assert.Equal(t, "Error [E001]: parent not found\n", buf.String())
}

func sampleNodes() []tree.Node {
	return []tree.Node{
		{ID: "node-0001", Path: ltree.Path("8000000000000000"), Position: position.FromUint64(1 << 63)},
		{ID: "node-0002", Path: ltree.Path("Top.Science")},
	}
}

func TestOutputFormatter_NodeJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Node(sampleNodes()[0]))

	var resp struct {
		Status string   `json:"status"`
		Data   NodeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, NodeView{
		ID:       "node-0001",
		Path:     "8000000000000000",
		Depth:    1,
		Position: "8000000000000000",
	}, resp.Data)
}

func TestOutputFormatter_NodesText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Nodes(sampleNodes()))
	assert.Equal(t, "[node-0001] 8000000000000000\n[node-0002] Top.Science\n", buf.String())
}

func TestOutputFormatter_UnorderedOmitsPosition(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Node(sampleNodes()[1]))
	assert.NotContains(t, buf.String(), "position")
}

func TestExitError(t *testing.T) {
	plain := NewExitError(ExitCommandError, "bad slot")
	assert.Equal(t, "bad slot", plain.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(plain))

	cause := errors.New("boom")
	wrapped := WrapExitError(ExitFailure, "operation failed", cause)
	assert.Equal(t, "operation failed: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	// Wrapping an ExitError keeps its code.
	outer := fmt.Errorf("context: %w", plain)
	assert.Equal(t, ExitCommandError, GetExitCode(outer))

	assert.Equal(t, ExitFailure, GetExitCode(cause))
}
