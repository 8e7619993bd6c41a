package tools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sortly/internal/errors"
	"sortly/internal/llm"
	"sortly/internal/tools"
	"sortly/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	calls []types.FolderStructure
	roots []string
}

func (a *recordingApplier) Apply(root string, structure types.FolderStructure) (string, types.MoveReport) {
	a.roots = append(a.roots, root)
	a.calls = append(a.calls, structure)
	return "Done", types.MoveReport{{Folder: "Docs", File: "a.pdf", Kind: types.Moved}}
}

func sortCall(args string) llm.ToolCall {
	return llm.ToolCall{
		ID:       "call_1",
		Type:     "function",
		Function: llm.FunctionCall{Name: tools.SortToolName, Arguments: args},
	}
}

func newSortRegistry(t *testing.T) (*tools.Registry, *recordingApplier) {
	t.Helper()
	applier := &recordingApplier{}
	r := tools.NewRegistry()
	require.NoError(t, tools.RegisterSort(r, applier))
	return r, applier
}

func TestDefinitions(t *testing.T) {
	r, _ := newSortRegistry(t)

	defs := r.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "sort", defs[0].Function.Name)
	assert.Contains(t, defs[0].Function.Description, "folder_structure")

	var schema map[string]any
	require.NoError(t, json.Unmarshal(defs[0].Function.Parameters, &schema))
	assert.ElementsMatch(t, []any{"root_folder_path", "folder_structure"}, schema["required"])
	assert.Equal(t, []string{"sort"}, r.Names())
}

func TestDispatchSort(t *testing.T) {
	root := t.TempDir()
	r, applier := newSortRegistry(t)

	args := `{"root_folder_path": "` + root + `", "folder_structure": {"Images": ["b.jpg"], "Documents": ["a.pdf"]}}`
	res, err := r.Dispatch(context.Background(), sortCall(args))
	require.NoError(t, err)
	assert.Equal(t, "Done", res.Output)
	assert.Equal(t, 1, res.Report.Moved())

	require.Len(t, applier.calls, 1)
	assert.Equal(t, root, applier.roots[0])
	assert.Equal(t, "Images", applier.calls[0][0].Folder)
	assert.Equal(t, "Documents", applier.calls[0][1].Folder)
}

func TestDispatchEmptyStructure(t *testing.T) {
	root := t.TempDir()
	r, applier := newSortRegistry(t)

	res, err := r.Dispatch(context.Background(), sortCall(`{"root_folder_path": "`+root+`", "folder_structure": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "Done", res.Output)
	require.Len(t, applier.calls, 1)
	assert.Empty(t, applier.calls[0])
}

func TestDispatchRejectsMalformedArguments(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	cases := map[string]string{
		"not json":            `{"root_folder_path": `,
		"empty":               ``,
		"missing root":        `{"folder_structure": {"A": ["a.txt"]}}`,
		"missing structure":   `{"root_folder_path": "` + root + `"}`,
		"relative root":       `{"root_folder_path": "some/dir", "folder_structure": {}}`,
		"root is a file":      `{"root_folder_path": "` + file + `", "folder_structure": {}}`,
		"root does not exist": `{"root_folder_path": "` + filepath.Join(root, "nope") + `", "folder_structure": {}}`,
		"structure is list":   `{"root_folder_path": "` + root + `", "folder_structure": ["a.txt"]}`,
		"folder escapes root": `{"root_folder_path": "` + root + `", "folder_structure": {"../out": ["a.txt"]}}`,
		"nested folder":       `{"root_folder_path": "` + root + `", "folder_structure": {"a/b": ["a.txt"]}}`,
		"dot folder":          `{"root_folder_path": "` + root + `", "folder_structure": {".": ["a.txt"]}}`,
		"file with separator": `{"root_folder_path": "` + root + `", "folder_structure": {"Docs": ["../a.txt"]}}`,
		"empty file name":     `{"root_folder_path": "` + root + `", "folder_structure": {"Docs": [""]}}`,
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			r, applier := newSortRegistry(t)
			_, err := r.Dispatch(context.Background(), sortCall(args))
			require.Error(t, err)
			assert.True(t, errors.IsMalformedToolArguments(err), "got %v", err)

			var toolErr *errors.ToolError
			require.True(t, errors.As(err, &toolErr))
			assert.Equal(t, "sort", toolErr.ToolName())
			assert.Empty(t, applier.calls, "handler must not run on invalid arguments")
		})
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r, applier := newSortRegistry(t)

	call := sortCall(`{}`)
	call.Function.Name = "delete_everything"
	_, err := r.Dispatch(context.Background(), call)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownTool(err))
	assert.Empty(t, applier.calls)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r, _ := newSortRegistry(t)
	assert.Error(t, tools.RegisterSort(r, &recordingApplier{}))

	bad := tools.Spec{Name: "broken", Parameters: json.RawMessage(`{`)}
	assert.Error(t, tools.Register(r, bad, func(ctx context.Context, args struct{}) (tools.Result, error) {
		return tools.Result{}, nil
	}))

	unnamed := tools.Spec{Parameters: json.RawMessage(`{}`)}
	assert.Error(t, tools.Register(r, unnamed, func(ctx context.Context, args struct{}) (tools.Result, error) {
		return tools.Result{}, nil
	}))
	assert.Equal(t, []string{"sort"}, r.Names())
}

func TestDispatchCancelledContext(t *testing.T) {
	root := t.TempDir()
	r, applier := newSortRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Dispatch(ctx, sortCall(`{"root_folder_path": "`+root+`", "folder_structure": {}}`))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, applier.calls)
}

func TestDispatchSortRejectsForeignRoot(t *testing.T) {
	requested := t.TempDir()
	other := t.TempDir()
	r, applier := newSortRegistry(t)
	ctx := tools.WithRoot(context.Background(), requested)

	_, err := r.Dispatch(ctx, sortCall(`{"root_folder_path": "`+other+`", "folder_structure": {"Moved": ["secret.txt"]}}`))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedToolArguments(err))
	assert.Empty(t, applier.calls)

	// The same folder spelled with a trailing separator is accepted.
	_, err = r.Dispatch(ctx, sortCall(`{"root_folder_path": "`+requested+string(filepath.Separator)+`", "folder_structure": {}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{requested + string(filepath.Separator)}, applier.roots)

	root, ok := tools.RootFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, requested, root)
}
