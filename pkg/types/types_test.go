package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"sortly/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderStructureKeepsOrder(t *testing.T) {
	raw := `{"Misc": ["a.txt"], "Documents": ["invoice_1.pdf", "invoice_2.pdf"], "Images": ["b.jpg"]}`

	var fs types.FolderStructure
	require.NoError(t, json.Unmarshal([]byte(raw), &fs))

	require.Len(t, fs, 3)
	assert.Equal(t, "Misc", fs[0].Folder)
	assert.Equal(t, "Documents", fs[1].Folder)
	assert.Equal(t, []string{"invoice_1.pdf", "invoice_2.pdf"}, fs[1].Files)
	assert.Equal(t, "Images", fs[2].Folder)
	assert.Equal(t, 4, fs.FileCount())
}

func TestFolderStructureDuplicateKey(t *testing.T) {
	var fs types.FolderStructure
	require.NoError(t, json.Unmarshal([]byte(`{"A": ["1"], "B": ["2"], "A": ["3"]}`), &fs))

	require.Len(t, fs, 2)
	assert.Equal(t, "A", fs[0].Folder)
	assert.Equal(t, []string{"3"}, fs[0].Files)
	assert.Equal(t, "B", fs[1].Folder)
}

func TestFolderStructureRejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		"array":          `[["a.txt"]]`,
		"string":         `"Docs"`,
		"null":           `null`,
		"string value":   `{"Docs": "a.txt"}`,
		"number in list": `{"Docs": ["a.txt", 3]}`,
		"null value":     `{"Docs": null}`,
		"nested object":  `{"Docs": {"a": ["b"]}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var fs types.FolderStructure
			assert.Error(t, json.Unmarshal([]byte(raw), &fs))
		})
	}
}

func TestFolderStructureMarshal(t *testing.T) {
	fs := types.FolderStructure{
		{Folder: "Images", Files: []string{"b.jpg"}},
		{Folder: "Empty"},
		{Folder: "Documents", Files: []string{"x.pdf"}},
	}
	data, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Equal(t, `{"Images":["b.jpg"],"Empty":[],"Documents":["x.pdf"]}`, string(data))
}

func TestMoveReport(t *testing.T) {
	report := types.MoveReport{
		{Folder: "Docs", File: "a.pdf", Kind: types.Moved},
		{Folder: "Docs", File: "gone.pdf", Kind: types.SkippedNotFound},
		{Folder: "Docs", File: "b.pdf", Kind: types.MoveError, Err: errors.New("permission denied")},
		{Folder: "Images", File: "c.jpg", Kind: types.Moved},
	}

	assert.Equal(t, 2, report.Moved())
	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, "2 moved, 1 not found, 1 failed", report.Summary())

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "Error moving b.pdf: permission denied", failures[0].String())
	assert.Equal(t, "Moved a.pdf → Docs/", report[0].String())
	assert.Equal(t, "File not found: gone.pdf", report[1].String())

	planned := types.MoveReport{{Folder: "Docs", File: "a.pdf", Kind: types.Planned}}
	assert.Equal(t, "0 moved, 0 not found, 0 failed, 1 planned", planned.Summary())
	assert.Equal(t, "skipped-not-found", types.SkippedNotFound.String())
}
