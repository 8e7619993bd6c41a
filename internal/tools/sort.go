package tools

import (
	"context"
	"encoding/json"
	"path/filepath"

	"sortly/internal/errors"
	"sortly/pkg/types"
)

// SortToolName is the name the model calls to reorganize a folder.
const SortToolName = "sort"

// SortArgs are the arguments of the sort tool.
type SortArgs struct {
	RootFolderPath  string                `json:"root_folder_path" validate:"required,abspath,dir"`
	FolderStructure types.FolderStructure `json:"folder_structure" validate:"required,dive"`
}

// Applier executes a folder structure against a root directory.
type Applier interface {
	Apply(root string, structure types.FolderStructure) (string, types.MoveReport)
}

type rootKey struct{}

// WithRoot records the folder a request was built from. A sort call made
// under ctx must name that folder as its root_folder_path.
func WithRoot(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, rootKey{}, filepath.Clean(root))
}

// RootFromContext returns the folder set by WithRoot, if any.
func RootFromContext(ctx context.Context) (string, bool) {
	root, ok := ctx.Value(rootKey{}).(string)
	return root, ok
}

var sortSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "root_folder_path": {
      "type": "string",
      "description": "The root folder path where the files are located"
    },
    "folder_structure": {
      "type": "object",
      "description": "The folder structure to sort the files into, with folder names as keys and lists of file names as values",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    }
  },
  "required": ["root_folder_path", "folder_structure"]
}`)

// RegisterSort adds the sort tool to r, executing accepted calls with applier.
func RegisterSort(r *Registry, applier Applier) error {
	spec := Spec{
		Name:        SortToolName,
		Description: "Sorts the files given the root_folder_path based on the folder_structure",
		Parameters:  sortSchema,
	}
	return Register(r, spec, func(ctx context.Context, args SortArgs) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if want, ok := RootFromContext(ctx); ok && filepath.Clean(args.RootFolderPath) != want {
			return Result{}, errors.NewToolError(
				"malformed tool arguments",
				SortToolName,
				errors.MalformedToolArguments,
				errors.Newf("root_folder_path %s is not the folder being sorted (%s)", args.RootFolderPath, want),
			)
		}
		out, report := applier.Apply(args.RootFolderPath, args.FolderStructure)
		return Result{Output: out, Report: report}, nil
	})
}
