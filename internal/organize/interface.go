package organize

import "sortly/pkg/types"

// Organizer applies a folder structure to a directory. The sort tool only
// needs Apply; the dry-run accessors let callers report what mode ran.
type Organizer interface {
	SetDryRun(dryRun bool)
	IsDryRun() bool

	// Apply moves files under root into the folders of structure and
	// returns "Done" with one outcome per listed file.
	Apply(root string, structure types.FolderStructure) (string, types.MoveReport)
}

var _ Organizer = (*Executor)(nil)
