package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sortly/internal/errors"
	"sortly/internal/log"
	"sortly/pkg/types"

	"github.com/xlab/treeprint"
)

// Done is returned by Apply regardless of per-file outcomes.
const Done = "Done"

// Executor moves files under a root folder into the subfolders named by a
// FolderStructure.
type Executor struct {
	dryRun bool
	mu     sync.Mutex // Serializes Apply calls against the same tree
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithDryRun makes Apply record Planned outcomes without touching the disk.
func WithDryRun(dryRun bool) ExecutorOption {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// NewExecutor creates a new Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Executor) SetDryRun(dryRun bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dryRun = dryRun
}

// IsDryRun returns whether the executor is in dry run mode
func (e *Executor) IsDryRun() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dryRun
}

// Apply walks structure in order. For every folder it creates
// root/folder if needed, then moves each listed file from root/file to
// root/folder/file. Missing files and failed moves are recorded in the
// report and never stop the remaining moves. The returned status is always
// Done.
func (e *Executor) Apply(root string, structure types.FolderStructure) (string, types.MoveReport) {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := make(types.MoveReport, 0, structure.FileCount())
	for _, assignment := range structure {
		folderPath := filepath.Join(root, assignment.Folder)

		var mkdirErr error
		if !e.dryRun {
			if err := os.MkdirAll(folderPath, 0755); err != nil {
				mkdirErr = errors.NewFileError("failed to create folder", folderPath, errors.FileOperationFailed, err)
				log.LogWithError(mkdirErr).Error("Failed to create target folder")
			}
		}

		for _, name := range assignment.Files {
			outcome := types.MoveOutcome{
				Folder:      assignment.Folder,
				File:        name,
				Source:      filepath.Join(root, name),
				Destination: filepath.Join(folderPath, name),
			}

			switch {
			case mkdirErr != nil:
				outcome.Kind = types.MoveError
				outcome.Err = mkdirErr
			case e.dryRun:
				e.plan(&outcome)
			default:
				e.move(&outcome)
			}

			logOutcome(outcome)
			report = append(report, outcome)
		}
	}

	log.Info("Apply finished in %s: %s", root, report.Summary())
	return Done, report
}

func (e *Executor) plan(o *types.MoveOutcome) {
	if _, err := os.Stat(o.Source); err != nil {
		o.Kind = types.SkippedNotFound
		return
	}
	o.Kind = types.Planned
}

func (e *Executor) move(o *types.MoveOutcome) {
	err := MoveFile(o.Source, o.Destination)
	switch {
	case err == nil:
		o.Kind = types.Moved
	case errors.IsFileNotFound(err):
		o.Kind = types.SkippedNotFound
	default:
		o.Kind = types.MoveError
		o.Err = err
	}
}

func logOutcome(o types.MoveOutcome) {
	switch o.Kind {
	case types.Moved, types.Planned:
		log.LogWithFields(log.F("source", o.Source), log.F("destination", o.Destination)).Info(o.String())
	case types.SkippedNotFound:
		log.LogWithFields(log.F("source", o.Source)).Warn(o.String())
	default:
		log.LogWithError(o.Err).Error(o.String())
	}
}

// MoveFile renames src to dest. An existing destination is never
// overwritten. Errors are *errors.FileError with kind FileNotFound,
// DestinationExists, InvalidPath or FileOperationFailed.
func MoveFile(src, dest string) error {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		log.Debug("Source and destination are the same, skipping: %s", src)
		return nil
	}

	// Stat follows links, so a dangling symlink counts as missing.
	if _, err := os.Stat(cleanSrc); os.IsNotExist(err) {
		return errors.NewFileError("source file not found", cleanSrc, errors.FileNotFound, err)
	} else if err != nil {
		return errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}
	srcInfo, err := os.Lstat(cleanSrc)
	if err != nil {
		return errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}

	// A folder cannot be moved into itself or one of its descendants.
	if srcInfo.IsDir() {
		if rel, err := filepath.Rel(cleanSrc, cleanDest); err == nil && !outside(rel) {
			return errors.NewFileError("cannot move a folder into itself", cleanSrc, errors.InvalidPath, nil)
		}
	}

	if _, err := os.Lstat(cleanDest); err == nil {
		return errors.NewFileError("destination already exists", cleanDest, errors.DestinationExists, nil)
	} else if !os.IsNotExist(err) {
		return errors.NewFileError(fmt.Sprintf("error checking destination %s", cleanDest), cleanDest, errors.FileAccessDenied, err)
	}

	log.Debug("Moving %s to %s", cleanSrc, cleanDest)
	if err := os.Rename(cleanSrc, cleanDest); err != nil {
		return errors.NewFileError("failed to move file", cleanSrc, errors.FileOperationFailed, err)
	}
	return nil
}

func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RenderTree draws root and one level of each subfolder's contents.
func RenderTree(root string) (string, error) {
	tree := treeprint.NewWithRoot(filepath.Base(root))

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.NewFileError("failed to read folder", root, errors.FileAccessDenied, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			tree.AddNode(entry.Name())
			continue
		}
		branch := tree.AddBranch(entry.Name() + "/")
		children, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			return "", errors.NewFileError("failed to read folder", filepath.Join(root, entry.Name()), errors.FileAccessDenied, err)
		}
		for _, child := range children {
			name := child.Name()
			if child.IsDir() {
				name += "/"
			}
			branch.AddNode(name)
		}
	}
	return tree.String(), nil
}
