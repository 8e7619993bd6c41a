package sorter

import (
	"os"

	"sortly/internal/errors"
	"sortly/internal/log"

	"github.com/gobwas/glob"
)

// CompileIgnore compiles ignore patterns. Patterns match bare entry names.
func CompileIgnore(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern "+pattern, "sort.ignore", errors.InvalidConfig, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ListFolder returns the names of every immediate entry of root, files and
// subfolders alike, minus those matching an ignore glob.
func ListFolder(root string, ignore []glob.Glob) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("folder not found", root, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("failed to list folder", root, errors.FileAccessDenied, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if ignored(entry.Name(), ignore) {
			log.Debug("Ignoring %s", entry.Name())
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func ignored(name string, ignore []glob.Glob) bool {
	for _, g := range ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}
