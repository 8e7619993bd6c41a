// Package testutils holds helpers shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// WriteFiles creates one file per name directly inside dir. Each file holds
// its own name so moved files can be told apart.
func WriteFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// AssertMoved checks that every name now lives in root/folder and is gone
// from root.
func AssertMoved(t *testing.T, root, folder string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.FileExists(t, filepath.Join(root, folder, name))
		require.NoFileExists(t, filepath.Join(root, name))
	}
}

// StripANSI removes terminal styling so rendered output can be matched.
func StripANSI(str string) string {
	return ansi.Strip(str)
}
