package components

import (
	"fmt"
	"strings"

	"sortly/internal/tui/common"
	"sortly/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// FileList previews the entries that will be sent to the model.
type FileList struct {
	files []common.FileEntry
	limit int
}

func NewFileList(limit int) *FileList {
	return &FileList{limit: limit}
}

func (fl *FileList) SetFiles(files []common.FileEntry) {
	fl.files = files
}

func (fl *FileList) View() string {
	if len(fl.files) == 0 {
		return styles.Theme.Unselected.Render("No files found") + "\n"
	}

	var s strings.Builder
	shown := fl.files
	if fl.limit > 0 && len(shown) > fl.limit {
		shown = shown[:fl.limit]
	}
	for _, file := range shown {
		name := file.Name
		details := ""
		if file.IsDir {
			name += "/"
		} else {
			details = fmt.Sprintf(" %8s  %s", humanize.Bytes(uint64(file.Size)), humanize.Time(file.ModTime))
		}
		s.WriteString(fmt.Sprintf("  %s%s\n", styles.Theme.Selected.Render(name), styles.Theme.Unselected.Render(details)))
	}
	if rest := len(fl.files) - len(shown); rest > 0 {
		s.WriteString(styles.Theme.Unselected.Render(fmt.Sprintf("  … and %d more", rest)) + "\n")
	}
	return s.String()
}
