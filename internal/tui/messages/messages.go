package messages

import (
	"sortly/internal/sorter"
	"sortly/internal/tui/common"
)

// ErrorMsg ends a run with an error.
type ErrorMsg struct {
	Err error
}

// BatchDoneMsg carries one finished batch.
type BatchDoneMsg struct {
	Batch sorter.BatchResult
}

// SortCompleteMsg ends a run. Cancelled is set when the user stopped it.
type SortCompleteMsg struct {
	Cancelled bool
}

// ScanCompleteMsg carries a fresh listing of the folder.
type ScanCompleteMsg struct {
	Files []common.FileEntry
	Error error
}
