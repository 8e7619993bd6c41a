package common

import "time"

// Mode is the screen the sort UI is on.
type Mode int

const (
	// Input collects optional instructions.
	Input Mode = iota
	// Sorting waits for batches to come back.
	Sorting
	// Results shows every batch once the run is over.
	Results
	// Failed shows why the run stopped.
	Failed
)

func (m Mode) String() string {
	switch m {
	case Input:
		return "input"
	case Sorting:
		return "sorting"
	case Results:
		return "results"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	Folder() string
	Entries() []FileEntry
	InputView() string
	StatusView() string
	Batches() []BatchView
	Err() error
	ShowHelp() bool
}

// FileEntry is one immediate entry of the folder being sorted.
type FileEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// BatchView is what the results screen shows for one batch.
type BatchView struct {
	Title    string
	Message  string
	Summary  string
	Failures []string
}
