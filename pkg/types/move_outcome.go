package types

import (
	"fmt"
	"strings"
)

// OutcomeKind classifies what happened to one file during a sort.
type OutcomeKind int

const (
	// Moved means the file now lives in its target folder.
	Moved OutcomeKind = iota
	// SkippedNotFound means the file was not present under the root.
	SkippedNotFound
	// MoveError means the move was attempted and failed.
	MoveError
	// Planned means a dry run would have moved the file.
	Planned
)

func (k OutcomeKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case SkippedNotFound:
		return "skipped-not-found"
	case MoveError:
		return "move-error"
	case Planned:
		return "planned"
	default:
		return "unknown"
	}
}

// MoveOutcome holds the result of relocating a single file.
type MoveOutcome struct {
	Folder      string      `json:"folder"`
	File        string      `json:"file"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Kind        OutcomeKind `json:"kind"`
	Err         error       `json:"-"`
}

func (o MoveOutcome) String() string {
	switch o.Kind {
	case Moved:
		return fmt.Sprintf("Moved %s → %s/", o.File, o.Folder)
	case SkippedNotFound:
		return fmt.Sprintf("File not found: %s", o.File)
	case Planned:
		return fmt.Sprintf("Would move %s → %s/", o.File, o.Folder)
	default:
		return fmt.Sprintf("Error moving %s: %v", o.File, o.Err)
	}
}

// MoveReport is the ordered list of outcomes produced by one Apply.
type MoveReport []MoveOutcome

func (r MoveReport) count(kind OutcomeKind) int {
	n := 0
	for _, o := range r {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Moved returns how many files were moved.
func (r MoveReport) Moved() int { return r.count(Moved) }

// Skipped returns how many referenced files were not found.
func (r MoveReport) Skipped() int { return r.count(SkippedNotFound) }

// Failed returns how many moves errored.
func (r MoveReport) Failed() int { return r.count(MoveError) }

// Failures returns only the errored outcomes.
func (r MoveReport) Failures() MoveReport {
	var out MoveReport
	for _, o := range r {
		if o.Kind == MoveError {
			out = append(out, o)
		}
	}
	return out
}

// Summary renders a one-line tally, e.g. "3 moved, 1 not found, 0 failed".
func (r MoveReport) Summary() string {
	parts := []string{
		fmt.Sprintf("%d moved", r.Moved()),
		fmt.Sprintf("%d not found", r.Skipped()),
		fmt.Sprintf("%d failed", r.Failed()),
	}
	if planned := r.count(Planned); planned > 0 {
		parts = append(parts, fmt.Sprintf("%d planned", planned))
	}
	return strings.Join(parts, ", ")
}
