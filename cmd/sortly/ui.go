package main

import (
	"fmt"
	"io"

	"sortly/internal/errors"
	"sortly/internal/sorter"
	"sortly/internal/tui"
	"sortly/internal/tui/common"
	"sortly/internal/tui/styles"
	"sortly/internal/tui/views"
)

func errorText(s string) string   { return styles.Theme.Error.Render(s) }
func successText(s string) string { return styles.Theme.Success.Render(s) }
func infoText(s string) string    { return styles.Theme.Help.Render(s) }

// printBatch draws one batch the way the results screen of the TUI does.
func printBatch(w io.Writer, b sorter.BatchResult) {
	fmt.Fprint(w, views.RenderBatches([]common.BatchView{tui.BatchView(b)}))
}

// printFailure reports why a run stopped. Unreachable services get the
// API-key hint; everything else is shown as is.
func printFailure(w io.Writer, err error) {
	fmt.Fprintln(w, errorText(views.FailureText(err)))
	if errors.IsTransportFailure(err) {
		fmt.Fprintln(w, infoText(err.Error()))
	}
}
