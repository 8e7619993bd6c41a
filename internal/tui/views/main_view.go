package views

import (
	"strings"

	"sortly/internal/errors"
	"sortly/internal/sorter"
	"sortly/internal/tui/common"
	"sortly/internal/tui/components"
	"sortly/internal/tui/styles"
)

// previewLimit caps how many folder entries the input screen lists.
const previewLimit = 15

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(renderBanner())
	sb.WriteString("\n")
	sb.WriteString(styles.Theme.Help.Render("Folder: "+m.Folder()) + "\n\n")

	switch m.Mode() {
	case common.Input:
		fileList := components.NewFileList(previewLimit)
		fileList.SetFiles(m.Entries())
		sb.WriteString(fileList.View())
		sb.WriteString("\n" + m.InputView() + "\n")

	case common.Sorting:
		sb.WriteString(m.StatusView() + "\n\n")
		sb.WriteString(RenderBatches(m.Batches()))

	case common.Results:
		sb.WriteString(styles.Theme.Success.Render(m.StatusView()) + "\n\n")
		sb.WriteString(RenderBatches(m.Batches()))

	case common.Failed:
		sb.WriteString(RenderBatches(m.Batches()))
		sb.WriteString(styles.Theme.Error.Render(FailureText(m.Err())) + "\n")
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp())
	}
	sb.WriteString("\n" + RenderKeyCommands(m.Mode()))

	return styles.Theme.App.Render(sb.String())
}

// FailureText is the message shown when a run stops with err.
func FailureText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsTransportFailure(err):
		return sorter.FailureMessage
	default:
		return err.Error()
	}
}

// RenderBatches draws one bordered box per batch.
func RenderBatches(batches []common.BatchView) string {
	var sb strings.Builder
	for _, b := range batches {
		var body strings.Builder
		body.WriteString(styles.Theme.Title.Render(b.Title) + "\n")
		body.WriteString(b.Message)
		if b.Summary != "" {
			body.WriteString("\n\n" + styles.Theme.Help.Render(b.Summary))
		}
		for _, f := range b.Failures {
			body.WriteString("\n" + styles.Theme.Error.Render(f))
		}
		sb.WriteString(styles.Theme.Batch.Render(body.String()) + "\n")
	}
	return sb.String()
}

func RenderKeyCommands(mode common.Mode) string {
	switch mode {
	case common.Input:
		return styles.Theme.Help.Render("[Enter] Sort  [Esc] Quit")
	case common.Sorting:
		return styles.Theme.Help.Render("[q/Esc] Stop after this batch  [Ctrl+C] Quit")
	default:
		return styles.Theme.Help.Render("[r] Sort again  [?] Help  [q] Quit")
	}
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`
The folder is listed and sent to the model in batches.
Each batch comes back as a set of folders and the files are moved into them.
Files the model does not mention stay where they are.
`)
}

func renderBanner() string {
	return styles.Theme.Title.Render("sortly")
}
