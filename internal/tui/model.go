package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sortly/internal/sorter"
	"sortly/internal/tui/common"
	"sortly/internal/tui/components"
	"sortly/internal/tui/messages"
	"sortly/internal/tui/views"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Runner sorts a folder batch by batch.
type Runner interface {
	SortDirectory(ctx context.Context, root, userText string, onBatch func(sorter.BatchResult) bool) error
}

var _ Runner = (*sorter.Sorter)(nil)

type Model struct {
	runner Runner
	folder string

	// Core state
	mode     common.Mode
	entries  []common.FileEntry
	batches  []common.BatchView
	err      error
	showHelp bool

	input  textinput.Model
	status *components.StatusBar

	// Running sort
	events  chan tea.Msg
	cancel  context.CancelFunc
	abandon chan struct{} // closed when the UI quits mid-run
	runDone chan struct{} // closed when the run goroutine exits
}

// New creates the sort UI for folder.
func New(runner Runner, folder string) *Model {
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}

	ti := textinput.New()
	ti.Placeholder = "Optional instructions, e.g. keep invoices by year"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return &Model{
		runner: runner,
		folder: folder,
		mode:   common.Input,
		input:  ti,
		status: components.NewStatusBar(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, scanFolder(m.folder))
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.ScanCompleteMsg:
		if msg.Error != nil {
			m.err = msg.Error
			m.mode = common.Failed
			return m, nil
		}
		m.entries = msg.Files
		return m, nil

	case messages.BatchDoneMsg:
		m.batches = append(m.batches, BatchView(msg.Batch))
		m.status.SetText(fmt.Sprintf("Sorted batch %d of %d", msg.Batch.Index, msg.Batch.Total))
		return m, waitForEvent(m.events)

	case messages.SortCompleteMsg:
		m.finish()
		m.mode = common.Results
		if msg.Cancelled {
			m.status.SetText("Stopped after " + plural(len(m.batches), "batch", "batches"))
		} else {
			m.status.SetText("Finished " + plural(len(m.batches), "batch", "batches"))
		}
		return m, scanFolder(m.folder)

	case messages.ErrorMsg:
		m.finish()
		m.err = msg.Err
		m.mode = common.Failed
		m.status.SetText("")
		return m, scanFolder(m.folder)
	}

	if m.mode == common.Input {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, m.status.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.stop()
		m.abandonRun()
		return m, tea.Quit
	}

	switch m.mode {
	case common.Input:
		switch msg.Type {
		case tea.KeyEnter:
			return m, m.start()
		case tea.KeyEsc:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case common.Sorting:
		switch msg.String() {
		case "esc", "q":
			m.stop()
			m.status.SetText("Stopping after the current batch…")
		}
		return m, nil

	default:
		switch msg.String() {
		case "r":
			m.reset()
			return m, tea.Batch(textinput.Blink, scanFolder(m.folder))
		case "?":
			m.showHelp = !m.showHelp
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}
}

// start launches SortDirectory on its own goroutine. Each finished batch
// comes back as a BatchDoneMsg through m.events.
func (m *Model) start() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 1)
	abandon := make(chan struct{})
	done := make(chan struct{})

	m.mode = common.Sorting
	m.cancel = cancel
	m.events = events
	m.abandon = abandon
	m.runDone = done
	m.batches = nil
	m.err = nil
	m.input.Blur()
	m.status.SetText("Asking the model how to sort " + filepath.Base(m.folder))

	go func(runner Runner, folder, text string) {
		defer close(done)
		err := runner.SortDirectory(ctx, folder, text, func(b sorter.BatchResult) bool {
			select {
			case events <- messages.BatchDoneMsg{Batch: b}:
				return true
			case <-ctx.Done():
				return false
			}
		})
		var last tea.Msg
		switch {
		case ctx.Err() != nil:
			last = messages.SortCompleteMsg{Cancelled: true}
		case err != nil:
			last = messages.ErrorMsg{Err: err}
		default:
			last = messages.SortCompleteMsg{}
		}
		// Nobody reads events once the UI has quit.
		select {
		case events <- last:
		case <-abandon:
		}
	}(m.runner, m.folder, m.input.Value())

	return tea.Batch(m.status.SetLoading(true), waitForEvent(events))
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// abandonRun releases a run goroutine still waiting to report back.
func (m *Model) abandonRun() {
	if m.abandon != nil {
		close(m.abandon)
		m.abandon = nil
	}
}

func (m *Model) finish() {
	m.stop()
	m.abandonRun()
	m.cancel = nil
	m.events = nil
	m.status.SetLoading(false)
}

func (m *Model) reset() {
	m.mode = common.Input
	m.batches = nil
	m.err = nil
	m.status.SetText("")
	m.input.SetValue("")
	m.input.Focus()
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func scanFolder(folder string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(folder)
		if err != nil {
			return messages.ScanCompleteMsg{Error: err}
		}
		files := make([]common.FileEntry, 0, len(entries))
		for _, entry := range entries {
			fe := common.FileEntry{Name: entry.Name(), IsDir: entry.IsDir()}
			if info, err := entry.Info(); err == nil {
				fe.Size = info.Size()
				fe.ModTime = info.ModTime()
			}
			files = append(files, fe)
		}
		return messages.ScanCompleteMsg{Files: files}
	}
}

// BatchView converts a finished batch into what the results screen shows.
func BatchView(b sorter.BatchResult) common.BatchView {
	view := common.BatchView{Title: b.Title}
	if b.Result == nil {
		return view
	}
	view.Message = b.Message
	if b.Sorted {
		view.Summary = b.Report.Summary()
		for _, o := range b.Report.Failures() {
			view.Failures = append(view.Failures, o.String())
		}
	}
	return view
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Getters
func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) Folder() string {
	return m.folder
}

func (m *Model) Entries() []common.FileEntry {
	return m.entries
}

func (m *Model) InputView() string {
	return m.input.View()
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) Batches() []common.BatchView {
	return m.batches
}

func (m *Model) Err() error {
	return m.err
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

// Run starts the UI on the terminal and blocks until the user quits.
func Run(runner Runner, folder string) error {
	_, err := tea.NewProgram(New(runner, folder), tea.WithAltScreen()).Run()
	return err
}
