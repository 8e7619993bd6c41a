package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sortly/internal/errors"
	"sortly/internal/sorter"
	"sortly/internal/watch"
	"sortly/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sortCall struct {
	root     string
	names    []string
	userText string
}

// fakeSorter records calls and reports every name as moved.
type fakeSorter struct {
	mu    sync.Mutex
	calls []sortCall
	err   error
	done  chan struct{}
}

func newFakeSorter() *fakeSorter {
	return &fakeSorter{done: make(chan struct{}, 16)}
}

func (f *fakeSorter) SortNames(ctx context.Context, root string, names []string, userText string, onBatch func(sorter.BatchResult) bool) error {
	f.mu.Lock()
	f.calls = append(f.calls, sortCall{root: root, names: append([]string(nil), names...), userText: userText})
	f.mu.Unlock()
	defer func() { f.done <- struct{}{} }()

	if f.err != nil {
		return f.err
	}
	report := make(types.MoveReport, 0, len(names))
	for _, name := range names {
		report = append(report, types.MoveOutcome{Folder: "Misc", File: name, Kind: types.Moved})
	}
	onBatch(sorter.BatchResult{Index: 1, Total: 1, Title: "Done", Files: names, Result: &sorter.Result{Sorted: true, Report: report}})
	return nil
}

func (f *fakeSorter) snapshot() []sortCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sortCall(nil), f.calls...)
}

func startDaemon(t *testing.T, d *watch.Daemon) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("daemon did not stop")
		}
	})
	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func waitForSort(t *testing.T, f *fakeSorter) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for auto-sort")
	}
}

func TestDaemonSortsSettledFiles(t *testing.T) {
	dir := t.TempDir()
	fake := newFakeSorter()

	var mu sync.Mutex
	var titles []string
	d, err := watch.NewDaemon(fake,
		watch.WithSettle(150*time.Millisecond),
		watch.WithInstructions("by project"),
		watch.WithBatchCallback(func(root string, b sorter.BatchResult) {
			mu.Lock()
			titles = append(titles, b.Title)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	require.NoError(t, d.AddWatchDirectory(dir))
	startDaemon(t, d)

	for _, name := range []string{"b.pdf", "a.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Sub"), 0755))

	waitForSort(t, fake)

	calls := fake.snapshot()
	require.Len(t, calls, 1, "a burst of files becomes one sort")
	assert.Equal(t, dir, calls[0].root)
	assert.Equal(t, []string{"a.txt", "b.pdf"}, calls[0].names)
	assert.Equal(t, "by project", calls[0].userText)

	mu.Lock()
	assert.Equal(t, []string{"Done"}, titles)
	mu.Unlock()

	status := d.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 2, status.FilesProcessed)
	assert.Equal(t, 0, status.Pending)
	assert.Equal(t, []string{dir}, status.WatchDirectories)
}

func TestDaemonDropsVanishedFiles(t *testing.T) {
	dir := t.TempDir()
	fake := newFakeSorter()

	d, err := watch.NewDaemon(fake, watch.WithSettle(300*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, d.AddWatchDirectory(dir))
	startDaemon(t, d)

	gone := filepath.Join(dir, "partial.crdownload")
	require.NoError(t, os.WriteFile(gone, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "done.zip"), []byte("x"), 0644))
	require.NoError(t, os.Remove(gone))

	waitForSort(t, fake)
	calls := fake.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"done.zip"}, calls[0].names)
}

func TestDaemonReportsErrors(t *testing.T) {
	dir := t.TempDir()
	fake := newFakeSorter()
	fake.err = errors.NewTransportError("unreachable", 0, errors.TransportFailed, nil)

	errCh := make(chan error, 1)
	d, err := watch.NewDaemon(fake,
		watch.WithSettle(50*time.Millisecond),
		watch.WithErrorCallback(func(root string, err error) { errCh <- err }),
	)
	require.NoError(t, err)
	require.NoError(t, d.AddWatchDirectory(dir))
	startDaemon(t, d)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644))

	select {
	case err := <-errCh:
		assert.True(t, errors.IsTransportFailure(err))
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for error callback")
	}
	assert.True(t, d.Status().Running, "a failed sort does not stop the daemon")
}

func TestDaemonRequiresDirectory(t *testing.T) {
	d, err := watch.NewDaemon(newFakeSorter())
	require.NoError(t, err)
	assert.Error(t, d.Run(context.Background()))
	assert.Error(t, d.AddWatchDirectory(filepath.Join(t.TempDir(), "missing")))
}
