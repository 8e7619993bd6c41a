package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"sortly/internal/log"
	"sortly/internal/sorter"
)

// DefaultSettle is how long a directory must stay quiet before its new
// files are sorted.
const DefaultSettle = 2 * time.Second

// Sorter is the part of sorter.Sorter the daemon drives.
type Sorter interface {
	SortNames(ctx context.Context, root string, names []string, userText string, onBatch func(sorter.BatchResult) bool) error
}

var _ Sorter = (*sorter.Sorter)(nil)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	FilesProcessed   int       // Total files moved
	Pending          int       // Files waiting for the settle period
}

// Daemon sorts files that appear in watched directories. Events are
// collected per directory and handed to the sorter once no new event has
// arrived for the settle period, so a burst of downloads becomes one request.
type Daemon struct {
	sorter  Sorter
	watcher *Watcher

	settle       time.Duration
	instructions string

	// Callbacks
	onBatch func(dir string, b sorter.BatchResult)
	onError func(dir string, err error)

	// Statistics
	processed    int
	lastActivity time.Time

	// Names seen since the last flush, per directory
	pending map[string]map[string]struct{}

	// Lock for statistics and pending
	mutex sync.RWMutex

	running bool
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithSettle sets the quiet period before pending files are sorted.
func WithSettle(d time.Duration) DaemonOption {
	return func(dm *Daemon) {
		if d >= 0 {
			dm.settle = d
		}
	}
}

// WithInstructions appends text to every prompt, like the free-text box of
// an interactive sort.
func WithInstructions(text string) DaemonOption {
	return func(dm *Daemon) { dm.instructions = text }
}

// WithBatchCallback is called after each sorted batch.
func WithBatchCallback(fn func(dir string, b sorter.BatchResult)) DaemonOption {
	return func(dm *Daemon) { dm.onBatch = fn }
}

// WithErrorCallback is called when sorting a directory fails. The daemon
// keeps running.
func WithErrorCallback(fn func(dir string, err error)) DaemonOption {
	return func(dm *Daemon) { dm.onError = fn }
}

// NewDaemon creates a new background sorting service
func NewDaemon(s Sorter, opts ...DaemonOption) (*Daemon, error) {
	watcher, err := New()
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		sorter:       s,
		watcher:      watcher,
		settle:       DefaultSettle,
		lastActivity: time.Now(),
		pending:      make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// AddWatchDirectory adds a directory to be watched
func (d *Daemon) AddWatchDirectory(dir string) error {
	return d.watcher.AddDirectory(dir)
}

// Run watches until ctx is cancelled or the watcher fails.
func (d *Daemon) Run(ctx context.Context) error {
	if len(d.watcher.GetDirectories()) == 0 {
		return fmt.Errorf("no directories to watch")
	}

	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	if err := d.watcher.Start(); err != nil {
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer func() {
		d.watcher.Stop()
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
	}()

	timer := time.NewTimer(d.settle)
	timer.Stop()

	events := d.watcher.FileChannel()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			d.record(event)
			timer.Reset(d.settle)

		case <-timer.C:
			d.flush(ctx)
		}
	}
}

func (d *Daemon) record(event FileModification) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	names, ok := d.pending[event.Dir]
	if !ok {
		names = make(map[string]struct{})
		d.pending[event.Dir] = names
	}
	names[event.Name] = struct{}{}
	d.lastActivity = event.Timestamp
	log.Debug("Queued %s for sorting", event.Path)
}

// flush sorts everything queued so far. Files that vanished or turned into
// directories while settling are dropped.
func (d *Daemon) flush(ctx context.Context) {
	d.mutex.Lock()
	pending := d.pending
	d.pending = make(map[string]map[string]struct{})
	d.mutex.Unlock()

	dirs := make([]string, 0, len(pending))
	for dir := range pending {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		names := make([]string, 0, len(pending[dir]))
		for name := range pending[dir] {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() {
				continue
			}
			names = append(names, name)
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)

		log.LogWithFields(log.F("directory", dir), log.F("files", len(names))).Info("Sorting new files")
		err := d.sorter.SortNames(ctx, dir, names, d.instructions, func(b sorter.BatchResult) bool {
			d.mutex.Lock()
			d.processed += b.Report.Moved()
			d.mutex.Unlock()
			if d.onBatch != nil {
				d.onBatch(dir, b)
			}
			return ctx.Err() == nil
		})
		if err != nil {
			log.LogWithError(err).Error("Auto-sort failed for " + dir)
			if d.onError != nil {
				d.onError(dir, err)
			}
		}
	}
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	pending := 0
	for _, names := range d.pending {
		pending += len(names)
	}
	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		FilesProcessed:   d.processed,
		Pending:          pending,
	}
}
