package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sortly/internal/errors"
	"sortly/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileModification represents a new or changed file directly inside a
// watched directory
type FileModification struct {
	Path      string
	Dir       string
	Name      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors directories for file changes using fsnotify. Watches are
// not recursive: files the executor moves into subfolders are not reported.
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel to receive file modifications
	fileModChan chan FileModification

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has exited
	doneChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the directories list
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new directory watcher using fsnotify
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: []string{},
		fileModChan: make(chan FileModification, 64),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch using fsnotify
func (w *Watcher) AddDirectory(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.NewFileError("invalid directory", dir, errors.InvalidPath, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return errors.NewFileError("directory not found", abs, errors.FileNotFound, err)
	}
	if err != nil {
		return errors.NewFileError("error accessing directory", abs, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", abs, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(abs); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", abs, err)
	}

	w.mutex.Lock()
	found := false
	for _, existingDir := range w.directories {
		if existingDir == abs {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, abs)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", abs)).Info("Watching directory")
	return nil
}

// FileChannel returns the channel that delivers file modification events.
// It is closed once the watcher stops.
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

// Start begins the file watching process using fsnotify
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.doneChan != nil {
		return fmt.Errorf("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})

	go w.loop()

	log.Info("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneChan)
	defer close(w.fileModChan)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				log.Debug("fsWatcher.Events channel closed")
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				log.Debug("fsWatcher.Errors channel closed")
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	// The file may already be gone, or be one of the folders Apply creates.
	info, err := os.Stat(event.Name)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
		}
		return
	}
	if info.IsDir() {
		return
	}

	mod := FileModification{
		Path:      event.Name,
		Dir:       filepath.Dir(event.Name),
		Name:      filepath.Base(event.Name),
		Info:      info,
		Timestamp: time.Now(),
		Op:        event.Op,
	}

	select {
	case w.fileModChan <- mod:
	default:
		log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
	}
}

// Stop halts the file watching process and waits for the event loop to exit
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.doneChan
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Info("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
