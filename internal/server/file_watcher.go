package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"skillsync/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls onChange, debounced, after any of a fixed set of files
// is written, created or renamed. Directories are watched as well so that
// atomic replaces (write to temp, rename) are seen.
type FileWatcher struct {
	name          string
	files         []string
	debounceDelay time.Duration
	onChange      func() error
	logger        *errors.Logger

	mu          sync.Mutex
	lastModTime map[string]time.Time
	running     bool
}

// NewFileWatcher creates a watcher; name labels its log lines
func NewFileWatcher(name string, files []string, debounceDelay time.Duration, onChange func() error, logger *errors.Logger) *FileWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	abs := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if p, err := filepath.Abs(f); err == nil {
			f = p
		}
		abs = append(abs, f)
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &FileWatcher{
		name:          name,
		files:         abs,
		debounceDelay: debounceDelay,
		onChange:      onChange,
		logger:        logger,
		lastModTime:   make(map[string]time.Time),
	}
}

// Run watches until ctx is cancelled. With no files it returns at once.
func (fw *FileWatcher) Run(ctx context.Context) error {
	if len(fw.files) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create %s watcher: %w", fw.name, err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			fw.logger.LogError(err, "Failed to close file watcher", "watcher", fw.name)
		}
	}()

	fw.updateModTimes()
	fw.addFiles(watcher)
	fw.setRunning(true)
	defer fw.setRunning(false)

	fw.logger.Info("File watcher started",
		"watcher", fw.name,
		"files", fw.files,
		"debounce_delay", fw.debounceDelay)

	// A nil channel blocks until the first event arms the timer.
	var debounce <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounceDelay)
			} else {
				timer.Reset(fw.debounceDelay)
			}
			debounce = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.LogError(err, "File watcher error", "watcher", fw.name)

		case <-debounce:
			debounce = nil
			if fw.hasAnyFileChanged() {
				fw.reload()
			}

		case <-ctx.Done():
			fw.logger.Info("File watcher stopped", "watcher", fw.name)
			return nil
		}
	}
}

func (fw *FileWatcher) reload() {
	fw.logger.Info("Watched files changed, reloading", "watcher", fw.name)
	if err := fw.onChange(); err != nil {
		fw.logger.LogError(err, "Reload failed, keeping previous state", "watcher", fw.name)
		return
	}
	fw.logger.Info("Reload completed", "watcher", fw.name)
}

// addFiles adds every file and its directory to the watcher
func (fw *FileWatcher) addFiles(watcher *fsnotify.Watcher) {
	dirs := make(map[string]bool)
	for _, file := range fw.files {
		if err := watcher.Add(file); err != nil && !os.IsNotExist(err) {
			fw.logger.Warn("Failed to watch file", "file", file, "error", err)
		}
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fw.logger.Warn("Failed to watch directory for atomic writes", "directory", dir, "error", err)
		}
	}
}

// shouldProcessEvent reports whether the event touches a watched file
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		name = event.Name
	}
	return slices.Contains(fw.files, name)
}

func (fw *FileWatcher) updateModTimes() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for _, file := range fw.files {
		if stat, err := os.Stat(file); err == nil {
			fw.lastModTime[file] = stat.ModTime()
		}
	}
}

// hasAnyFileChanged compares modification times with the last reload
func (fw *FileWatcher) hasAnyFileChanged() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	changed := false
	for _, file := range fw.files {
		stat, err := os.Stat(file)
		if err != nil {
			if _, exists := fw.lastModTime[file]; exists {
				delete(fw.lastModTime, file)
				changed = true
			}
			continue
		}
		if last, exists := fw.lastModTime[file]; !exists || !stat.ModTime().Equal(last) {
			fw.lastModTime[file] = stat.ModTime()
			changed = true
		}
	}
	return changed
}

func (fw *FileWatcher) setRunning(v bool) {
	fw.mu.Lock()
	fw.running = v
	fw.mu.Unlock()
}

// IsRunning returns whether the watcher is currently running
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.running
}

// Files returns the watched paths
func (fw *FileWatcher) Files() []string {
	return slices.Clone(fw.files)
}
