package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileWatcher polls the workspace and keeps the codebase in sync with
// files changed outside the editor.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	root := w.codebase.RootDir()
	currentFiles := make(map[string]bool)

	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.codebase.Supports(path) {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %s", path, err)
			}
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
		}
	}
}
