package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the workspace for .dk files created, changed or removed
// outside the editor.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
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

// scan picks up .dk files whose modification time moved and drops the ones
// that disappeared. Open files are left to the editor.
func (w *FileWatcher) scan() {
	root := w.codebase.RootDir()
	seen := make(map[string]bool)
	changed, removed := 0, 0

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
		if filepath.Ext(path) != Ext {
			return nil
		}

		seen[path] = true
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		w.modTimes[path] = info.ModTime()
		resegmented, err := w.codebase.scanFile(path)
		if err != nil {
			log.Warningf("rescan %s: %s", path, err)
			return nil
		}
		if resegmented {
			changed++
			if f := w.codebase.GetFile(path); f != nil {
				log.Debugf("%s changed: %d phrases", path, len(f.Phrases))
			}
		}
		return nil
	})

	for path := range w.modTimes {
		if seen[path] {
			continue
		}
		delete(w.modTimes, path)
		w.codebase.RemoveFile(path)
		removed++
		log.Debugf("%s removed", path)
	}
	if changed > 0 || removed > 0 {
		log.Infof("%s: %d files changed, %d removed", root, changed, removed)
	}
}
