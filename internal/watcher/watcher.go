// Package watcher monitors the corpus directory for new or removed
// files and debounces bursts of filesystem events (e.g. a multi-file
// copy) into individual ingest callbacks.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a watched file by extension.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// OnFileEvent is called when a media file appears or disappears under
// the watched root.
type OnFileEvent func(path string, kind Kind, isCreate bool)

// Watcher recursively monitors a single corpus root.
type Watcher struct {
	root     string
	callback OnFileEvent
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watched  map[string]bool
	debounce map[string]*time.Timer
	stop     chan struct{}
}

// New creates a Watcher rooted at root. Call Start to begin watching.
func New(root string, cb OnFileEvent) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:     root,
		callback: cb,
		watcher:  fw,
		watched:  make(map[string]bool),
		debounce: make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start begins watching root and every subdirectory under it.
func (w *Watcher) Start() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.eventLoop()
	log.Printf("[watcher] watching %d directories under %s", len(w.watched), w.root)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return nil
			}
			w.mu.Lock()
			w.watched[path] = true
			w.mu.Unlock()
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".part") {
		return
	}

	isCreate := event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
	isRemove := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if !isCreate && !isRemove {
		return
	}

	if isCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.watcher.Add(event.Name)
			w.mu.Lock()
			w.watched[event.Name] = true
			w.mu.Unlock()
			return
		}
	}

	kind, ok := classify(event.Name)
	if !ok {
		return
	}

	w.mu.Lock()
	if timer, ok := w.debounce[event.Name]; ok {
		timer.Stop()
	}
	eventName := event.Name
	w.debounce[eventName] = time.AfterFunc(1*time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, eventName)
		w.mu.Unlock()

		if isCreate {
			w.callback(eventName, kind, true)
		} else if isRemove {
			w.callback(eventName, kind, false)
		}
	})
	w.mu.Unlock()
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".m4v": true,
	".wmv": true, ".flv": true, ".webm": true, ".ts": true, ".m2ts": true,
	".mpg": true, ".mpeg": true,
}

// classify reports the Kind of path by extension, and false if the
// extension isn't one the corpus ingests.
func classify(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if imageExtensions[ext] {
		return KindImage, true
	}
	if videoExtensions[ext] {
		return KindVideo, true
	}
	return "", false
}
