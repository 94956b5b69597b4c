// Package watcher handles file system watching for the agent.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/liveicon/liveicon/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSettingsChanged EventType = iota
)

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

const debounceDelay = 100 * time.Millisecond

// Watcher watches the global directory for changes relevant to a running agent.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dir        string
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	log        zerolog.Logger
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex

	// emitMu guards eventsChan against sends after Stop closed it.
	emitMu sync.Mutex
	closed bool
}

// New creates a new file system watcher for the global directory.
func New(log zerolog.Logger) (*Watcher, error) {
	dir, err := config.GlobalDir()
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		dir:        dir,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "watcher").Logger(),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher.
func (w *Watcher) Start() error {
	if err := config.EnsureGlobalDir(); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops the watcher and closes the Events channel. Pending debounced
// events are discarded.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()
		w.wg.Wait()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()

		w.emitMu.Lock()
		w.closed = true
		close(w.eventsChan)
		w.emitMu.Unlock()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.log.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("fsnotify")
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Atomic writes (write tmp, rename to target) surface as Create or
	// Rename on the target file.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if filepath.Base(event.Name) != config.SettingsFileName {
		return
	}

	w.debounceEvent(event.Name, func() {
		w.emit(Event{Type: EventSettingsChanged, Path: event.Name})
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

func (w *Watcher) emit(ev Event) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	if w.closed {
		return
	}
	select {
	case <-w.done:
	case w.eventsChan <- ev:
	}
}
