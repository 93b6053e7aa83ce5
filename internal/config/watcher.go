package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads the config file when it changes on disk and hands the
// new configuration to a callback. Invalid files are logged and ignored.
type Watcher struct {
	path     string
	onChange func(*Config)
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for the config file at path
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory so editors that replace the file are still seen
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		watcher:  fsWatcher,
		done:     make(chan struct{}),
	}, nil
}

// Start begins processing file events
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true

	w.wg.Add(1)
	go w.eventLoop()

	log.Debug().Str("path", w.path).Msg("Config watcher started")
}

// Stop stops the watcher and waits for the event loop to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
	w.wg.Wait()

	log.Debug().Msg("Config watcher stopped")
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		log.Warn().Err(err).Str("path", w.path).Msg("Ignoring invalid config change")
		return
	}

	log.Info().Str("path", w.path).Msg("Config file reloaded")
	w.onChange(cfg)
}
