package configstore

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/presencewire/presencewire-go/presencewire"
)

// Watcher reloads the config file when it changes on disk and hands the
// fresh config to the registered callback.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func(presencewire.Config)
	done     chan struct{}
}

// Watch starts watching the store's file. The callback runs on the
// watcher goroutine; it receives the result of a fresh Load for every
// write to the file.
func (s *Store) Watch(onChange func(presencewire.Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watching the directory is more reliable than watching the file:
	// editors and atomic writers replace the file instead of updating it.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		store:    s,
		watcher:  watcher,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	filename := filepath.Base(w.store.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.store.log.Info().Str("path", w.store.path).Msg("config changed, reloading")
			w.onChange(w.store.Load())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// Stop ends the watch. Safe to call once.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}
