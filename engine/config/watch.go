package config

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	fn      func(*Config)

	done chan struct{}
	once sync.Once
}

// Watch starts watching a config file. fn runs on the watcher goroutine with every
// successfully reloaded config; a file that fails to load is logged and skipped.
// The parent directory is watched so editors that replace the file are followed.
//
// Parameters:
//   - path: the config file
//   - fn: the reload callback
//
// Returns:
//   - *Watcher: the running watcher, stopped with Close
//   - error: error if the directory cannot be watched
func Watch(path string, fn func(*Config)) (*Watcher, error) {
	if fn == nil {
		panic("config: Watch requires a callback")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "config: watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, errors.Wrap(err, "config: watch")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "config: watch %s", path)
	}

	w := &Watcher{path: abs, watcher: fw, fn: fn, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				log.Printf("config: reload skipped: %v", err)
				continue
			}
			w.fn(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine. Closing twice is a no-op.
//
// Returns:
//   - error: error from releasing the watch
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
