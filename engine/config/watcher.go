package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/conifer/engine/core"
)

// Watcher reloads the config file whenever it changes on disk and hands the
// parsed result to a callback. Reload failures keep the last good config.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	done     chan struct{}
}

// Watch starts watching path. onChange runs on the watcher goroutine; the
// callback is responsible for publishing values to the frame loop safely.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	dir := filepath.Dir(path)
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go w.run(path, onChange)
	return w, nil
}

func (w *Watcher) run(path string, onChange func(*Config)) {
	target := filepath.Clean(path)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != target {
				continue
			}
			if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				core.LogWarn("config reload failed, keeping previous values: %s", err)
				continue
			}
			core.LogInfo("config reloaded from %s", path)
			onChange(cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config watcher: %s", err.Error())

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsnotify.Close()
}
