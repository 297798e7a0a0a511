package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watch reports changes to the session file made by other processes, for
// example `fitflex logout` in a second terminal. onChange receives true when
// the file was removed. It blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(removed bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: the file itself is replaced by rename on every save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				onChange(true)
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				onChange(false)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("session watcher error")
		}
	}
}
