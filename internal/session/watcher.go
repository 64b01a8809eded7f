package session

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch drops the in-memory session mirror when the durable keys are
// removed out-of-band (the "storage-clearing" logout path). It blocks until
// ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != tokenFile && name != userFile {
				continue
			}
			if s.Current() != nil {
				s.logger.Info("session storage cleared externally, dropping session",
					zap.String("key", name),
				)
				s.clearLocal()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("session watcher error", zap.Error(err))
		}
	}
}
