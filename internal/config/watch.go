package config

import (
	"context"
	"path/filepath"

	"LotusPond/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it is written and hands the new config to
// onChange. It watches the parent directory so editors that replace the file
// are picked up. onChange runs on the watcher goroutine. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Load(abs)
			if err != nil {
				logger.Log.Warn("Config reload failed", zap.String("path", abs), zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("path", abs))
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Log.Warn("Config watcher error", zap.Error(err))
		}
	}
}
