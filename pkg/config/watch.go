package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/ofertas/pkg/log"
)

var logger = log.ForService("config")

// Watch reloads configPath whenever it changes and hands the new
// configuration to onChange. Files that fail to load are reported and
// skipped; the previous configuration stays in effect. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("failed to close config file watcher: %v", err)
		}
	}()

	if err := watcher.Add(configPath); err != nil {
		return fmt.Errorf("watching config file %s: %w", configPath, err)
	}
	logger.Infof("watching config file for changes: %s", configPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)) {
				continue
			}
			logger.Debugf("config file event: %s (%s)", event.Name, event.Op)

			// Editors often replace the file atomically; the watch has to be
			// re-added on the new inode.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					logger.Warnf("config file was removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(configPath); err != nil {
					logger.Warnf("failed to re-add config file to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}

			cfg, err := LoadConfig(configPath)
			if err != nil {
				logger.Errorf("failed to reload configuration: %v", err)
				continue
			}
			logger.Infof("configuration reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("config file watcher error: %v", err)
		}
	}
}
