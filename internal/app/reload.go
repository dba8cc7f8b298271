package app

import (
	"context"

	"github.com/dshills/softwrap/internal/config"
	"github.com/dshills/softwrap/internal/renderer/backend"
)

// watchConfig starts reloading the configuration whenever its file
// changes. Reloads are posted to the event loop rather than applied here.
func (v *Viewer) watchConfig(ctx context.Context) {
	if v.loader == nil || v.loader.Path() == "" {
		return
	}

	watcher, err := config.NewWatcher(v.loader.Path())
	if err != nil {
		v.logger.Warn("config hot reload disabled: %v", err)
		return
	}

	go func() {
		defer watcher.Close()
		_ = watcher.Run(ctx, v.reloadConfig, func(err error) {
			v.logger.Warn("config watcher: %v", err)
		})
	}()
	v.logger.Debug("watching %s for changes", v.loader.Path())
}

// reloadConfig loads the configuration again and hands the result to the
// event loop. It runs on the watcher goroutine.
func (v *Viewer) reloadConfig() {
	cfg, err := v.loader.Load()
	if err == nil && v.override != nil {
		v.override(cfg)
		err = cfg.Validate()
	}
	if err != nil {
		err = NewOperationError("reload", v.loader.Path(), err)
	}

	ev := backend.Event{Type: backend.EventInterrupt, Data: configReload{cfg: cfg, err: err}}
	if postErr := v.backend.PostEvent(ev); postErr != nil {
		v.logger.Warn("dropping config reload: %v", postErr)
	}
}
