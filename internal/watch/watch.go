package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/adrianmusante/descriptor-tools/internal/fieldtable"
	"github.com/adrianmusante/descriptor-tools/internal/fs"
	"github.com/adrianmusante/descriptor-tools/internal/logging"
)

const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultMinInterval = 2 * time.Second
)

type Options struct {
	Dir string
	// Debounce is the quiet period after the last relevant event before fn runs.
	Debounce time.Duration
	// MinInterval is the minimum time between two runs of fn. Zero disables it.
	MinInterval time.Duration
	// Ignore lists paths whose events never trigger a run (the output file).
	Ignore []string
}

const changeOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Run watches opts.Dir and calls fn after field tables change, until ctx is
// done. Calls to fn never overlap; an error from fn is logged and watching
// continues.
func Run(ctx context.Context, opts Options, fn func(context.Context) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fs.CloseOrLog(watcher, "watcher")

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", opts.Dir, err)
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	log.Info("watching field tables", "dir", opts.Dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, opts.Ignore) {
				continue
			}
			log.Debug("field table changed", "path", event.Name, "op", event.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(opts.Debounce)
			} else {
				debounce.Reset(opts.Debounce)
			}
			fire = debounce.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		case <-fire:
			fire = nil
			if err := limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := fn(ctx); err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				log.Error("recompile failed", "err", err)
			}
		}
	}
}

func relevant(event fsnotify.Event, ignore []string) bool {
	if event.Op&changeOps == 0 || !fieldtable.IsFieldTable(filepath.Base(event.Name)) {
		return false
	}
	for _, p := range ignore {
		if fs.SameFilePath(event.Name, p) {
			return false
		}
	}
	return true
}
