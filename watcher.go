package medrag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ingester interface {
	Ingest(ctx context.Context, root string) (IngestionReport, error)
}

// Watcher re-ingests the corpus directory when its contents change.
// Filesystem events are merged over a debounce window, editors tend to
// emit bursts of writes for a single save.
type Watcher struct {
	log      *slog.Logger
	root     string
	debounce time.Duration
	ingester ingester
}

func NewWatcher(log *slog.Logger, root string, debounce time.Duration, ing ingester) *Watcher {
	return &Watcher{log: log, root: root, debounce: debounce, ingester: ing}
}

// Watch blocks until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create corpus watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	var timer *time.Timer
	resync := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case resync <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("corpus watch error", "error", err)

		case <-resync:
			timer = nil
			report, err := w.ingester.Ingest(ctx, w.root)
			if err != nil {
				w.log.Error("corpus re-sync failed", "error", err)
				continue
			}
			w.log.Info("corpus re-synced",
				"processed", report.DocumentsProcessed,
				"removed", report.DocumentsRemoved,
				"segments", report.SegmentsIndexed)
		}
	}
}
