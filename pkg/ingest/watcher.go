// Package ingest watches a drop directory and feeds new invoice files through
// the extraction pipeline, so documents can arrive via scanner share or rsync
// instead of the HTTP upload endpoint.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
	"github.com/BekirBz/invoice-ai-mvp/pkg/pipeline"
)

// Watcher processes files created under Dir on behalf of UserID.
type Watcher struct {
	Dir    string
	UserID string
	Pipe   *pipeline.Pipeline
}

func New(dir, userID string, pipe *pipeline.Pipeline) *Watcher {
	return &Watcher{Dir: dir, UserID: userID, Pipe: pipe}
}

// Run blocks until ctx is cancelled. Events are debounced so files are only
// picked up once writes have settled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(w.Dir); err != nil {
		return err
	}
	logging.L().WithField("dir", w.Dir).Info("ingest: watching")

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && isSupportedExt(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					delete(pending, path)
					w.processFile(ctx, path)
				}
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.L().WithError(err).Warn("ingest: watch error")
		}
	}
}

func (w *Watcher) processFile(ctx context.Context, path string) {
	log := logging.L().WithField("file", filepath.Base(path))
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("ingest: read failed")
		return
	}
	inv, err := w.Pipe.Process(ctx, data, filepath.Base(path), w.UserID)
	if err != nil {
		log.WithError(err).Warn("ingest: skipped")
		return
	}
	log.WithField("id", inv.ID).Info("ingest: stored invoice")
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".webp", ".tif", ".tiff":
		return true
	}
	return false
}
