// Package watch feeds narrative files dropped into the intake directory
// through the analysis pipeline.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"dealflow/agent"
	"dealflow/evidence"
	"dealflow/scoring"
)

// Watcher monitors the intake directory for new narrative text files,
// runs an analysis on each one, and dispatches the evidence packet.
type Watcher struct {
	dir        string
	agent      *agent.Agent
	dispatcher *evidence.Dispatcher
	box        scoring.BuyBox
	log        *zap.Logger
}

// New builds an intake watcher. A nil dispatcher skips evidence
// dispatch.
func New(dir string, ag *agent.Agent, dispatcher *evidence.Dispatcher, box scoring.BuyBox, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{dir: dir, agent: ag, dispatcher: dispatcher, box: box, log: log}
}

// Start begins watching the intake directory. Returns once the watch is
// registered; processing continues until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && w.isNarrative(evt.Name) {
					w.process(ctx, evt.Name)
				}
			case err := <-watcher.Errors:
				w.log.Warn("intake watcher error", zap.Error(err))
			}
		}
	}()
	return watcher.Add(w.dir)
}

// Backfill analyzes narrative files already present in the intake
// directory when the service starts.
func (w *Watcher) Backfill(ctx context.Context) error {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if w.isNarrative(e) {
			w.process(ctx, e)
		}
	}
	return nil
}

func (w *Watcher) isNarrative(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("intake file unreadable", zap.String("file", path), zap.Error(err))
		return
	}
	run, err := w.agent.Run(ctx, string(data), w.box)
	if err != nil {
		w.log.Warn("intake analysis failed", zap.String("file", path), zap.Error(err))
		return
	}
	if w.dispatcher != nil {
		w.dispatcher.Dispatch(ctx, evidence.BuildPacket(run))
	}
	w.log.Info("intake file analyzed",
		zap.String("file", path), zap.String("run_id", run.RunID),
		zap.Int("score", run.ScoreData.Score))
}
