package ixgest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/sym"
)

// RunCallback receives the outcome of each re-ingest
type RunCallback func(*ProcessingResult, error)

// Watcher re-runs ingestion of a corpus when its documents change
type Watcher struct {
	root     string
	exts     map[string]bool
	proc     *RefDocIxProcessor
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	trigger       chan struct{}
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, proc *RefDocIxProcessor, debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	exts := proc.opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	w := &Watcher{
		root:     root,
		exts:     make(map[string]bool, len(exts)),
		proc:     proc,
		watcher:  fw,
		debounce: debounce,
		logger:   log,
		trigger:  make(chan struct{}, 1),
	}
	for _, ext := range exts {
		w.exts[strings.ToLower(ext)] = true
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run ingests once, then again after every settled burst of document
// changes, until ctx is done. Runs never overlap.
func (w *Watcher) Run(ctx context.Context, onRun RunCallback) error {
	defer w.stopTimer()
	w.schedule(0)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.trigger:
			result, err := w.proc.ProcessPath(ctx, w.root)
			if onRun != nil {
				onRun(result, err)
			}

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Corpus watcher error", logger.FieldError, err, logger.FieldSymbol, sym.IX)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warnw("Failed to watch new directory", logger.FieldFile, event.Name, logger.FieldError, err, logger.FieldSymbol, sym.IX)
			}
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if !w.exts[strings.ToLower(filepath.Ext(event.Name))] {
		return
	}
	if _, ok := RefIDFromPath(event.Name); !ok {
		return
	}
	w.logger.Debugw("Corpus change detected", logger.FieldFile, event.Name, "op", event.Op.String(), logger.FieldSymbol, sym.IX)
	w.schedule(w.debounce)
}

// schedule debounces rapid file changes into one run
func (w *Watcher) schedule(after time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(after, func() {
		select {
		case w.trigger <- struct{}{}:
		default: // a run is already pending
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
