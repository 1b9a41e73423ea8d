package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"subocr/internal/logging"
	"subocr/internal/media"
)

// DefaultDebounce is how long a file must stay quiet before it is handed
// to the handler. Video copies into the input directory can take a while;
// each write resets the clock.
const DefaultDebounce = 2 * time.Second

// Handler processes one settled video file.
type Handler func(ctx context.Context, videoPath string) error

// Watcher monitors a directory for new video files.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	fw       *fsnotify.Watcher

	mu        sync.Mutex
	timers    map[string]*time.Timer
	ready     chan string
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a watcher over dir. A non-positive debounce falls back to
// DefaultDebounce.
func New(dir string, debounce time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("handler required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logging.NewComponentLogger(logger, "watch"),
		fw:       fw,
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
	}, nil
}

// Run blocks, dispatching settled videos to the handler one at a time,
// until the context is canceled or the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	w.logger.Info("watching for videos", logging.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !media.IsVideo(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case path := <-w.ready:
			w.logger.Info("video settled", logging.String("video", path))
			if err := w.handler(ctx, path); err != nil {
				w.logger.Error("handler failed",
					logging.String("video", path),
					logging.Error(err))
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watch error", logging.Error(err))
		}
	}
}

// Close releases the underlying filesystem watcher and pending timers.
// Timer callbacks already past their map cleanup see the closed done
// channel instead of blocking on a full ready queue.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.mu.Lock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	return w.fw.Close()
}

// schedule arms or resets the debounce timer for a path. When the timer
// fires the path is queued for the handler.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}
