// Package watcher reports changes to the direct children of one directory so
// an open explorer view can refresh itself.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long events must settle before a Change is sent.
const DefaultDebounce = 150 * time.Millisecond

// Change lists the entries of Dir touched since the previous Change.
type Change struct {
	Dir   string   `json:"dir" yaml:"dir"`
	Paths []string `json:"paths" yaml:"paths"`
}

// Options configures Watch.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watch starts watching dir (not its subdirectories) and returns a channel of
// debounced changes. The watch is registered before Watch returns. The
// channel is closed once ctx is cancelled or the underlying watcher stops.
func Watch(ctx context.Context, dir string, opts Options) (<-chan Change, error) {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir = filepath.Clean(dir)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	logger.Debug("watching directory", zap.String("dir", dir))

	changes := make(chan Change)
	go run(ctx, fsw, dir, debounce, logger, changes)

	return changes, nil
}

func run(ctx context.Context, fsw *fsnotify.Watcher, dir string, debounce time.Duration, logger *zap.Logger, out chan<- Change) {
	defer close(out)
	defer fsw.Close()

	var timer *time.Timer
	pending := make(map[string]struct{})

	for {
		var debounceC <-chan time.Time
		if timer != nil {
			debounceC = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(&timer)
			logger.Debug("stopping watch", zap.String("dir", dir), zap.Error(ctx.Err()))
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event.Op) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			schedule(&timer, debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				logger.Warn("watcher error", zap.String("dir", dir), zap.Error(err))
			}
		case <-debounceC:
			stopTimer(&timer)
			if len(pending) == 0 {
				continue
			}

			change := Change{Dir: dir, Paths: make([]string, 0, len(pending))}
			for path := range pending {
				change.Paths = append(change.Paths, path)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]struct{})

			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func schedule(timer **time.Timer, d time.Duration) {
	if *timer == nil {
		*timer = time.NewTimer(d)
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	(*timer).Reset(d)
}

func stopTimer(timer **time.Timer) {
	if *timer == nil {
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	*timer = nil
}
