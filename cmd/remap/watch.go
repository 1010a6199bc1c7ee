package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/remap/internal/debug"
)

const defaultDebounce = 300 * time.Millisecond

// snapshotWatcher signals on Changes after a quiet period following any write
// to one of the watched snapshot files. Editors that replace files by rename
// are covered because the parent directories are watched, not the files.
type snapshotWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changes chan struct{}

	debounce time.Duration
	mu       sync.Mutex
	timer    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSnapshotWatcher(paths []string, debounce time.Duration) (*snapshotWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	sw := &snapshotWatcher{
		watcher:  w,
		files:    make(map[string]bool, len(paths)),
		changes:  make(chan struct{}, 1),
		debounce: debounce,
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		sw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return sw, nil
}

// Changes delivers at most one pending notification; bursts coalesce
func (sw *snapshotWatcher) Changes() <-chan struct{} { return sw.changes }

// Start begins processing file system events until Stop or ctx is done
func (sw *snapshotWatcher) Start(ctx context.Context) {
	sw.ctx, sw.cancel = context.WithCancel(ctx)
	sw.wg.Add(1)
	go sw.processEvents()
}

// Stop halts event processing and releases the underlying watcher
func (sw *snapshotWatcher) Stop() error {
	if sw.cancel != nil {
		sw.cancel()
	}
	err := sw.watcher.Close()
	sw.wg.Wait()

	sw.mu.Lock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.mu.Unlock()
	return err
}

func (sw *snapshotWatcher) processEvents() {
	defer sw.wg.Done()

	for {
		select {
		case <-sw.ctx.Done():
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			sw.handleEvent(event)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.ComponentWatch, "watcher error: %v\n", err)
		}
	}
}

func (sw *snapshotWatcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !sw.files[abs] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	debug.Log(debug.ComponentWatch, "%v on %s\n", event.Op, abs)

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.timer = time.AfterFunc(sw.debounce, sw.flush)
}

func (sw *snapshotWatcher) flush() {
	select {
	case sw.changes <- struct{}{}:
	default:
	}
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	sw, err := newSnapshotWatcher([]string{c.String("old"), c.String("new")}, defaultDebounce)
	if err != nil {
		return err
	}
	ctx := c.Context
	sw.Start(ctx)
	defer sw.Stop()

	run := func() {
		// Each run reloads both groups, so the session cache starts empty.
		out, err := runMatch(ctx, c, cfg)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "match failed: %v\n", err)
			}
			return
		}
		fmt.Print(out)
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sw.Changes():
			debug.Log(debug.ComponentWatch, "snapshot changed, rematching\n")
			run()
		}
	}
}
