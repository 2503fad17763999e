package ingest

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/snarg/speech-mine/internal/api"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher monitors the transcript files on disk and reloads the Holder when
// they change. Parent directories are watched rather than the files so that
// editors and tools that replace files by rename are still picked up.
type Watcher struct {
	holder *Holder
	files  map[string]struct{}
	dirs   []string
	log    zerolog.Logger

	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
	debounce time.Duration

	// Debounce: coalesce a burst of writes into one reload.
	debounceMu sync.Mutex
	timer      *time.Timer

	// Stats
	reloads  atomic.Int64
	failures atomic.Int64
	status   atomic.Value // string: "starting", "watching", "stopped"
}

// NewWatcher creates a watcher over the given local file paths.
func NewWatcher(holder *Holder, paths []string, log zerolog.Logger) *Watcher {
	w := &Watcher{
		holder:   holder,
		files:    make(map[string]struct{}, len(paths)),
		log:      log.With().Str("component", "watcher").Logger(),
		debounce: defaultDebounce,
	}
	seen := make(map[string]struct{})
	for _, p := range paths {
		p = filepath.Clean(p)
		w.files[p] = struct{}{}
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	sort.Strings(w.dirs)
	w.status.Store("starting")
	return w
}

// Start begins watching. Events are processed until ctx is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return err
		}
	}
	w.watcher = fw

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.watchLoop(ctx)

	w.status.Store("watching")
	w.log.Info().Strs("directories", w.dirs).Int("files", len(w.files)).Msg("file watcher initialized")
	return nil
}

// Stop closes the fsnotify watcher and cancels any pending reload.
func (w *Watcher) Stop() {
	w.status.Store("stopped")
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
	if w.done != nil {
		<-w.done
	}
	w.debounceMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.debounceMu.Unlock()

	w.log.Info().
		Int64("reloads", w.reloads.Load()).
		Int64("failures", w.failures.Load()).
		Msg("file watcher stopped")
}

// Status returns the current watcher status for the health endpoint.
func (w *Watcher) Status() *api.WatcherStatusData {
	s, _ := w.status.Load().(string)
	return &api.WatcherStatusData{
		Status:         s,
		WatchDirs:      w.dirs,
		Reloads:        w.reloads.Load(),
		ReloadFailures: w.failures.Load(),
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("transcript file changed")
			w.scheduleReload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleReload debounces reloads so a file is fully written before it is
// read and a burst of events triggers a single rebuild.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.debounceMu.Lock()
		w.timer = nil
		w.debounceMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if _, err := w.holder.Reload(ctx); err != nil {
			w.failures.Add(1)
			return
		}
		w.reloads.Add(1)
	})
}
