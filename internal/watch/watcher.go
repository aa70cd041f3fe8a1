// Package watch triggers a combination reload when definition files change
// on disk, so edits made in an external editor apply without restarting.
package watch

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/input/symbol"
	"github.com/padbind/padbind/internal/log"
)

// DefaultDebounce batches editor save bursts into one reload.
const DefaultDebounce = 250 * time.Millisecond

// dirPollInterval is how often the watcher checks whether the active
// combinations directory moved.
const dirPollInterval = 2 * time.Second

// Publisher is the slice of the event bus the watcher needs.
type Publisher interface {
	Publish(t topic.Topic, payload any)
}

// Watcher follows the active combinations directory and publishes a reload
// event after definition files change. The directory is re-resolved
// periodically so a reload that switched directories moves the watch along.
type Watcher struct {
	fsw    *fsnotify.Watcher
	bus    Publisher
	logger *log.Logger

	// dirFn returns the directory to watch right now.
	dirFn    func() string
	debounce time.Duration

	mu      sync.Mutex
	watched string

	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window before a reload fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the directory reported by dirFn. Call Start to
// begin watching.
func New(dirFn func() string, bus Publisher, logger *log.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Discard()
	}
	w := &Watcher{
		fsw:      fsw,
		bus:      bus,
		logger:   logger.WithField("component", "watch"),
		dirFn:    dirFn,
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start attaches to the current directory and begins processing events.
func (w *Watcher) Start() error {
	if err := w.retarget(); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.closeCh) })
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// retarget points the underlying watch at the current directory.
func (w *Watcher) retarget() error {
	dir := w.dirFn()
	if dir == "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.watched {
		return nil
	}
	if w.watched != "" {
		if err := w.fsw.Remove(w.watched); err != nil {
			w.logger.Debugf("unwatching %s: %v", w.watched, err)
		}
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.logger.Infof("watching %s", dir)
	w.watched = dir
	return nil
}

// loop turns raw filesystem events into debounced reloads.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var pending *time.Timer
	var pendingC <-chan time.Time
	dirTicker := time.NewTicker(dirPollInterval)
	defer dirTicker.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debugf("definition change: %s %s", ev.Op, ev.Name)
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				pendingC = pending.C
			} else {
				if !pending.Stop() {
					select {
					case <-pending.C:
					default:
					}
				}
				pending.Reset(w.debounce)
			}

		case <-pendingC:
			pending = nil
			pendingC = nil
			// An empty payload re-scans the active directory.
			w.bus.Publish(topic.Reload, "")

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watch error: %v", err)

		case <-dirTicker.C:
			if err := w.retarget(); err != nil {
				w.logger.Errorf("retargeting watch: %v", err)
			}
		}
	}
}

// relevant filters to definition-file changes.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, symbol.FileExt) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
