package globallist

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/surivin/Global-List-Editor/pkg/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Change is delivered when the watched document was written, created, renamed or removed.
type Change struct {
	Path    string
	Removed bool
	At      time.Time
}

// Watcher reports changes to a single global list file.
// It watches the parent directory because saves replace the file by rename.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *logging.Logger
	changes  chan Change
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for path. A zero debounce uses the default.
func NewWatcher(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop("watcher")
	}

	return &Watcher{
		watcher:  fw,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		changes:  make(chan Change, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Changes delivers debounced change notifications. Notifications are coalesced
// when the receiver falls behind. The channel is closed when a started watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins watching. It is non-blocking and a no-op when already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	w.logger.Debugf("watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Warnf("error closing watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.changes)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Change
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			pending = Change{
				Path:    w.path,
				Removed: event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
				At:      time.Now(),
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watcher error: %v", err)

		case <-timerC:
			timerC = nil
			w.deliver(pending)
		}
	}
}

// deliver replaces any undelivered notification with the latest one.
func (w *Watcher) deliver(c Change) {
	select {
	case w.changes <- c:
		return
	default:
	}
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- c:
	default:
	}
}
