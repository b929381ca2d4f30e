package sqlite

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/runar-labs/runar-sqlite/events"
	"github.com/runar-labs/runar-sqlite/internal/logger"
)

// TopicDatabaseChanged carries ExternalChange payloads published when a
// write from outside this process is observed.
const TopicDatabaseChanged = "database/changed"

// watcher observes the database file and its WAL sibling and publishes
// database/changed events. Bursts of filesystem events (a single commit
// touches the WAL several times) are coalesced through a rate limiter.
type watcher struct {
	path    string
	bus     *events.Bus
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	done    chan struct{}
}

func newWatcher(path string, bus *events.Bus) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: the -wal and -shm files appear and vanish
	// as connections open and close.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &watcher{
		path:    path,
		bus:     bus,
		fsw:     fsw,
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		done:    make(chan struct{}),
	}, nil
}

func (w *watcher) start() {
	go w.loop()
}

func (w *watcher) stop() {
	close(w.done)
	w.fsw.Close()
}

func (w *watcher) loop() {
	base := filepath.Base(w.path)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != base && name != base+"-wal" {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			logger.Debug("External write observed on %s", event.Name)
			w.bus.Publish(context.Background(), TopicDatabaseChanged,
				ExternalChange{Path: w.path, At: time.Now().UTC()})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
