package uischema

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formbind/pkg/filter"
)

const defaultDebounce = 100 * time.Millisecond

// Update carries a reloaded filter chain, or the error that prevented the
// reload.
type Update struct {
	Filters []filter.FieldFilter
	Err     error
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce coalesces bursts of file events into one reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher reloads a preset directory whenever one of its preset files
// changes and publishes the filter chain for a single form id. Updates are
// delivered on a channel so the goroutine owning the form can apply them to
// its filter list.
type Watcher struct {
	dir      string
	form     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan Update
	stop     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// Watch starts watching dir for preset changes affecting form.
func Watch(dir, form string, options ...WatchOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("uischema: create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("uischema: watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		form:     form,
		debounce: defaultDebounce,
		watcher:  fsw,
		updates:  make(chan Update, 1),
		stop:     make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Updates returns the channel reloads are published on. It is closed by Close.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Close stops the watcher and closes the updates channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.updates)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isPresetFile(event.Name) || !event.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			trigger = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publish(Update{Err: fmt.Errorf("uischema: watch %s: %w", w.dir, err)})

		case <-trigger:
			trigger = nil
			w.publish(w.reload())

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() Update {
	store, err := LoadFS(os.DirFS(w.dir))
	if err != nil {
		return Update{Err: err}
	}
	chain, err := store.Filters(w.form)
	if err != nil {
		return Update{Err: err}
	}
	return Update{Filters: chain}
}

// publish replaces any update the consumer has not read yet.
func (w *Watcher) publish(update Update) {
	for {
		select {
		case w.updates <- update:
			return
		case <-w.stop:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
