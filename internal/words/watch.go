package words

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits after the last write before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a word list file whenever it changes on disk.
//
// The file's directory is watched rather than the file itself, so saves that
// replace the file (write to temp, rename over) are still seen. Bursts of
// events are collapsed into a single reload after Debounce of quiet.
type Watcher struct {
	path     string
	base     string
	fs       *fsnotify.Watcher
	Debounce time.Duration
}

// NewWatcher starts watching path. Call Run to receive reloads and Close when
// done.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("words: watch: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("words: watch %s: %w", dir, err)
	}
	return &Watcher{path: path, base: filepath.Base(path), fs: fw, Debounce: DefaultDebounce}, nil
}

// Close stops the underlying watcher. Run returns once it is closed.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run blocks until ctx is done or the watcher is closed. Each successful
// reload is handed to onChange; a file that fails to load is reported to
// onError and the caller keeps whatever dictionary it had.
func (w *Watcher) Run(ctx context.Context, onChange func(*Dictionary), onError func(error)) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
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

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			d, err := Load(w.path)
			if err != nil {
				onError(err)
				continue
			}
			onChange(d)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			onError(fmt.Errorf("words: watch: %w", err))
		}
	}
}
