package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period after the last file event
// before a reload fires.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher reloads a configuration file whenever it changes. The parent
// directory is watched so editors that save by renaming are followed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Config)
	onError  func(error)

	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewWatcher creates a watcher for path. onReload receives each
// successfully loaded configuration; onError receives load and watch
// errors. Either may be nil.
func NewWatcher(path string, debounce time.Duration, onReload func(*Config), onError func(error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		watcher:   w,
		path:      path,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a new goroutine.
func (cw *Watcher) Start() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return
	}
	cw.running = true
	go cw.loop()
}

// Stop stops watching and waits for the goroutine to exit. A watcher
// that was never started is closed.
func (cw *Watcher) Stop() {
	cw.mu.Lock()
	running := cw.running
	cw.mu.Unlock()

	if !running {
		cw.watcher.Close()
		return
	}
	select {
	case <-cw.stopCh:
	default:
		close(cw.stopCh)
	}
	<-cw.stoppedCh
}

func (cw *Watcher) loop() {
	defer close(cw.stoppedCh)
	defer cw.watcher.Close()

	absPath, _ := filepath.Abs(cw.path)
	baseName := filepath.Base(cw.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-cw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			if cw.onError != nil {
				cw.onError(err)
			}
		}
	}
}

func (cw *Watcher) reload() {
	cfg, err := Load(cw.path)
	if err != nil {
		if cw.onError != nil {
			cw.onError(err)
		}
		return
	}
	if cw.onReload != nil {
		cw.onReload(cfg)
	}
}
