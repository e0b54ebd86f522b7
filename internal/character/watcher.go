package character

import (
	"path/filepath"
	"sync"
	"time"

	"LoomWalker/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// TuningWatcher reloads a tuning file when it changes on disk and delivers
// each valid result on Updates. Invalid files are logged and skipped.
type TuningWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	updates chan Tuning
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchTuning watches the directory holding path, since editors often
// replace files instead of writing them in place.
func WatchTuning(path string) (*TuningWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	tw := &TuningWatcher{
		watcher: w,
		path:    abs,
		updates: make(chan Tuning, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

// Updates is closed after Close.
func (tw *TuningWatcher) Updates() <-chan Tuning {
	return tw.updates
}

func (tw *TuningWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		close(tw.closeCh)
		err = tw.watcher.Close()
		<-tw.done
	})
	return err
}

func (tw *TuningWatcher) run() {
	defer close(tw.done)
	defer close(tw.updates)

	// Reload once the file has been quiet for reloadDebounce.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			tw.reload()
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case tw.Errors <- err:
			default:
			}
		case <-tw.closeCh:
			return
		}
	}
}

func (tw *TuningWatcher) reload() {
	t, err := LoadTuning(tw.path)
	if err != nil {
		logger.Log.Warn("Tuning reload failed", zap.String("path", tw.path), zap.Error(err))
		return
	}
	logger.Log.Info("Tuning reloaded", zap.String("path", tw.path))

	// Keep only the newest tuning if the consumer is behind.
	select {
	case <-tw.updates:
	default:
	}
	select {
	case tw.updates <- t:
	case <-tw.closeCh:
	}
}
