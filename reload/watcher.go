package reload

import (
	"context"
	"os"
	"time"

	"github.com/wippyai/hotreload/errors"
)

// DefaultStabilizeInterval is the pause between modification-time reads
// while waiting for a writer to finish.
const DefaultStabilizeInterval = 100 * time.Millisecond

// StatFunc returns the modification time of path.
type StatFunc func(path string) (time.Time, error)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func statModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watcher detects modification-time changes of one file and waits for them
// to settle.
type Watcher struct {
	stat     StatFunc
	sleep    SleepFunc
	path     string
	interval time.Duration
}

// NewWatcher creates a watcher for path. Nil hooks select the os.Stat and
// timer based defaults.
func NewWatcher(path string, interval time.Duration, stat StatFunc, sleep SleepFunc) *Watcher {
	if stat == nil {
		stat = statModTime
	}
	if sleep == nil {
		sleep = sleepContext
	}
	if interval <= 0 {
		interval = DefaultStabilizeInterval
	}
	return &Watcher{path: path, interval: interval, stat: stat, sleep: sleep}
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// Changed stats the file and reports whether its modification time differs
// from last.
func (w *Watcher) Changed(last time.Time) (time.Time, bool, error) {
	mt, err := w.stat(w.path)
	if err != nil {
		return time.Time{}, false, errors.IO(errors.PhaseStage, w.path, "stat", err)
	}
	return mt, !mt.Equal(last), nil
}

// Stabilize sleeps and re-stats until two consecutive reads agree, starting
// from the already observed time first. It has no timeout; only ctx ends the
// wait early.
func (w *Watcher) Stabilize(ctx context.Context, first time.Time) (time.Time, error) {
	prev := first
	for {
		if err := w.sleep(ctx, w.interval); err != nil {
			return time.Time{}, errors.Wrap(errors.PhaseStage, errors.KindInvalidState, err, "stabilize "+w.path)
		}
		cur, err := w.stat(w.path)
		if err != nil {
			return time.Time{}, errors.IO(errors.PhaseStage, w.path, "stat", err)
		}
		if cur.Equal(prev) {
			return cur, nil
		}
		prev = cur
	}
}
