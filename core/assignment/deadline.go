package assignment

import (
	"fmt"
	"sync"
	"time"
)

// ExpiredLabel is shown once the deadline passed; a negative duration is
// never displayed.
const ExpiredLabel = "Время истекло"

// Watcher recomputes the time remaining until a deadline on a fixed interval
// while its owning view is active. Expired is a terminal state: once true it
// stays true and the ticker shuts down. Stop must be called on every exit
// path of the owning view.
type Watcher struct {
	deadline time.Time

	mu        sync.Mutex
	remaining time.Duration
	expired   bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewWatcher starts a watcher ticking once per second.
func NewWatcher(deadline time.Time) *Watcher {
	return NewWatcherInterval(deadline, time.Second)
}

// NewWatcherInterval is NewWatcher with an injectable tick, for tests.
func NewWatcherInterval(deadline time.Time, interval time.Duration) *Watcher {
	w := &Watcher{
		deadline: deadline,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	w.recompute(time.Now())
	go w.run(interval)
	return w
}

func (w *Watcher) run(interval time.Duration) {
	defer close(w.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case now := <-ticker.C:
			if w.recompute(now) {
				return // terminal: no more updates needed
			}
		}
	}
}

// recompute reports whether the deadline has expired.
func (w *Watcher) recompute(now time.Time) bool {
	remaining := w.deadline.Sub(now)
	w.mu.Lock()
	defer w.mu.Unlock()
	if remaining <= 0 {
		w.remaining = 0
		w.expired = true
	} else {
		w.remaining = remaining
	}
	return w.expired
}

func (w *Watcher) Expired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expired
}

// Label renders the countdown the way the assignment card shows it.
func (w *Watcher) Label() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.expired {
		return ExpiredLabel
	}
	return FormatRemaining(w.remaining)
}

// Stop cancels the recurring recompute. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

// FormatRemaining renders a positive duration as «N ч M мин S сек».
func FormatRemaining(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d ч %d мин %d сек", h, m, s)
}
