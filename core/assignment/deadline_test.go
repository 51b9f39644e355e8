package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatcherExpiryIsTerminal(t *testing.T) {
	w := NewWatcherInterval(time.Now().Add(100*time.Millisecond), 20*time.Millisecond)
	defer w.Stop()

	assert.False(t, w.Expired())
	assert.NotEqual(t, ExpiredLabel, w.Label())

	deadline := time.Now().Add(time.Second)
	for !w.Expired() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never expired")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// idempotent terminal state
	time.Sleep(50 * time.Millisecond)
	assert.True(t, w.Expired())
	assert.Equal(t, ExpiredLabel, w.Label())
}

func TestWatcherPastDeadlineExpiresImmediately(t *testing.T) {
	w := NewWatcherInterval(time.Now().Add(-time.Minute), 20*time.Millisecond)
	defer w.Stop()
	assert.True(t, w.Expired())
	assert.Equal(t, ExpiredLabel, w.Label())
}

func TestWatcherStopTearsDownTicker(t *testing.T) {
	w := NewWatcherInterval(time.Now().Add(time.Hour), 10*time.Millisecond)
	w.Stop()
	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("watcher goroutine did not exit after Stop")
	}
	w.Stop() // safe to call again
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90*time.Minute + 5*time.Second, "1 ч 30 мин 5 сек"},
		{59 * time.Second, "0 ч 0 мин 59 сек"},
		{25 * time.Hour, "25 ч 0 мин 0 сек"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.d))
	}
}
