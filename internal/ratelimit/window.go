// Package ratelimit provides a sliding-window limiter backed by a ringbuf.Deque.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/ttd2089/ringdeque/internal/ringbuf"
)

// A Window admits at most limit events in any span of period. It remembers the timestamps of
// the last limit events, oldest at the front. A Window is not safe for concurrent use.
type Window struct {
	limit  int
	period time.Duration
	sends  *ringbuf.Deque[time.Time]
}

// NewWindow returns a Window admitting limit events per period.
func NewWindow(limit int, period time.Duration) (*Window, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period %v must be positive", period)
	}
	sends, err := ringbuf.NewWithCapacity[time.Time](limit)
	if err != nil {
		return nil, fmt.Errorf("limit %d: %w", limit, err)
	}
	return &Window{
		limit:  limit,
		period: period,
		sends:  sends,
	}, nil
}

// Len returns the number of events currently remembered.
func (w *Window) Len() int {
	return w.sends.Len()
}

// Delay returns how long a caller must wait after now before the next event is admitted. It
// is zero while the window has room or the oldest remembered event has aged out.
func (w *Window) Delay(now time.Time) time.Duration {
	if w.sends.Len() < w.limit {
		return 0
	}
	anchor, err := w.sends.Front()
	if err != nil {
		return 0
	}
	delay := anchor.Add(w.period).Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

// Record remembers an event at t, forgetting the oldest event once the window is full.
func (w *Window) Record(t time.Time) {
	if w.sends.Len() == w.limit {
		// The deque is non-empty here, so the error is always nil.
		_, _ = w.sends.RemoveFromFront()
	}
	w.sends.AddToBack(t)
}

// Expire forgets events older than period relative to now and returns how many it dropped.
func (w *Window) Expire(now time.Time) int {
	threshold := now.Add(-w.period)
	dropped := 0
	for {
		oldest, err := w.sends.Front()
		if err != nil || oldest.After(threshold) {
			return dropped
		}
		_, _ = w.sends.RemoveFromFront()
		dropped++
	}
}
