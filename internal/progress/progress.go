// Package progress tracks completed jobs across workers and forwards
// coalesced updates to a display.
package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Display renders progress. Update is never called concurrently and done
// never decreases between calls.
type Display interface {
	Update(done, total int64)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(done, total int64)

func (f DisplayFunc) Update(done, total int64) { f(done, total) }

// Options tunes redraw coalescing. A redraw happens when the counter crosses
// a multiple of Every, or when Interval has elapsed since the last redraw.
// Zero values disable the respective trigger; with both disabled only Finish
// redraws.
type Options struct {
	Every    int64
	Interval time.Duration
	Now      func() time.Time
}

// Tracker is a shared completion counter. It is safe for concurrent use.
type Tracker struct {
	total   int64
	done    atomic.Int64
	display Display
	opts    Options

	mu       sync.Mutex
	shown    int64
	lastDraw time.Time
	finished bool
}

// New returns a Tracker for total jobs. display may be nil.
func New(total int64, display Display, opts Options) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{total: total, display: display, opts: opts, shown: -1, lastDraw: opts.Now()}
}

// Total returns the job count the tracker was created with.
func (t *Tracker) Total() int64 { return t.total }

// Advance records n completed jobs and returns the new count.
func (t *Tracker) Advance(n int64) int64 {
	next := t.done.Add(n)
	if t.display == nil || !t.due(next-n, next) {
		return next
	}
	t.redraw(false)
	return next
}

// Snapshot returns the current count without touching the display.
func (t *Tracker) Snapshot() int64 {
	return t.done.Load()
}

// Finish pushes the exact final count to the display. Later calls are no-ops.
func (t *Tracker) Finish() int64 {
	if t.display == nil {
		return t.done.Load()
	}
	t.redraw(true)
	return t.done.Load()
}

func (t *Tracker) due(prev, next int64) bool {
	if every := t.opts.Every; every > 0 && prev/every != next/every {
		return true
	}
	if t.opts.Interval > 0 {
		t.mu.Lock()
		elapsed := t.opts.Now().Sub(t.lastDraw)
		t.mu.Unlock()
		return elapsed >= t.opts.Interval
	}
	return false
}

func (t *Tracker) redraw(final bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	// Read under the lock so concurrent redraws observe a non-decreasing count.
	current := t.done.Load()
	if final {
		t.finished = true
	} else if current <= t.shown {
		return
	}
	t.shown = current
	t.lastDraw = t.opts.Now()
	t.display.Update(current, t.total)
}
