package watcher

import (
	"slices"
	"sync"
	"time"
)

// DebounceOption configures a Debouncer.
type DebounceOption func(*Debouncer)

// WithMaxWait caps how long a batch may stay pending while events keep
// arriving. Zero means no cap.
func WithMaxWait(maxWait time.Duration) DebounceOption {
	return func(d *Debouncer) {
		d.maxWait = maxWait
	}
}

// Debouncer coalesces bursts of changed paths into sorted batches. A batch is
// delivered once no path was added for a full window, or when the batch has
// been pending for maxWait.
type Debouncer struct {
	window   time.Duration
	maxWait  time.Duration
	callback func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	opened  time.Time
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer that hands batches to callback on its own goroutine.
func NewDebouncer(window time.Duration, callback func(paths []string), opts ...DebounceOption) *Debouncer {
	d := &Debouncer{
		window:   window,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if len(d.pending) == 0 {
		d.opened = time.Now()
	}
	d.pending[path] = struct{}{}

	delay := d.window
	if d.maxWait > 0 {
		remaining := d.maxWait - time.Since(d.opened)
		delay = max(min(delay, remaining), 0)
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() { d.fire(gen) })
}

// fire delivers the batch unless a later Add rescheduled it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush delivers the pending batch now and blocks until the callback returns.
// If the timer already fired, that delivery wins and Flush returns at once.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	d.gen++
	paths := d.drain()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop drops the pending batch. Later adds are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

// drain empties the pending set and returns its paths sorted. d.mu must be held.
func (d *Debouncer) drain() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}
