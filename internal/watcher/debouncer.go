package watcher

import (
	"sort"
	"sync"
	"time"
)

// BatchDebouncer collects changed paths and emits them as one sorted,
// de-duplicated batch once no path has been added for the delay.
type BatchDebouncer struct {
	delay time.Duration
	timer *time.Timer
	mu    sync.Mutex
	paths map[string]struct{}
	emit  func([]string)
}

// NewBatchDebouncer creates a new batch debouncer
func NewBatchDebouncer(delay time.Duration, emit func([]string)) *BatchDebouncer {
	return &BatchDebouncer{
		delay: delay,
		paths: make(map[string]struct{}),
		emit:  emit,
	}
}

// Add records a path and restarts the quiet period.
func (b *BatchDebouncer) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.paths[path] = struct{}{}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, b.flush)
}

func (b *BatchDebouncer) flush() {
	b.mu.Lock()
	batch := make([]string, 0, len(b.paths))
	for p := range b.paths {
		batch = append(batch, p)
	}
	b.paths = make(map[string]struct{})
	b.timer = nil
	b.mu.Unlock()

	if len(batch) > 0 && b.emit != nil {
		sort.Strings(batch)
		b.emit(batch)
	}
}

// Cancel drops pending paths without emitting them.
func (b *BatchDebouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.paths = make(map[string]struct{})
}

// Flush immediately emits any pending paths
func (b *BatchDebouncer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	b.flush()
}

// Pending returns the number of distinct paths waiting to be emitted.
func (b *BatchDebouncer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.paths)
}
