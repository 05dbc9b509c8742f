// Package autosave coalesces rapid edits into a single save per key.
// Each submit restarts the key's idle timer; when the timer expires the
// latest value is handed to the save function.
package autosave

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// DefaultDelay is the idle time before a pending value is saved
const DefaultDelay = 2 * time.Second

// ErrStopped is returned by Submit after Stop
var ErrStopped = errors.New("autosave: debouncer stopped")

// SaveFunc persists the latest value for a key
type SaveFunc[K comparable, V any] func(ctx context.Context, key K, value V) error

// MergeFunc combines a pending value with a newer one
type MergeFunc[V any] func(pending, next V) V

// scheduled is one pending save. A new submit replaces the entry, so a timer
// only saves if its entry is still the current one.
type scheduled[V any] struct {
	value V
	timer *time.Timer
}

// Debouncer schedules saves per key
type Debouncer[K comparable, V any] struct {
	delay time.Duration
	save  SaveFunc[K, V]
	merge MergeFunc[V]

	mu       sync.Mutex
	pending  map[K]*scheduled[V]
	stopped  bool
	inflight sync.WaitGroup
}

// Option configures a Debouncer
type Option[K comparable, V any] func(*Debouncer[K, V])

// WithMerge coalesces values instead of replacing them
func WithMerge[K comparable, V any](merge MergeFunc[V]) Option[K, V] {
	return func(d *Debouncer[K, V]) { d.merge = merge }
}

// New creates a Debouncer. A non-positive delay uses DefaultDelay.
func New[K comparable, V any](delay time.Duration, save SaveFunc[K, V], opts ...Option[K, V]) *Debouncer[K, V] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer[K, V]{
		delay:   delay,
		save:    save,
		pending: make(map[K]*scheduled[V]),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit schedules value for key, restarting the key's idle timer
func (d *Debouncer[K, V]) Submit(key K, value V) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
		if d.merge != nil {
			value = d.merge(prev.value, value)
		}
	}

	entry := &scheduled[V]{value: value}
	entry.timer = time.AfterFunc(d.delay, func() { d.fire(key, entry) })
	d.pending[key] = entry
	return nil
}

// fire saves entry if no newer submit replaced it
func (d *Debouncer[K, V]) fire(key K, entry *scheduled[V]) {
	d.mu.Lock()
	if d.pending[key] != entry {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()
	if err := d.save(context.Background(), key, entry.value); err != nil {
		log.Printf("[autosave] save %v failed: %v", key, err)
	}
}

// Cancel drops a pending save. Returns false if nothing was pending.
func (d *Debouncer[K, V]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.pending[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending returns the number of scheduled saves
func (d *Debouncer[K, V]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush saves every pending value now and returns the joined save errors
func (d *Debouncer[K, V]) Flush(ctx context.Context) error {
	d.mu.Lock()
	drained := d.pending
	d.pending = make(map[K]*scheduled[V])
	for _, entry := range drained {
		entry.timer.Stop()
	}
	d.mu.Unlock()

	var errs []error
	for key, entry := range drained {
		if err := d.save(ctx, key, entry.value); err != nil {
			log.Printf("[autosave] flush %v failed: %v", key, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop refuses further submits, flushes pending values, and waits for
// timer-triggered saves already running.
func (d *Debouncer[K, V]) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	err := d.Flush(ctx)
	d.inflight.Wait()
	return err
}
