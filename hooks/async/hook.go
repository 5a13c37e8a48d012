// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    KeyMissEvery: 100, // sample logs: ~every 100th miss
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	client, _ := rediskit.New(ctx, rediskit.Options{
//	    Addr:  "localhost:6379",
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/rediskit"
)

// Hooks forwards events to inner on worker goroutines. Events are dropped
// when the queue is full so callers never block.
type Hooks struct {
	inner   rediskit.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ rediskit.Hooks = (*Hooks)(nil)

func New(inner rediskit.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = rediskit.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events fired after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped counts events discarded because the queue was full or closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// lost the race with Close: send on closed channel
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) KeyMiss(s rediskit.Shape, op, key string) {
	h.try(func() { h.inner.KeyMiss(s, op, key) })
}
func (h *Hooks) FieldMiss(op, key string) { h.try(func() { h.inner.FieldMiss(op, key) }) }
func (h *Hooks) ShapeMismatch(s rediskit.Shape, actual, key string) {
	h.try(func() { h.inner.ShapeMismatch(s, actual, key) })
}
func (h *Hooks) NumericGuard(s rediskit.Shape, op, key string) {
	h.try(func() { h.inner.NumericGuard(s, op, key) })
}
func (h *Hooks) ExpiryConflict(s rediskit.Shape, key string) {
	h.try(func() { h.inner.ExpiryConflict(s, key) })
}
func (h *Hooks) DecodeFallback(reason string, err error) {
	h.try(func() { h.inner.DecodeFallback(reason, err) })
}
func (h *Hooks) HealthCheckFailed(err error) { h.try(func() { h.inner.HealthCheckFailed(err) }) }
