package rediskit

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type logEntry struct {
	level string
	msg   string
	f     Fields
}

type recLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, f: f})
}

func (l *recLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

type recHooks struct {
	NopHooks
	mu        sync.Mutex
	misses    []string
	fields    []string
	guards    []string
	conflicts int
	mismatch  []string
	health    int
}

func (h *recHooks) KeyMiss(s Shape, op, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses = append(h.misses, s.String()+":"+op)
}

func (h *recHooks) FieldMiss(op, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields = append(h.fields, op)
}

func (h *recHooks) NumericGuard(s Shape, op, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.guards = append(h.guards, s.String()+":"+op)
}

func (h *recHooks) ExpiryConflict(Shape, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conflicts++
}

func (h *recHooks) ShapeMismatch(_ Shape, actual, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mismatch = append(h.mismatch, actual)
}

func (h *recHooks) HealthCheckFailed(error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.health++
}

func (h *recHooks) healthFailures() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.health
}

type fixture struct {
	mr    *miniredis.Miniredis
	c     *Client
	log   *recLogger
	hooks *recHooks
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	f := &fixture{mr: mr, log: &recLogger{}, hooks: &recHooks{}}
	c, err := New(context.Background(), Options{
		Addr:                mr.Addr(),
		HealthCheckInterval: -1,
		Logger:              f.log,
		Hooks:               f.hooks,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	f.c = c
	return f
}
