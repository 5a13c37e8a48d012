package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/rediskit"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	KeyMissEvery   uint64
	FieldMissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	keyMissCtr   atomic.Uint64
	fieldMissCtr atomic.Uint64
}

var _ rediskit.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) KeyMiss(shape rediskit.Shape, op, key string) {
	if h.l == nil || !sample(h.opts.KeyMissEvery, &h.keyMissCtr) {
		return
	}
	h.l.Debug("rediskit.key_miss",
		"shape", shape.String(),
		"op", op,
		"key", h.redact(key))
}

func (h *Hooks) FieldMiss(op, key string) {
	if h.l == nil || !sample(h.opts.FieldMissEvery, &h.fieldMissCtr) {
		return
	}
	h.l.Debug("rediskit.field_miss",
		"op", op,
		"key", h.redact(key))
}

func (h *Hooks) ShapeMismatch(expected rediskit.Shape, actual, key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("rediskit.shape_mismatch",
		"expected", expected.String(),
		"actual", actual,
		"key", h.redact(key))
}

func (h *Hooks) NumericGuard(shape rediskit.Shape, op, key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("rediskit.numeric_guard",
		"shape", shape.String(),
		"op", op,
		"key", h.redact(key))
}

func (h *Hooks) ExpiryConflict(shape rediskit.Shape, key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("rediskit.expiry_conflict",
		"shape", shape.String(),
		"key", h.redact(key))
}

func (h *Hooks) DecodeFallback(reason string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("rediskit.decode_fallback",
		"reason", reason,
		"err", err)
}

func (h *Hooks) HealthCheckFailed(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("rediskit.health_check_failed", "err", err)
}
