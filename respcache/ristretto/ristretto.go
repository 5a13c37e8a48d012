package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/rediskit/respcache"
)

var _ respcache.Cache = (*Cache)(nil)

var ErrInvalidConfig = errors.New("respcache/ristretto: NumCounters, MaxCost and BufferItems must be positive")

// Cache is an admission-controlled in-process backend. Writes are buffered:
// a Set may not be visible to Get until Wait returns.
type Cache struct {
	rc  *rc.Cache
	ttl time.Duration
}

type Config struct {
	NumCounters int64
	MaxCost     int64 // in the unit Set's cost uses; bytes when cost is 0
	BufferItems int64
	Metrics     bool
	// DefaultTTL applies when Set gets ttl <= 0. 0 keeps such entries until
	// evicted.
	DefaultTTL time.Duration
}

func New(cfg Config) (*Cache, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, ErrInvalidConfig
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	ttl := cfg.DefaultTTL
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{rc: c, ttl: ttl}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := c.rc.Get(key)
	if !found {
		return nil, false, nil
	}
	if b, ok := v.([]byte); ok && b != nil {
		return b, true, nil
	}
	c.rc.Del(key)
	return nil, false, nil
}

// Set charges len(value) when cost is not positive.
func (c *Cache) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if cost <= 0 {
		cost = int64(len(value))
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.rc.SetWithTTL(key, value, cost, ttl), nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.rc.Del(key)
	return nil
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() { c.rc.Wait() }

func (c *Cache) Close(context.Context) error {
	c.rc.Wait()
	c.rc.Close()
	return nil
}

// Metrics is nil unless Config.Metrics was set.
func (c *Cache) Metrics() *rc.Metrics { return c.rc.Metrics }
