package redis

import (
	"context"
	"time"

	"github.com/unkn0wn-root/rediskit"
	"github.com/unkn0wn-root/rediskit/respcache"
)

var _ respcache.Cache = (*Cache)(nil)

// Cache stores entries as Redis strings through the rediskit String command
// set. TTLs are applied in milliseconds.
type Cache struct {
	s      *rediskit.String
	closer func() error
}

type Config struct {
	// Client supplies the String command set. Required.
	Client *rediskit.Client
	// CloseClient closes Client on Close. Set it only if this cache owns it.
	CloseClient bool
}

func New(cfg Config) (*Cache, error) {
	if cfg.Client == nil {
		return nil, rediskit.ErrNilClient
	}
	c := &Cache{s: cfg.Client.Strings()}
	if cfg.CloseClient {
		c.closer = cfg.Client.Close
	}
	return c, nil
}

func (p *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.s.Bytes(ctx, key)
}

func (p *Cache) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	return p.s.Set(ctx, key, value, expiry(ttl))
}

func (p *Cache) Del(ctx context.Context, key string) error {
	_, err := p.s.Delete(ctx, key)
	return err
}

func (p *Cache) Close(context.Context) error {
	if p.closer != nil {
		return p.closer()
	}
	return nil
}

// expiry rounds sub-millisecond TTLs up so they still expire.
func expiry(ttl time.Duration) rediskit.Expiry {
	if ttl <= 0 {
		return rediskit.NoExpiry
	}
	ms := ttl.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	return rediskit.Millis(ms)
}
