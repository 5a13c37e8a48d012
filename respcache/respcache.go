// Package respcache caches rendered responses and short-lived uploads in
// front of slower work. Backends are byte stores with per-entry TTL; Store
// adds a key namespace and value encoding through the rediskit codec.
//
// Backends MUST be byte-for-byte transparent: Get returns exactly the []byte
// previously passed to Set for the key.
package respcache

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/rediskit/codec"
)

// Cache is a minimal byte store with TTLs, safe for concurrent use.
type Cache interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (<= 0 means the backend default).
	// cost is a hint for admission-based backends and may be ignored.
	// ok=false means the backend rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}

var ErrNilCache = errors.New("respcache: nil cache")

// Store namespaces keys and encodes values before handing them to a Cache.
type Store struct {
	c   Cache
	ns  string
	cd  *codec.Codec
	ttl time.Duration
}

type Options struct {
	Namespace  string
	Codec      *codec.Codec  // if nil, codec.Default()
	DefaultTTL time.Duration // used when Put gets ttl <= 0
}

func New(c Cache, opts Options) (*Store, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	cd := opts.Codec
	if cd == nil {
		cd = codec.Default()
	}
	return &Store{c: c, ns: opts.Namespace, cd: cd, ttl: opts.DefaultTTL}, nil
}

func (s *Store) key(k string) string {
	if s.ns == "" {
		return k
	}
	return s.ns + ":" + k
}

// Put encodes v and stores it. Text and []byte are stored verbatim.
func (s *Store) Put(ctx context.Context, key string, v any, ttl time.Duration) (bool, error) {
	e, err := s.cd.Encode(v)
	if err != nil {
		return false, err
	}
	var b []byte
	switch x := e.(type) {
	case string:
		b = []byte(x)
	case []byte:
		b = x
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.c.Set(ctx, s.key(key), b, int64(len(b)), ttl)
}

// Load decodes the entry at key into dst (a pointer). A plain text entry can
// only be loaded into a *string.
func (s *Store) Load(ctx context.Context, key string, dst any) (bool, error) {
	b, ok, err := s.c.Get(ctx, s.key(key))
	if err != nil || !ok {
		return false, err
	}
	if err := s.cd.DecodeInto(b, dst); err != nil {
		// unreadable entry: drop it so the caller recomputes
		_ = s.c.Del(ctx, s.key(key))
		return false, nil
	}
	return true, nil
}

// Value returns the untyped decoded entry.
func (s *Store) Value(ctx context.Context, key string) (any, bool, error) {
	b, ok, err := s.c.Get(ctx, s.key(key))
	if err != nil || !ok {
		return nil, false, err
	}
	return s.cd.Decode(b), true, nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.c.Del(ctx, s.key(key))
}

func (s *Store) Close(ctx context.Context) error { return s.c.Close(ctx) }
