package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/unkn0wn-root/rediskit"
	"github.com/unkn0wn-root/rediskit/respcache"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cl, err := rediskit.New(context.Background(), rediskit.Options{Addr: mr.Addr(), HealthCheckInterval: -1})
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(Config{Client: cl, CloseClient: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, mr
}

func TestCacheIsByteTransparent(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	raw := []byte{'R', 'K', 'V', '0', 0xff, 0x00, 0xfe}
	if ok, err := c.Set(ctx, "bin", raw, 0, 0); !ok || err != nil {
		t.Fatalf("Set: %v %v", ok, err)
	}
	b, ok, err := c.Get(ctx, "bin")
	if err != nil || !ok || !bytes.Equal(b, raw) {
		t.Fatalf("Get=%x %v %v", b, ok, err)
	}
}

func TestCacheTTLAndDel(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, _ = c.Set(ctx, "upload", []byte("doc"), 0, 20*time.Second)
	if ttl := mr.TTL("upload"); ttl != 20*time.Second {
		t.Fatalf("ttl=%v", ttl)
	}
	mr.FastForward(21 * time.Second)
	if _, ok, _ := c.Get(ctx, "upload"); ok {
		t.Fatalf("entry must expire")
	}

	_, _ = c.Set(ctx, "k", []byte("v"), 0, 0)
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("k") {
		t.Fatalf("Del must remove the key")
	}
}

func TestStoreOverRedis(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)
	s, _ := respcache.New(c, respcache.Options{Namespace: "resp"})

	in := map[string]any{"status": int64(200), "body": "ok"}
	_, _ = s.Put(ctx, "/health", in, time.Minute)
	v, ok, err := s.Value(ctx, "/health")
	if err != nil || !ok {
		t.Fatalf("Value: %v %v", ok, err)
	}
	m, _ := v.(map[string]any)
	if m["status"] != int64(200) || m["body"] != "ok" {
		t.Fatalf("Value=%#v", v)
	}
}

func TestExpiryRounding(t *testing.T) {
	if e := expiry(500 * time.Microsecond); e.Milliseconds != 1 {
		t.Fatalf("sub-ms ttl must round up: %+v", e)
	}
	if e := expiry(0); e != rediskit.NoExpiry {
		t.Fatalf("zero ttl means no expiry: %+v", e)
	}
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); err != rediskit.ErrNilClient {
		t.Fatalf("err=%v", err)
	}
}
