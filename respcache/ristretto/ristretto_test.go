package ristretto

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(ctx)

	if ok, _ := c.Set(ctx, "k", []byte("v"), 0, time.Minute); !ok {
		t.Fatalf("Set rejected")
	}
	c.Wait()
	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(b, []byte("v")) {
		t.Fatalf("Get=%q %v %v", b, ok, err)
	}
	_ = c.Del(ctx, "k")
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("deleted key must miss")
	}
}

func TestDefaultTTLApplies(t *testing.T) {
	ctx := context.Background()
	c, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, DefaultTTL: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(ctx)

	if ok, _ := c.Set(ctx, "upload", []byte("v"), 0, 0); !ok {
		t.Fatalf("Set rejected")
	}
	c.Wait()
	if _, ok, _ := c.Get(ctx, "upload"); !ok {
		t.Fatalf("entry must be visible before its TTL")
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "upload"); ok {
		t.Fatalf("entry must expire after DefaultTTL")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}
