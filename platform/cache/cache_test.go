package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client, time.Minute)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestGetMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got payload
	hit, err := c.Get(ctx, "settings", &got)
	if err != nil {
		t.Fatalf("get on empty cache: %v", err)
	}
	if hit {
		t.Fatal("expected miss on empty cache")
	}

	want := payload{Name: "soul", Count: 3}
	if err := c.Set(ctx, "settings", want); err != nil {
		t.Fatalf("set: %v", err)
	}
	hit, err = c.Get(ctx, "settings", &got)
	if err != nil {
		t.Fatalf("get after set: %v", err)
	}
	if !hit || got != want {
		t.Fatalf("expected hit with %+v, got hit=%v value=%+v", want, hit, got)
	}
}

func TestSetAppliesTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "settings", payload{Name: "soul"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got payload
	hit, err := c.Get(ctx, "settings", &got)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if hit {
		t.Fatal("expected entry to expire after TTL")
	}
}

func TestDeleteInvalidates(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "settings", payload{Name: "soul"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Delete(ctx, "settings"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got payload
	hit, err := c.Get(ctx, "settings", &got)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if hit {
		t.Fatal("expected miss after delete")
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if err := c.Set(ctx, "settings", payload{}); err != nil {
		t.Fatalf("nil set: %v", err)
	}
	var got payload
	hit, err := c.Get(ctx, "settings", &got)
	if err != nil || hit {
		t.Fatalf("nil get should miss silently, got hit=%v err=%v", hit, err)
	}
	if err := c.Delete(ctx, "settings"); err != nil {
		t.Fatalf("nil delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
