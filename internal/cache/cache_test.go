package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// both backends must satisfy PageCache
var (
	_ PageCache = (*Memory)(nil)
	_ PageCache = (*Redis)(nil)
)

func TestMemory_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	if _, ok := c.Get(ctx, "/"); ok {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "/", "<html>home</html>"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	page, ok := c.Get(ctx, "/")
	if !ok || page != "<html>home</html>" {
		t.Errorf("Get() = %q, %v", page, ok)
	}

	if err := c.Invalidate(ctx, "/", "/posts", "/posts/hello-world"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := c.Get(ctx, "/"); ok {
		t.Error("page should be gone after invalidation")
	}

	// Invalidating the same (now absent) keys again must be a no-op.
	if err := c.Invalidate(ctx, "/", "/posts", "/posts/hello-world"); err != nil {
		t.Errorf("repeat Invalidate() error = %v", err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	now := time.Now()
	c.clock = func() time.Time { return now }

	if err := c.Set(ctx, "/posts", "listing"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := c.Get(ctx, "/posts"); !ok {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "/posts"); ok {
		t.Error("expired entry should miss")
	}
}

// newTestRedis starts a miniredis server and connects a Redis cache to it.
func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	c, err := NewRedis(RedisConfig{Addr: mini.Addr(), TTL: ttl})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mini
}

func TestRedis_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t, 0)

	if _, ok := c.Get(ctx, "/"); ok {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "/", "<html>home</html>"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	page, ok := c.Get(ctx, "/")
	if !ok || page != "<html>home</html>" {
		t.Errorf("Get() = %q, %v", page, ok)
	}

	if err := c.Invalidate(ctx, "/", "/never-set"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := c.Get(ctx, "/"); ok {
		t.Error("page should be gone after invalidation")
	}
}

func TestRedis_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mini := newTestRedis(t, time.Minute)

	if err := c.Set(ctx, "/posts", "listing"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mini.FastForward(2 * time.Minute)
	if _, ok := c.Get(ctx, "/posts"); ok {
		t.Error("expired entry should miss")
	}
}

func TestRedis_ServerGoneDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	c, mini := newTestRedis(t, 0)

	if err := c.Set(ctx, "/", "home"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	mini.Close()

	if _, ok := c.Get(ctx, "/"); ok {
		t.Error("a dead cache server should read as a miss, not an error")
	}
}
