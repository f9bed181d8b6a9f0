package cache

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"
)

func TestNewRedisCacheInvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://localhost:6379"); err == nil {
		t.Error("NewRedisCache with non-redis scheme should fail")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and never runs redis.
	if _, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0"); err == nil {
		t.Error("NewRedisCache against closed port should fail")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("STYXGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("STYXGRAPH_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := Key("svg", "digraph "+t.Name()+" {}")
	t.Cleanup(func() { _ = c.Delete(context.Background(), key) })

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get() before Set = (%v, %v), want miss", hit, err)
	}
	want := []byte("<svg/>")
	if err := c.Set(ctx, key, want, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || !bytes.Equal(got, want) {
		t.Fatalf("Get() = (%q, %v, %v), want hit %q", got, hit, err, want)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get() after Delete should miss")
	}
}
