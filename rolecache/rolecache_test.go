package rolecache

import (
	"testing"
	"time"
)

func TestCacheServesWithinTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set("u1", "admin")

	// still inside the TTL
	now = now.Add(5*time.Minute - time.Second)
	if got := c.Get("u1"); got != "admin" {
		t.Fatalf("expected cached admin role, got %q", got)
	}

	// past the TTL
	now = now.Add(2 * time.Second)
	if got := c.Get("u1"); got != "" {
		t.Fatalf("expected expired entry, got %q", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(time.Hour)
	c.Set("u1", "admin")
	c.Set("u2", "user")

	c.Invalidate("u1")
	if got := c.Get("u1"); got != "" {
		t.Fatalf("expected u1 invalidated, got %q", got)
	}
	if got := c.Get("u2"); got != "user" {
		t.Fatalf("expected u2 untouched, got %q", got)
	}
}

func TestCacheResetClearsEverything(t *testing.T) {
	c := New(time.Hour)
	c.Set("u1", "admin")
	c.Set("u2", "user")

	c.Reset()

	if c.Get("u1") != "" || c.Get("u2") != "" {
		t.Fatal("expected every entry cleared after reset")
	}
}

func TestCacheMissReturnsEmpty(t *testing.T) {
	c := New(time.Hour)
	if got := c.Get("nobody"); got != "" {
		t.Fatalf("expected empty role for unknown uid, got %q", got)
	}
}
