package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUBasicSetGet(t *testing.T) {
	c := NewLRU(10, time.Minute)
	c.Set("a", "1", 0)
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get(missing) reported a hit")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(3, time.Minute)
	c.Set("a", "1", 0)
	c.Set("b", "2", 0)
	c.Set("c", "3", 0)

	// Touch "a" so "b" is now the coldest entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("warm-up read of a failed")
	}
	c.Set("d", "4", 0)

	if _, ok := c.Get("b"); ok {
		t.Fatal("coldest entry b survived eviction")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("entry %s evicted unexpectedly", key)
		}
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
}

func TestLRUBoundedUnderOverfill(t *testing.T) {
	const capacity = 5
	c := NewLRU(capacity, time.Minute)
	for i := 0; i < capacity*4; i++ {
		c.Set(fmt.Sprintf("key-%d", i), "v", 0)
	}
	if got := c.Len(); got != capacity {
		t.Fatalf("Len() = %d, want %d", got, capacity)
	}
	// The most recent writes survive.
	for i := capacity*4 - capacity; i < capacity*4; i++ {
		if _, ok := c.Get(fmt.Sprintf("key-%d", i)); !ok {
			t.Fatalf("recent key-%d missing", i)
		}
	}
}

func TestLRULazyTTLExpiry(t *testing.T) {
	c := NewLRU(10, time.Minute)
	c.Set("short", "v", 10*time.Millisecond)
	if _, ok := c.Get("short"); !ok {
		t.Fatal("entry expired before its TTL")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expired entry still served")
	}
	// The expired read also removed the entry.
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() after expiry = %d, want 0", got)
	}
}

func TestLRUOverwriteRefreshes(t *testing.T) {
	c := NewLRU(2, time.Minute)
	c.Set("a", "old", 0)
	c.Set("a", "new", 0)
	if v, _ := c.Get("a"); v != "new" {
		t.Fatalf("Get(a) = %q, want new", v)
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestLRUPurgeMatching(t *testing.T) {
	c := NewLRU(10, time.Minute)
	c.Set("resp:t1:hours:abc", "x", 0)
	c.Set("resp:t1:other:def", "y", 0)
	c.Set("resp:t2:hours:ghi", "z", 0)

	c.PurgeMatching("resp:t1:")

	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if _, ok := c.Get("resp:t2:hours:ghi"); !ok {
		t.Fatal("other tenant's entry was purged")
	}
}
