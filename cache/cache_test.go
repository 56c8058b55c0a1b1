package cache

import (
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
)

func TestDisabledCacheNeverStores(t *testing.T) {
	c, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("u => u.id", &ast.Program{})
	if _, ok := c.Get("u => u.id"); ok {
		t.Fatal("Get hit on a disabled cache")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestNilCacheBehavesDisabled(t *testing.T) {
	var c *Cache
	c.Put("u => u.id", &ast.Program{})
	if _, ok := c.Get("u => u.id"); ok {
		t.Fatal("Get hit on a nil cache")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
	c.Resize(4)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c, err := New(Config{Enabled: true, Capacity: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	program := &ast.Program{}
	c.Put("u => u.id", program)

	got, ok := c.Get("u => u.id")
	if !ok {
		t.Fatal("Get miss on a stored key")
	}
	if got != program {
		t.Fatal("Get returned a different *ast.Program than was stored")
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(Config{Enabled: true, Capacity: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("a", &ast.Program{})
	c.Put("b", &ast.Program{})
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get miss on \"a\" before eviction")
	}
	c.Put("c", &ast.Program{})

	if _, ok := c.Get("b"); ok {
		t.Fatal("\"b\" should have been evicted as least-recently-used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("\"a\" should still be cached, it was touched before \"c\" was added")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("\"c\" should be cached")
	}
}

func TestZeroCapacityDisablesCache(t *testing.T) {
	c, err := New(Config{Enabled: true, Capacity: 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("a", &ast.Program{})
	c.Put("b", &ast.Program{})
	if _, ok := c.Get("a"); ok {
		t.Fatal("\"a\" should not be stored by a zero-capacity cache")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("\"b\" should not be stored by a zero-capacity cache")
	}
}

func TestResizeShrinksAndEvicts(t *testing.T) {
	c, err := New(Config{Enabled: true, Capacity: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Put("a", &ast.Program{})
	c.Put("b", &ast.Program{})
	c.Put("c", &ast.Program{})

	c.Resize(1)
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() after Resize(1) = %d, want 1", got)
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("most recently added entry should survive a shrink")
	}
}
