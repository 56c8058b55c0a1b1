// Package cache provides the parse cache: an LRU keyed by lambda source
// text that avoids re-running the ECMAScript parser for a predicate,
// projector, or key selector the caller supplies as the same string on
// every call (spec §3.5, §9 invariant 4).
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
)

// Config controls whether the cache is active and how many entries it
// retains.
type Config struct {
	Enabled  bool
	Capacity int
}

// DefaultConfig matches the teacher's own defaults: on, with a capacity
// generous enough for a typical application's fixed set of query shapes
// (spec §6.3).
func DefaultConfig() Config {
	return Config{Enabled: true, Capacity: 1024}
}

// Cache is a thread-safe LRU from lambda source text to its parsed AST.
// A nil *Cache is valid and behaves as disabled (every lookup misses).
type Cache struct {
	lru *lru.Cache[string, *ast.Program]
}

// New builds a Cache per cfg. Enabled=false or a capacity of zero (or
// less) returns a Cache that never stores anything, so callers can use it
// unconditionally without a nil check.
func New(cfg Config) (*Cache, error) {
	if !cfg.Enabled || cfg.Capacity <= 0 {
		return &Cache{}, nil
	}
	l, err := lru.New[string, *ast.Program](cfg.Capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached AST for source, if present.
func (c *Cache) Get(source string) (*ast.Program, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(source)
}

// Put stores an AST for source, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(source string, program *ast.Program) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(source, program)
}

// Len reports the current number of cached entries (0 when disabled).
func (c *Cache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// Resize changes the cache's capacity, evicting the least-recently-used
// entries immediately if the new capacity is smaller than the current
// size. A no-op on a disabled cache.
func (c *Cache) Resize(capacity int) {
	if c == nil || c.lru == nil || capacity <= 0 {
		return
	}
	c.lru.Resize(capacity)
}
