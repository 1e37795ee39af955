// Package cache memoizes operation results for one bound object.
//
// A policy is chosen once per context as a Factory; every bound object
// gets its own Cache from it.  Failed computations are never stored.
package cache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

type Cache interface {
	// Get returns the value stored under key, computing and storing it
	// first if needed.
	Get(key string, compute func() (any, error)) (any, error)
	// Clear forgets key.
	Clear(key string)
}

type Factory func() Cache

type Policy string

const (
	PolicyNone       Policy = "none"
	PolicyMap        Policy = "map"
	PolicyConcurrent Policy = "concurrent"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyNone, PolicyMap, PolicyConcurrent:
		return p, nil
	}
	return "", fmt.Errorf("unknown cache policy %q", s)
}

// Factory returns the cache factory of p.
func (p Policy) Factory() Factory {
	switch p {
	case PolicyNone:
		return None
	case PolicyMap:
		return Map
	default:
		return Concurrent
	}
}

type none struct{}

// None recomputes on every call.
func None() Cache { return none{} }

func (none) Get(_ string, compute func() (any, error)) (any, error) {
	return compute()
}

func (none) Clear(string) {}

type mapCache struct {
	m map[string]any
}

// Map stores results in a plain map.  It must not be shared between
// goroutines.
func Map() Cache {
	return &mapCache{m: make(map[string]any)}
}

func (c *mapCache) Get(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.m[key]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.m[key] = v
	return v, nil
}

func (c *mapCache) Clear(key string) {
	delete(c.m, key)
}

type concurrent struct {
	m     sync.Map
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

// Concurrent is safe for concurrent use and computes each key at most once
// at a time; callers arriving while a key is computed wait for and share
// its result.  A result whose key was cleared while it was computed is
// returned but not stored.
func Concurrent() Cache {
	return &concurrent{gen: make(map[string]uint64)}
}

func (c *concurrent) Get(key string, compute func() (any, error)) (any, error) {
	if v, ok := c.m.Load(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.m.Load(key); ok {
			return v, nil
		}
		gen := c.generation(key)
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen[key] == gen {
			c.m.Store(key, v)
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (c *concurrent) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

func (c *concurrent) Clear(key string) {
	c.mu.Lock()
	c.gen[key]++
	c.m.Delete(key)
	c.mu.Unlock()
	c.group.Forget(key)
}
