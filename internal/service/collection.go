package service

import (
	"context"
	"sync"

	"github.com/dentnotion/dentnotion/internal/api"
)

// Collection caches one resource listing together with the parameters that
// produced it, so "try again" is an explicit idempotent Refetch instead of the
// caller re-deriving the original request.
type Collection[T any] struct {
	fetch func(ctx context.Context) (api.List[T], error)

	mu    sync.Mutex
	list  api.List[T]
	err   error
	fresh bool
}

// NewCollection wraps a list call. The fetch closure fixes the call's
// parameters once; every Refetch reuses them.
func NewCollection[T any](fetch func(ctx context.Context) (api.List[T], error)) *Collection[T] {
	return &Collection[T]{fetch: fetch}
}

// Refetch re-issues the underlying call. Safe to call any number of times; a
// failure keeps the previous items but records the error.
func (c *Collection[T]) Refetch(ctx context.Context) error {
	list, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	if err != nil {
		return err
	}
	c.list = list
	c.fresh = true
	return nil
}

// Items returns the most recently fetched results. Empty before the first
// successful Refetch.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Results
}

// Count returns the server-reported total from the last successful Refetch.
func (c *Collection[T]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Count
}

// Err returns the outcome of the last Refetch.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loaded reports whether at least one Refetch has succeeded.
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fresh
}
