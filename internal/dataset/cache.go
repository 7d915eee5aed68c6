package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const loadKey = "dataset"

// Cache holds the loaded table for the process lifetime. The table is loaded
// on first use and only replaced by Invalidate or Reload; readers share it.
type Cache struct {
	source Source
	logger *slog.Logger
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	table    *Table
	report   LoadReport
	loadedAt time.Time
	lastErr  error
}

// NewCache creates an empty cache over source
func NewCache(source Source, logger *slog.Logger) *Cache {
	return &Cache{
		source: source,
		logger: logger.With(slog.String("component", "dataset_cache")),
		now:    time.Now,
	}
}

// Get returns the cached table, loading it on first use. Concurrent callers
// share a single load. Failed loads are not cached.
func (c *Cache) Get(ctx context.Context) (*Table, error) {
	c.mu.RLock()
	table := c.table
	c.mu.RUnlock()
	if table != nil {
		return table, nil
	}

	v, err, shared := c.group.Do(loadKey, func() (interface{}, error) {
		c.mu.RLock()
		cached := c.table
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		return c.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight dataset load")
	}
	return v.(*Table), nil
}

func (c *Cache) load(ctx context.Context) (*Table, error) {
	table, report, err := c.source.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	if err != nil {
		c.lastErr = err
		return nil, err
	}
	c.table = table
	c.loadedAt = c.now()
	c.lastErr = nil
	return table, nil
}

// Invalidate drops the cached table; the next Get loads again
func (c *Cache) Invalidate() {
	c.group.Forget(loadKey)

	c.mu.Lock()
	c.table = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()

	c.logger.Info("dataset cache invalidated")
}

// Reload invalidates the cache and loads the table again
func (c *Cache) Reload(ctx context.Context) (*Table, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Loaded reports whether a table is cached
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table != nil
}

// Status describes the cache for health checks
type Status struct {
	Loaded    bool       `json:"loaded"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Report    LoadReport `json:"report"`
	LastError string     `json:"last_error,omitempty"`
}

// Status returns a snapshot of the cache state
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{Loaded: c.table != nil, Report: c.report}
	if s.Loaded {
		at := c.loadedAt
		s.LoadedAt = &at
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}
