// Package cache provides the process-local TTL cache fronting the resolvers
// and the composed endpoint responses.
package cache

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ownerchain/ownerchain/internal/keys"
)

const (
	defaultTTL        = 10 * time.Minute
	defaultMaxEntries = 10000
)

var (
	cacheTotalCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ownerchain_cache_total_count",
		Help: "The total number of cache lookups, per namespace.",
	}, []string{"namespace"})

	cacheHitCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ownerchain_cache_hit_count",
		Help: "The total number of cache hits, per namespace.",
	}, []string{"namespace"})
)

// Cache is a namespaced TTL cache keyed by a canonicalized, order-independent
// set of parameters. Values are immutable snapshots; callers must never mutate
// an entry returned from Get.
type Cache interface {

	// Get returns the value stored under (namespace, params), if present and
	// not expired.
	Get(namespace string, params ...keys.Param) (any, bool)

	// Set stores a value under (namespace, params) with the namespace's TTL.
	// Writes are opportunistic overwrites; concurrent writers for the same key
	// simply last-write-win.
	Set(namespace string, value any, params ...keys.Param)

	// Close releases cache resources. Lookups after Close degrade to
	// always-miss.
	Close()
}

// NamespaceConfig holds the TTL and entry ceiling for one namespace.
type NamespaceConfig struct {
	TTL        time.Duration
	MaxEntries int64
}

// InMemoryCache is the ccache backed implementation of Cache. Each namespace
// gets its own LRU cache with its own TTL and size ceiling; when the ceiling is
// exceeded, expired and least-recently-used entries are pruned rather than
// rejecting writes.
type InMemoryCache struct {
	mu         sync.RWMutex
	defaults   NamespaceConfig
	configs    map[string]NamespaceConfig
	namespaces map[string]*ccache.Cache[any]
	closed     bool
	closeOnce  sync.Once
}

var _ Cache = (*InMemoryCache)(nil)

// InMemoryCacheOpt configures an InMemoryCache.
type InMemoryCacheOpt func(*InMemoryCache)

// WithDefaultTTL sets the TTL used by namespaces without an explicit config.
func WithDefaultTTL(ttl time.Duration) InMemoryCacheOpt {
	return func(c *InMemoryCache) {
		c.defaults.TTL = ttl
	}
}

// WithDefaultMaxEntries sets the entry ceiling used by namespaces without an
// explicit config.
func WithDefaultMaxEntries(maxEntries int64) InMemoryCacheOpt {
	return func(c *InMemoryCache) {
		c.defaults.MaxEntries = maxEntries
	}
}

// WithNamespaceConfig sets the TTL and entry ceiling for a single namespace.
func WithNamespaceConfig(namespace string, cfg NamespaceConfig) InMemoryCacheOpt {
	return func(c *InMemoryCache) {
		c.configs[namespace] = cfg
	}
}

// NewInMemoryCache constructs an InMemoryCache.
func NewInMemoryCache(opts ...InMemoryCacheOpt) *InMemoryCache {
	c := &InMemoryCache{
		defaults: NamespaceConfig{
			TTL:        defaultTTL,
			MaxEntries: defaultMaxEntries,
		},
		configs:    map[string]NamespaceConfig{},
		namespaces: map[string]*ccache.Cache[any]{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get see [Cache].Get.
func (c *InMemoryCache) Get(namespace string, params ...keys.Param) (any, bool) {
	cacheTotalCounter.WithLabelValues(namespace).Inc()

	c.mu.RLock()
	ns := c.namespaces[namespace]
	c.mu.RUnlock()
	if ns == nil {
		return nil, false
	}

	item := ns.Get(keys.CacheKey(namespace, params...))
	if item == nil || item.Expired() {
		return nil, false
	}

	cacheHitCounter.WithLabelValues(namespace).Inc()
	return item.Value(), true
}

// Set see [Cache].Set.
func (c *InMemoryCache) Set(namespace string, value any, params ...keys.Param) {
	ns, cfg := c.namespaceCache(namespace)
	if ns == nil {
		return
	}

	ns.Set(keys.CacheKey(namespace, params...), value, cfg.TTL)
}

// Close see [Cache].Close.
func (c *InMemoryCache) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.closed = true
		for _, ns := range c.namespaces {
			ns.Stop()
		}
		c.namespaces = map[string]*ccache.Cache[any]{}
	})
}

func (c *InMemoryCache) namespaceCache(namespace string) (*ccache.Cache[any], NamespaceConfig) {
	cfg := c.config(namespace)

	c.mu.RLock()
	ns := c.namespaces[namespace]
	closed := c.closed
	c.mu.RUnlock()
	if ns != nil || closed {
		return ns, cfg
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, cfg
	}
	if ns = c.namespaces[namespace]; ns == nil {
		ns = ccache.New(ccache.Configure[any]().MaxSize(cfg.MaxEntries))
		c.namespaces[namespace] = ns
	}

	return ns, cfg
}

func (c *InMemoryCache) config(namespace string) NamespaceConfig {
	cfg, ok := c.configs[namespace]
	if !ok {
		cfg = c.defaults
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	return cfg
}
