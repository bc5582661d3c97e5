package graph

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/ownerchain/ownerchain/internal/keys"
	"github.com/ownerchain/ownerchain/pkg/cache"
)

// ChainCacheNamespace is the cache namespace for resolved chains.
const ChainCacheNamespace = "chain"

// CachedChainResolver attempts to serve chain resolutions from prior
// computations before delegating to the underlying ChainResolver. Concurrent
// misses for the same key are collapsed into a single delegate call.
type CachedChainResolver struct {
	delegate ChainResolver
	cache    cache.Cache
	sf       singleflight.Group
}

var _ ChainResolver = (*CachedChainResolver)(nil)

// NewCachedChainResolver constructs a caching decorator over the delegate.
// The cache is shared and owned by the caller; Close does not stop it.
func NewCachedChainResolver(delegate ChainResolver, c cache.Cache) *CachedChainResolver {
	return &CachedChainResolver{
		delegate: delegate,
		cache:    c,
	}
}

// Close implements ChainResolver.
func (c *CachedChainResolver) Close() {
	c.delegate.Close()
}

// BuildChain implements ChainResolver. Cached values are immutable snapshots;
// every caller receives its own deep copy.
func (c *CachedChainResolver) BuildChain(ctx context.Context, req *BuildChainRequest) (*BuildChainResponse, error) {
	params := []keys.Param{
		keys.Int64Param("brand_id", req.BrandID),
		keys.IntParam("max_depth", req.MaxDepth),
	}

	if value, ok := c.cache.Get(ChainCacheNamespace, params...); ok {
		if resp, ok := value.(*BuildChainResponse); ok {
			return resp.clone(), nil
		}
	}

	value, err, _ := c.sf.Do(keys.CacheKey(ChainCacheNamespace, params...), func() (any, error) {
		resp, err := c.delegate.BuildChain(ctx, req)
		if err != nil {
			return nil, err
		}

		c.cache.Set(ChainCacheNamespace, resp.clone(), params...)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*BuildChainResponse).clone(), nil
}
