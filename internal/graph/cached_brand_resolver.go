package graph

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/ownerchain/ownerchain/internal/keys"
	"github.com/ownerchain/ownerchain/pkg/cache"
)

// BrandCacheNamespace is the cache namespace for per-beneficiary transitive
// brand resolutions. It carries a longer TTL than the chain namespace because
// the beneficiary relation graph mutates less often than chain composition.
const BrandCacheNamespace = "beneficiary_brands"

// CachedBrandResolver attempts to serve brand resolutions from prior
// computations before delegating to the underlying BrandResolver. This is the
// most call-heavy routine of the engine, so it is the primary beneficiary of
// memoization.
type CachedBrandResolver struct {
	delegate BrandResolver
	cache    cache.Cache
	sf       singleflight.Group
}

var _ BrandResolver = (*CachedBrandResolver)(nil)

// NewCachedBrandResolver constructs a caching decorator over the delegate.
// The cache is shared and owned by the caller; Close does not stop it.
func NewCachedBrandResolver(delegate BrandResolver, c cache.Cache) *CachedBrandResolver {
	return &CachedBrandResolver{
		delegate: delegate,
		cache:    c,
	}
}

// Close implements BrandResolver.
func (c *CachedBrandResolver) Close() {
	c.delegate.Close()
}

// ResolveBrands implements BrandResolver. Cached values are immutable
// snapshots; every caller receives its own deep copy.
func (c *CachedBrandResolver) ResolveBrands(ctx context.Context, req *ResolveBrandsRequest) (*ResolveBrandsResponse, error) {
	params := []keys.Param{
		keys.Int64Param("beneficiary_id", req.BeneficiaryID),
		keys.Int64Param("exclude_brand_id", req.ExcludeBrandID),
		keys.IntParam("max_depth", req.MaxDepth),
	}

	if value, ok := c.cache.Get(BrandCacheNamespace, params...); ok {
		if resp, ok := value.(*ResolveBrandsResponse); ok {
			return resp.clone(), nil
		}
	}

	value, err, _ := c.sf.Do(keys.CacheKey(BrandCacheNamespace, params...), func() (any, error) {
		resp, err := c.delegate.ResolveBrands(ctx, req)
		if err != nil {
			return nil, err
		}

		c.cache.Set(BrandCacheNamespace, resp.clone(), params...)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*ResolveBrandsResponse).clone(), nil
}
