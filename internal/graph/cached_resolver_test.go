package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ownerchain/ownerchain/pkg/cache"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c := cache.NewInMemoryCache(
		cache.WithNamespaceConfig(ChainCacheNamespace, cache.NamespaceConfig{TTL: time.Minute}),
		cache.WithNamespaceConfig(BrandCacheNamespace, cache.NamespaceConfig{TTL: time.Minute}),
	)
	t.Cleanup(c.Close)
	return c
}

func TestCachedChainResolver(t *testing.T) {
	ctx := context.Background()

	req := &BuildChainRequest{BrandID: 1, MaxDepth: 5}
	result := &BuildChainResponse{
		Nodes:           []types.ChainNode{{Beneficiary: types.Beneficiary{ID: 10, Name: "A"}}},
		MaxDepthReached: 0,
	}

	tests := []struct {
		_name   string
		req     *BuildChainRequest
		prepare func(mock *MockChainResolver, req *BuildChainRequest)
	}{
		{
			// same signature means data will be taken from cache
			_name: "same_signature",
			req:   &BuildChainRequest{BrandID: 1, MaxDepth: 5},
			prepare: func(mock *MockChainResolver, req *BuildChainRequest) {
				// there should be no call
			},
		},
		{
			// different brand means data is not from cache
			_name: "different_brand",
			req:   &BuildChainRequest{BrandID: 2, MaxDepth: 5},
			prepare: func(mock *MockChainResolver, req *BuildChainRequest) {
				mock.EXPECT().BuildChain(ctx, req).Times(1).Return(result, nil)
			},
		},
		{
			// different depth means data is not from cache
			_name: "different_max_depth",
			req:   &BuildChainRequest{BrandID: 1, MaxDepth: 3},
			prepare: func(mock *MockChainResolver, req *BuildChainRequest) {
				mock.EXPECT().BuildChain(ctx, req).Times(1).Return(result, nil)
			},
		},
	}

	for _, test := range tests {
		t.Run(test._name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			delegate := NewMockChainResolver(ctrl)
			delegate.EXPECT().BuildChain(ctx, req).Times(1).Return(result, nil)
			delegate.EXPECT().Close().Times(1)

			resolver := NewCachedChainResolver(delegate, newTestCache(t))
			defer resolver.Close()

			first, err := resolver.BuildChain(ctx, req)
			require.NoError(t, err)
			require.Equal(t, result.Nodes, first.Nodes)

			test.prepare(delegate, test.req)

			second, err := resolver.BuildChain(ctx, test.req)
			require.NoError(t, err)
			require.NotNil(t, second)
		})
	}
}

func TestCachedChainResolverReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := &BuildChainRequest{BrandID: 1, MaxDepth: 5}
	delegate := NewMockChainResolver(ctrl)
	delegate.EXPECT().BuildChain(ctx, req).Times(1).Return(&BuildChainResponse{
		Nodes: []types.ChainNode{{Beneficiary: types.Beneficiary{ID: 10, Name: "A"}}},
	}, nil)
	delegate.EXPECT().Close().Times(1)

	resolver := NewCachedChainResolver(delegate, newTestCache(t))
	defer resolver.Close()

	first, err := resolver.BuildChain(ctx, req)
	require.NoError(t, err)
	first.Nodes[0].Beneficiary.Name = "mutated"

	second, err := resolver.BuildChain(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "A", second.Nodes[0].Beneficiary.Name, "cached value must be an immutable snapshot")
}

func TestCachedChainResolverDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := &BuildChainRequest{BrandID: 1, MaxDepth: 5}
	delegate := NewMockChainResolver(ctrl)
	gomock.InOrder(
		delegate.EXPECT().BuildChain(ctx, req).Times(1).Return(nil, storage.ErrStoreUnavailable),
		delegate.EXPECT().BuildChain(ctx, req).Times(1).Return(&BuildChainResponse{}, nil),
	)
	delegate.EXPECT().Close().Times(1)

	resolver := NewCachedChainResolver(delegate, newTestCache(t))
	defer resolver.Close()

	_, err := resolver.BuildChain(ctx, req)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)

	_, err = resolver.BuildChain(ctx, req)
	require.NoError(t, err, "a failed resolution must not be cached")
}

func TestCachedBrandResolver(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := &ResolveBrandsRequest{BeneficiaryID: 30, ExcludeBrandID: 1, MaxDepth: 5}
	result := &ResolveBrandsResponse{
		Direct: []types.BrandRef{{ID: 2, Name: "KitKat"}},
	}

	delegate := NewMockBrandResolver(ctrl)
	delegate.EXPECT().ResolveBrands(ctx, req).Times(1).Return(result, nil)
	delegate.EXPECT().Close().Times(1)

	resolver := NewCachedBrandResolver(delegate, newTestCache(t))
	defer resolver.Close()

	first, err := resolver.ResolveBrands(ctx, req)
	require.NoError(t, err)
	require.Equal(t, result.Direct, first.Direct)

	// identical request, delegate must not be called again
	second, err := resolver.ResolveBrands(ctx, req)
	require.NoError(t, err)
	require.Equal(t, result.Direct, second.Direct)
}

func TestCachedBrandResolverKeyIncludesExclusion(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	delegate := NewMockBrandResolver(ctrl)
	reqA := &ResolveBrandsRequest{BeneficiaryID: 30, ExcludeBrandID: 1, MaxDepth: 5}
	reqB := &ResolveBrandsRequest{BeneficiaryID: 30, ExcludeBrandID: 2, MaxDepth: 5}
	delegate.EXPECT().ResolveBrands(ctx, reqA).Times(1).Return(&ResolveBrandsResponse{}, nil)
	delegate.EXPECT().ResolveBrands(ctx, reqB).Times(1).Return(&ResolveBrandsResponse{}, nil)
	delegate.EXPECT().Close().Times(1)

	resolver := NewCachedBrandResolver(delegate, newTestCache(t))
	defer resolver.Close()

	_, err := resolver.ResolveBrands(ctx, reqA)
	require.NoError(t, err)
	_, err = resolver.ResolveBrands(ctx, reqB)
	require.NoError(t, err)
}
