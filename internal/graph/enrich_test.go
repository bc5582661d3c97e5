package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// brandFailingStore fails GetBrandsForBeneficiary for chosen ids.
type brandFailingStore struct {
	storage.RecordStore
	fail map[int64]struct{}
}

func (f *brandFailingStore) GetBrandsForBeneficiary(ctx context.Context, beneficiaryID int64) ([]*types.BrandRef, error) {
	if _, ok := f.fail[beneficiaryID]; ok {
		return nil, storage.ErrStoreUnavailable
	}
	return f.RecordStore.GetBrandsForBeneficiary(ctx, beneficiaryID)
}

func TestEnrichAttachesBrandLists(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)
	resolver := NewTransitiveBrandResolver(ds)
	t.Cleanup(resolver.Close)

	chain, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Len(t, chain.Nodes, 3)

	enricher := NewEnricher(resolver)
	nodes, queries := enricher.Enrich(context.Background(), chain.Nodes, 1, DefaultMaxDepth)
	require.Len(t, nodes, 3)
	require.Greater(t, queries, uint32(0))

	byID := map[int64]types.ChainNode{}
	for _, node := range nodes {
		byID[node.Beneficiary.ID] = node
	}

	// L'Oréal: Garnier direct, Maybelline excluded everywhere.
	require.Equal(t, []types.BrandRef{{ID: 3, Name: "Garnier"}}, byID[10].DirectBrands)

	// BlackRock: everything is indirect, grouped per intermediary chain.
	blackrock := byID[30]
	require.Empty(t, blackrock.DirectBrands)
	require.Equal(t, []types.BrandRef{{ID: 2, Name: "KitKat"}}, blackrock.IndirectBrands["Nestlé"])
	require.Equal(t, []types.BrandRef{{ID: 3, Name: "Garnier"}}, blackrock.IndirectBrands["Nestlé → L'Oréal"])

	for _, node := range nodes {
		for _, brand := range node.DirectBrands {
			require.NotEqual(t, int64(1), brand.ID)
		}
		for _, brands := range node.IndirectBrands {
			for _, brand := range brands {
				require.NotEqual(t, int64(1), brand.ID)
			}
		}
	}
}

func TestEnrichPreservesNodeOrder(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)
	resolver := NewTransitiveBrandResolver(ds)
	t.Cleanup(resolver.Close)

	chain, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)

	enricher := NewEnricher(resolver, WithEnrichmentConcurrency(2))
	nodes, _ := enricher.Enrich(context.Background(), chain.Nodes, 1, DefaultMaxDepth)

	require.Len(t, nodes, len(chain.Nodes))
	for i := range nodes {
		require.Equal(t, chain.Nodes[i].Beneficiary.ID, nodes[i].Beneficiary.ID)
		require.Equal(t, chain.Nodes[i].Level, nodes[i].Level)
	}
}

func TestEnrichNodeFailureYieldsEmptyLists(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	log, observed := logger.NewObserverLogger("warn")
	resolver := NewTransitiveBrandResolver(
		&brandFailingStore{RecordStore: ds, fail: map[int64]struct{}{20: {}}},
		WithBrandResolverLogger(log),
	)
	t.Cleanup(resolver.Close)

	chain, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)

	enricher := NewEnricher(resolver, WithEnricherLogger(log))
	nodes, _ := enricher.Enrich(context.Background(), chain.Nodes, 1, DefaultMaxDepth)
	require.Len(t, nodes, len(chain.Nodes), "one node's failure must not drop the others")

	for _, node := range nodes {
		if node.Beneficiary.ID == 20 {
			require.Empty(t, node.DirectBrands)
			require.Empty(t, node.IndirectBrands)
		}
		require.NotNil(t, node.DirectBrands)
		require.NotNil(t, node.IndirectBrands)
	}
	require.GreaterOrEqual(t, observed.Len(), 1)
}
