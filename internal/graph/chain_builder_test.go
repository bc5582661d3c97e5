package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/storage/memory"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// failingStore wraps a RecordStore, failing GetBeneficiary for chosen ids.
type failingStore struct {
	storage.RecordStore
	failBeneficiaries map[int64]struct{}
}

func (f *failingStore) GetBeneficiary(ctx context.Context, beneficiaryID int64) (*types.Beneficiary, error) {
	if _, ok := f.failBeneficiaries[beneficiaryID]; ok {
		return nil, storage.ErrStoreUnavailable
	}
	return f.RecordStore.GetBeneficiary(ctx, beneficiaryID)
}

// brokenStore fails every call.
type brokenStore struct {
	storage.RecordStore
}

func (b *brokenStore) GetBrandBeneficiaryLinks(context.Context, int64) ([]*types.BrandBeneficiaryLink, error) {
	return nil, storage.ErrStoreUnavailable
}

// maybellineFixture builds the canonical example graph:
//
//	Maybelline(1) → L'Oréal(10) → Nestlé(20) → BlackRock(30)
//
// with KitKat(2) directly linked to Nestlé and Garnier(3) to L'Oréal.
func maybellineFixture() *memory.Datastore {
	ds := memory.New()

	ds.SetBrand(types.Brand{ID: 1, Name: "Maybelline"})
	ds.SetBrand(types.Brand{ID: 2, Name: "KitKat"})
	ds.SetBrand(types.Brand{ID: 3, Name: "Garnier"})

	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "L'Oréal", Type: types.BeneficiaryTypeGroup})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "Nestlé", Type: types.BeneficiaryTypeGroup})
	ds.SetBeneficiary(types.Beneficiary{ID: 30, Name: "BlackRock", Type: types.BeneficiaryTypeFund, GenericImpact: "invests worldwide"})

	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "Maybelline is owned by L'Oréal", ImpactOverride: "direct ownership"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 2, BrandID: 2, BeneficiaryID: 20, FinancialLink: "KitKat is owned by Nestlé"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 3, BrandID: 3, BeneficiaryID: 10, FinancialLink: "Garnier is owned by L'Oréal"})

	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 20, Description: "Nestlé holds 23% of L'Oréal"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 2, SourceID: 20, TargetID: 30, Description: "BlackRock holds 5% of Nestlé"})

	return ds
}

func TestBuildChainFollowsOutgoingRelations(t *testing.T) {
	// Outgoing traversal walks edges source→target in reverse: from the
	// directly linked beneficiary toward the entities feeding it.
	ds := memory.New()
	t.Cleanup(ds.Close)

	ds.SetBrand(types.Brand{ID: 1, Name: "Maybelline"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "L'Oréal"})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "Nestlé"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "owned by"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 20, Description: "L'Oréal pays dividends to Nestlé"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 2)

	require.Equal(t, "L'Oréal", resp.Nodes[0].Beneficiary.Name)
	require.Equal(t, 0, resp.Nodes[0].Level)
	require.Equal(t, "owned by", resp.Nodes[0].FinancialLink)

	require.Equal(t, "Nestlé", resp.Nodes[1].Beneficiary.Name)
	require.Equal(t, 1, resp.Nodes[1].Level)
	require.Equal(t, "L'Oréal pays dividends to Nestlé", resp.Nodes[1].FinancialLink)

	require.Equal(t, 1, resp.MaxDepthReached)
}

func TestBuildChainEmptyBrand(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)
	ds.SetBrand(types.Brand{ID: 1, Name: "Orphan"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Empty(t, resp.Nodes)
	require.Equal(t, 0, resp.MaxDepthReached)
}

func TestBuildChainMaxDepthZeroReturnsOnlyDirectBeneficiaries(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)

	ds.SetBrand(types.Brand{ID: 1, Name: "Brand"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "Direct"})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "Indirect"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "owned by"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 20, Description: "feeds"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: 0})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 1)
	require.Equal(t, int64(10), resp.Nodes[0].Beneficiary.ID)
	require.Equal(t, 0, resp.MaxDepthReached)
}

func TestBuildChainTerminatesOnCycle(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)

	ds.SetBrand(types.Brand{ID: 1, Name: "Brand"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "A"})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "B"})
	ds.SetBeneficiary(types.Beneficiary{ID: 30, Name: "C"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "owned by"})
	// A → B → C → A, a cycle through several hops.
	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 20, Description: "A feeds B"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 2, SourceID: 20, TargetID: 30, Description: "B feeds C"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 3, SourceID: 30, TargetID: 10, Description: "C feeds A"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 3)
	require.LessOrEqual(t, resp.MaxDepthReached, DefaultMaxDepth)
}

func TestBuildChainDiamondIsNotPrunedAndDeduped(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)

	// X links to A and B, both feeding C. C must appear exactly once, neither
	// branch's visited set hiding it from the other.
	ds.SetBrand(types.Brand{ID: 1, Name: "X"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "A"})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "B"})
	ds.SetBeneficiary(types.Beneficiary{ID: 30, Name: "C"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "owned by A"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 2, BrandID: 1, BeneficiaryID: 20, FinancialLink: "owned by B"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 30, Description: "A feeds C"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 2, SourceID: 20, TargetID: 30, Description: "B feeds C"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)

	var cCount int
	for _, node := range resp.Nodes {
		if node.Beneficiary.ID == 30 {
			cCount++
			require.Equal(t, 1, node.Level)
		}
	}
	require.Equal(t, 1, cCount)
	require.Len(t, resp.Nodes, 3)
}

func TestBuildChainDedupeKeepsLowestLevel(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)

	// H is both directly linked (level 0) and reachable via A (level 1).
	ds.SetBrand(types.Brand{ID: 1, Name: "Brand"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "A"})
	ds.SetBeneficiary(types.Beneficiary{ID: 40, Name: "H"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "owned by A"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 2, BrandID: 1, BeneficiaryID: 40, FinancialLink: "owned by H"})
	ds.AddRelation(types.BeneficiaryRelation{ID: 1, SourceID: 10, TargetID: 40, Description: "A feeds H"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 2)

	for _, node := range resp.Nodes {
		if node.Beneficiary.ID == 40 {
			require.Equal(t, 0, node.Level)
			require.Equal(t, "owned by H", node.FinancialLink)
		}
	}
}

func TestBuildChainSortsByLevelThenName(t *testing.T) {
	ds := memory.New()
	t.Cleanup(ds.Close)

	ds.SetBrand(types.Brand{ID: 1, Name: "Brand"})
	ds.SetBeneficiary(types.Beneficiary{ID: 10, Name: "Zeta"})
	ds.SetBeneficiary(types.Beneficiary{ID: 20, Name: "Éclair"})
	ds.SetBeneficiary(types.Beneficiary{ID: 30, Name: "alpha"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 1, BrandID: 1, BeneficiaryID: 10, FinancialLink: "l1"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 2, BrandID: 1, BeneficiaryID: 20, FinancialLink: "l2"})
	ds.AddLink(types.BrandBeneficiaryLink{ID: 3, BrandID: 1, BeneficiaryID: 30, FinancialLink: "l3"})

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 3)

	// Locale-aware ordering: accents and case do not push names to the end the
	// way raw byte comparison would.
	names := []string{resp.Nodes[0].Beneficiary.Name, resp.Nodes[1].Beneficiary.Name, resp.Nodes[2].Beneficiary.Name}
	require.Equal(t, []string{"alpha", "Éclair", "Zeta"}, names)
}

func TestBuildChainDeterministic(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	first, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)
	second, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)

	require.Equal(t, first.Nodes, second.Nodes)
	require.Equal(t, first.MaxDepthReached, second.MaxDepthReached)
}

func TestBuildChainBranchFailureReturnsPartialResult(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	log, observed := logger.NewObserverLogger("warn")
	builder := NewChainBuilder(
		&failingStore{RecordStore: ds, failBeneficiaries: map[int64]struct{}{30: {}}},
		WithChainBuilderLogger(log),
	)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err, "a failed sub-fetch must not fail the whole chain")

	ids := make([]int64, 0, len(resp.Nodes))
	for _, node := range resp.Nodes {
		ids = append(ids, node.Beneficiary.ID)
	}
	require.ElementsMatch(t, []int64{10, 20}, ids)
	require.GreaterOrEqual(t, observed.Len(), 1, "the dead branch must be logged")
}

func TestBuildChainTopLevelFailurePropagates(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(&brokenStore{RecordStore: ds})
	t.Cleanup(builder.Close)

	_, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.Error(t, err)
	require.True(t, errors.Is(err, storage.ErrStoreUnavailable))
}

func TestBuildChainRootImpactOverride(t *testing.T) {
	ds := maybellineFixture()
	t.Cleanup(ds.Close)

	builder := NewChainBuilder(ds)
	t.Cleanup(builder.Close)

	resp, err := builder.BuildChain(context.Background(), &BuildChainRequest{BrandID: 1, MaxDepth: DefaultMaxDepth})
	require.NoError(t, err)

	for _, node := range resp.Nodes {
		switch node.Beneficiary.ID {
		case 10:
			require.Equal(t, "direct ownership", node.Impact)
		case 30:
			require.Equal(t, "invests worldwide", node.Impact)
		}
	}
}
