package graph

import (
	"context"
	"maps"

	"go.uber.org/zap"

	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// TransitiveBrandResolver computes the brands a beneficiary profits from,
// directly and through every chain of incoming relations feeding it. An
// indirect beneficiary such as a large asset manager must surface brands
// reached through all of its intermediary chains, not only its immediate
// neighbors; this is what distinguishes the resolver from a one-hop join.
type TransitiveBrandResolver struct {
	ds     storage.RecordStore
	logger logger.Logger
}

var _ BrandResolver = (*TransitiveBrandResolver)(nil)

// TransitiveBrandResolverOpt configures a TransitiveBrandResolver.
type TransitiveBrandResolverOpt func(*TransitiveBrandResolver)

// WithBrandResolverLogger sets the logger used for branch-failure reporting.
func WithBrandResolverLogger(l logger.Logger) TransitiveBrandResolverOpt {
	return func(r *TransitiveBrandResolver) {
		r.logger = l
	}
}

// NewTransitiveBrandResolver constructs a resolver reading from the given
// store.
func NewTransitiveBrandResolver(ds storage.RecordStore, opts ...TransitiveBrandResolverOpt) *TransitiveBrandResolver {
	r := &TransitiveBrandResolver{
		ds:     ds,
		logger: logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Close implements BrandResolver.
func (r *TransitiveBrandResolver) Close() {}

type resolveState struct {
	queries uint32
}

// ResolveBrands implements BrandResolver. A store failure on the root
// beneficiary's own brand fetch propagates; failures while expanding incoming
// relations abandon only the affected branch.
func (r *TransitiveBrandResolver) ResolveBrands(ctx context.Context, req *ResolveBrandsRequest) (*ResolveBrandsResponse, error) {
	state := &resolveState{}
	visited := map[int64]struct{}{req.BeneficiaryID: {}}

	resp, err := r.resolve(ctx, state, req.BeneficiaryID, req.ExcludeBrandID, req.MaxDepth, visited)
	if err != nil {
		return nil, err
	}

	resp.Metadata = ResolutionMetadata{DatastoreQueryCount: state.queries}
	return resp, nil
}

func (r *TransitiveBrandResolver) resolve(
	ctx context.Context,
	state *resolveState,
	beneficiaryID, excludeBrandID int64,
	depth int,
	visited map[int64]struct{},
) (*ResolveBrandsResponse, error) {
	state.queries++
	brands, err := r.ds.GetBrandsForBeneficiary(ctx, beneficiaryID)
	if err != nil {
		return nil, err
	}

	resp := &ResolveBrandsResponse{
		Direct: dedupeBrands(brands, excludeBrandID),
	}

	if depth <= 0 {
		return resp, nil
	}

	state.queries++
	incoming, err := r.ds.GetIncomingRelations(ctx, beneficiaryID)
	if err != nil {
		r.logger.WarnWithContext(ctx, "keeping direct brands but dropping indirect expansion: relation fetch failed",
			zap.Int64("beneficiary_id", beneficiaryID),
			zap.Error(err),
		)
		return resp, nil
	}

	groups := map[string]*IndirectGroup{}
	var order []string

	for _, relation := range incoming {
		if _, ok := visited[relation.SourceID]; ok {
			continue
		}

		state.queries++
		source, err := r.ds.GetBeneficiary(ctx, relation.SourceID)
		if err != nil {
			r.logger.WarnWithContext(ctx, "abandoning indirect branch: beneficiary fetch failed",
				zap.Int64("beneficiary_id", relation.SourceID),
				zap.Error(err),
			)
			continue
		}

		branchVisited := maps.Clone(visited)
		branchVisited[source.ID] = struct{}{}

		sub, err := r.resolve(ctx, state, source.ID, excludeBrandID, depth-1, branchVisited)
		if err != nil {
			r.logger.WarnWithContext(ctx, "abandoning indirect branch: brand fetch failed",
				zap.Int64("beneficiary_id", source.ID),
				zap.Error(err),
			)
			continue
		}

		step := PathStep{BeneficiaryID: source.ID, Name: source.Name}

		if len(sub.Direct) > 0 {
			mergeGroup(groups, &order, IndirectGroup{
				Path:   []PathStep{step},
				Brands: sub.Direct,
			})
		}

		// Composite path labels build up as the recursion unwinds: the
		// source's own indirect groups are re-rooted under the source.
		for _, g := range sub.Indirect {
			if len(g.Brands) == 0 {
				continue
			}
			mergeGroup(groups, &order, IndirectGroup{
				Path:   append([]PathStep{step}, g.Path...),
				Brands: g.Brands,
			})
		}
	}

	for _, key := range order {
		resp.Indirect = append(resp.Indirect, *groups[key])
	}

	return resp, nil
}

// mergeGroup folds a group into the accumulator, deduplicating brands by id
// within each path.
func mergeGroup(groups map[string]*IndirectGroup, order *[]string, g IndirectGroup) {
	key := g.pathKey()

	existing, ok := groups[key]
	if !ok {
		groups[key] = &IndirectGroup{
			Path:   g.Path,
			Brands: append([]types.BrandRef(nil), g.Brands...),
		}
		*order = append(*order, key)
		return
	}

	seen := make(map[int64]struct{}, len(existing.Brands))
	for _, b := range existing.Brands {
		seen[b.ID] = struct{}{}
	}
	for _, b := range g.Brands {
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		existing.Brands = append(existing.Brands, b)
	}
}

// dedupeBrands drops the excluded brand and repeated brand ids, preserving
// store order.
func dedupeBrands(brands []*types.BrandRef, excludeBrandID int64) []types.BrandRef {
	out := make([]types.BrandRef, 0, len(brands))
	seen := make(map[int64]struct{}, len(brands))

	for _, b := range brands {
		if b.ID == excludeBrandID {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, *b)
	}

	return out
}
