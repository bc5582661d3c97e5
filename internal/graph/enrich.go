package graph

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ownerchain/ownerchain/internal/concurrency"
	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/types"
)

const defaultEnrichmentConcurrency = 8

// Enricher attaches resolved brand lists to chain nodes. Node enrichment is
// dispatched concurrently: no enrichment depends on another's result and every
// write lands in a node-local slot, merged after all resolutions complete.
type Enricher struct {
	resolver       BrandResolver
	logger         logger.Logger
	maxConcurrency int
}

// EnricherOpt configures an Enricher.
type EnricherOpt func(*Enricher)

// WithEnrichmentConcurrency bounds the number of nodes resolved in parallel.
func WithEnrichmentConcurrency(n int) EnricherOpt {
	return func(e *Enricher) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithEnricherLogger sets the logger used for per-node failure reporting.
func WithEnricherLogger(l logger.Logger) EnricherOpt {
	return func(e *Enricher) {
		e.logger = l
	}
}

// NewEnricher constructs an Enricher resolving brands through the given
// resolver, typically the cached one.
func NewEnricher(resolver BrandResolver, opts ...EnricherOpt) *Enricher {
	e := &Enricher{
		resolver:       resolver,
		logger:         logger.NewNoopLogger(),
		maxConcurrency: defaultEnrichmentConcurrency,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enrich resolves each node's direct and indirect brands and returns the
// enriched nodes in the input order, along with the total number of record
// store round-trips issued. A resolution failure empties that node's brand
// lists and never fails the pass.
func (e *Enricher) Enrich(ctx context.Context, nodes []types.ChainNode, excludeBrandID int64, maxDepth int) ([]types.ChainNode, uint32) {
	out := make([]types.ChainNode, len(nodes))
	var queries atomic.Uint32

	pool := concurrency.NewPool(ctx, e.maxConcurrency)
	for i := range nodes {
		pool.Go(func(ctx context.Context) error {
			node := nodes[i].Clone()
			node.DirectBrands = []types.BrandRef{}
			node.IndirectBrands = map[string][]types.BrandRef{}

			resp, err := e.resolver.ResolveBrands(ctx, &ResolveBrandsRequest{
				BeneficiaryID:  node.Beneficiary.ID,
				ExcludeBrandID: excludeBrandID,
				MaxDepth:       maxDepth,
			})
			if err != nil {
				e.logger.WarnWithContext(ctx, "serving node without brand lists: brand resolution failed",
					zap.Int64("beneficiary_id", node.Beneficiary.ID),
					zap.Error(err),
				)
				out[i] = node
				return nil
			}

			queries.Add(resp.Metadata.DatastoreQueryCount)
			if resp.Direct != nil {
				node.DirectBrands = resp.Direct
			}
			node.IndirectBrands = renderIndirect(resp.Indirect)
			out[i] = node
			return nil
		})
	}
	_ = pool.Wait()

	return out, queries.Load()
}

// renderIndirect converts id-keyed groups to their labeled wire form. Two
// groups whose intermediaries happen to share a rendered label are merged,
// with brands deduplicated by id.
func renderIndirect(groups []IndirectGroup) map[string][]types.BrandRef {
	out := make(map[string][]types.BrandRef, len(groups))

	for _, g := range groups {
		label := g.Label()
		existing := out[label]

		seen := make(map[int64]struct{}, len(existing))
		for _, b := range existing {
			seen[b.ID] = struct{}{}
		}
		for _, b := range g.Brands {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
			existing = append(existing, b)
		}

		out[label] = existing
	}

	return out
}
