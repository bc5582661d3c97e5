// Package server composes the resolution engine behind the consumer-facing
// chain API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ownerchain/ownerchain/internal/graph"
	"github.com/ownerchain/ownerchain/internal/keys"
	"github.com/ownerchain/ownerchain/pkg/cache"
	"github.com/ownerchain/ownerchain/pkg/logger"
	serverconfig "github.com/ownerchain/ownerchain/pkg/server/config"
	serverErrors "github.com/ownerchain/ownerchain/pkg/server/errors"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// ResponseCacheNamespace is the cache namespace for whole endpoint responses.
const ResponseCacheNamespace = "chain_response"

var (
	chainDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ownerchain",
		Name:      "chain_resolution_duration_ms",
		Help:      "The duration (in ms) of an uncached chain resolution, enrichment included.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})

	datastoreQueryCountHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ownerchain",
		Name:      "datastore_query_count",
		Help:      "The number of datastore queries issued to resolve one chain request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
)

// Server wires the chain builder, the transitive brand resolver and the
// enrichment pass behind a single entry point, fronted by the shared cache.
type Server struct {
	logger        logger.Logger
	datastore     storage.RecordStore
	cache         cache.Cache
	chainResolver graph.ChainResolver
	brandResolver graph.BrandResolver
	enricher      *graph.Enricher
	config        *serverconfig.Config
}

// ServerOpt configures a Server.
type ServerOpt func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) ServerOpt {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig sets the server configuration.
func WithConfig(cfg *serverconfig.Config) ServerOpt {
	return func(s *Server) {
		s.config = cfg
	}
}

// New constructs a Server reading from the given record store. The resolver
// pipeline is assembled here: the cache decorators wrap the raw resolvers and
// the enricher resolves through the cached brand resolver.
func New(datastore storage.RecordStore, opts ...ServerOpt) (*Server, error) {
	if datastore == nil {
		return nil, fmt.Errorf("a record store is required")
	}

	s := &Server{
		logger:    logger.NewNoopLogger(),
		datastore: datastore,
		config:    serverconfig.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	chainResolver := graph.ChainResolver(graph.NewChainBuilder(datastore, graph.WithChainBuilderLogger(s.logger)))
	brandResolver := graph.BrandResolver(graph.NewTransitiveBrandResolver(datastore, graph.WithBrandResolverLogger(s.logger)))

	if s.config.Cache.Enabled {
		s.cache = cache.NewInMemoryCache(
			cache.WithDefaultMaxEntries(s.config.Cache.MaxEntries),
			cache.WithNamespaceConfig(graph.ChainCacheNamespace, cache.NamespaceConfig{
				TTL:        s.config.Cache.ChainTTL,
				MaxEntries: s.config.Cache.MaxEntries,
			}),
			cache.WithNamespaceConfig(graph.BrandCacheNamespace, cache.NamespaceConfig{
				TTL:        s.config.Cache.BrandTTL,
				MaxEntries: s.config.Cache.MaxEntries,
			}),
			cache.WithNamespaceConfig(ResponseCacheNamespace, cache.NamespaceConfig{
				TTL:        s.config.Cache.ResponseTTL,
				MaxEntries: s.config.Cache.MaxEntries,
			}),
		)
		chainResolver = graph.NewCachedChainResolver(chainResolver, s.cache)
		brandResolver = graph.NewCachedBrandResolver(brandResolver, s.cache)
	}

	s.chainResolver = chainResolver
	s.brandResolver = brandResolver
	s.enricher = graph.NewEnricher(brandResolver,
		graph.WithEnricherLogger(s.logger),
		graph.WithEnrichmentConcurrency(s.config.Chain.EnrichmentConcurrency),
	)

	return s, nil
}

// Close releases the resolver pipeline and the cache. The record store is
// owned by the caller and is not closed here.
func (s *Server) Close() {
	s.chainResolver.Close()
	s.brandResolver.Close()
	if s.cache != nil {
		s.cache.Close()
	}
}

// ChainRequest asks for a brand's beneficiary chain. MaxDepth < 0 means "use
// the configured default".
type ChainRequest struct {
	BrandID  int64
	MaxDepth int
}

// ChainResponse is the composed endpoint response.
type ChainResponse struct {
	BrandName       string            `json:"brand_name"`
	BrandID         int64             `json:"brand_id"`
	Chain           []types.ChainNode `json:"chain"`
	MaxDepthReached int               `json:"max_depth_reached"`
}

func (r *ChainResponse) clone() *ChainResponse {
	if r == nil {
		return nil
	}
	return &ChainResponse{
		BrandName:       r.BrandName,
		BrandID:         r.BrandID,
		Chain:           types.CloneChainNodes(r.Chain),
		MaxDepthReached: r.MaxDepthReached,
	}
}

// GetBrandChain resolves the full, enriched beneficiary chain for one brand.
func (s *Server) GetBrandChain(ctx context.Context, req *ChainRequest) (*ChainResponse, error) {
	if req == nil || req.BrandID <= 0 {
		return nil, serverErrors.ErrInvalidBrandID
	}

	maxDepth := req.MaxDepth
	if maxDepth < 0 {
		maxDepth = s.config.Chain.MaxDepth
	}
	if maxDepth > s.config.Chain.MaxDepthCeiling {
		return nil, fmt.Errorf("%w: must not exceed %d", serverErrors.ErrInvalidMaxDepth, s.config.Chain.MaxDepthCeiling)
	}

	params := []keys.Param{
		keys.Int64Param("brand_id", req.BrandID),
		keys.IntParam("max_depth", maxDepth),
	}

	if s.cache != nil {
		if value, ok := s.cache.Get(ResponseCacheNamespace, params...); ok {
			if resp, ok := value.(*ChainResponse); ok {
				return resp.clone(), nil
			}
		}
	}

	start := time.Now()

	brand, err := s.datastore.GetBrand(ctx, req.BrandID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, serverErrors.ErrBrandNotFound
		}
		return nil, err
	}

	chain, err := s.chainResolver.BuildChain(ctx, &graph.BuildChainRequest{
		BrandID:  req.BrandID,
		MaxDepth: maxDepth,
	})
	if err != nil {
		return nil, err
	}

	nodes, enrichQueries := s.enricher.Enrich(ctx, chain.Nodes, req.BrandID, maxDepth)

	chainDurationHistogram.Observe(float64(time.Since(start).Milliseconds()))
	datastoreQueryCountHistogram.Observe(float64(chain.Metadata.DatastoreQueryCount + enrichQueries + 1))

	s.logger.DebugWithContext(ctx, "resolved brand chain",
		zap.Int64("brand_id", req.BrandID),
		zap.Int("nodes", len(nodes)),
		zap.Int("max_depth_reached", chain.MaxDepthReached),
		zap.Uint32("chain_queries", chain.Metadata.DatastoreQueryCount),
		zap.Uint32("enrichment_queries", enrichQueries),
	)

	resp := &ChainResponse{
		BrandName:       brand.Name,
		BrandID:         brand.ID,
		Chain:           nodes,
		MaxDepthReached: chain.MaxDepthReached,
	}

	if s.cache != nil {
		s.cache.Set(ResponseCacheNamespace, resp.clone(), params...)
	}

	return resp, nil
}

// IsReady reports whether the server can serve requests.
func (s *Server) IsReady(ctx context.Context) (bool, error) {
	return s.datastore.IsReady(ctx)
}
