package graph

import (
	"context"
	"maps"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ownerchain/ownerchain/pkg/logger"
	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// ChainBuilder resolves ownership chains directly against the record store.
type ChainBuilder struct {
	ds       storage.RecordStore
	logger   logger.Logger
	collator language.Tag
}

var _ ChainResolver = (*ChainBuilder)(nil)

// ChainBuilderOpt configures a ChainBuilder.
type ChainBuilderOpt func(*ChainBuilder)

// WithChainBuilderLogger sets the logger used for branch-failure reporting.
func WithChainBuilderLogger(l logger.Logger) ChainBuilderOpt {
	return func(c *ChainBuilder) {
		c.logger = l
	}
}

// WithCollation sets the language used for locale-aware name ordering.
func WithCollation(tag language.Tag) ChainBuilderOpt {
	return func(c *ChainBuilder) {
		c.collator = tag
	}
}

// NewChainBuilder constructs a ChainBuilder reading from the given store.
func NewChainBuilder(ds storage.RecordStore, opts ...ChainBuilderOpt) *ChainBuilder {
	c := &ChainBuilder{
		ds:       ds,
		logger:   logger.NewNoopLogger(),
		collator: language.French,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close implements ChainResolver.
func (c *ChainBuilder) Close() {}

type traversalState struct {
	queries uint32
}

type expandArgs struct {
	beneficiaryID  int64
	financialLink  string
	impactOverride string
	level          int
	maxDepth       int
}

// BuildChain implements ChainResolver. A brand with no beneficiary links
// yields an empty chain, not an error. A store failure on the initial link
// fetch propagates; failures deeper in the traversal abandon only the affected
// branch.
func (c *ChainBuilder) BuildChain(ctx context.Context, req *BuildChainRequest) (*BuildChainResponse, error) {
	maxDepth := req.MaxDepth
	if maxDepth < 0 {
		maxDepth = 0
	}

	state := &traversalState{}

	state.queries++
	links, err := c.ds.GetBrandBeneficiaryLinks(ctx, req.BrandID)
	if err != nil {
		return nil, err
	}

	var nodes []types.ChainNode
	for _, link := range links {
		c.expand(ctx, state, expandArgs{
			beneficiaryID:  link.BeneficiaryID,
			financialLink:  link.FinancialLink,
			impactOverride: link.ImpactOverride,
			level:          0,
			maxDepth:       maxDepth,
		}, map[int64]struct{}{}, &nodes)
	}

	nodes = dedupeNodes(nodes)
	c.sortNodes(nodes)

	maxReached := 0
	for _, node := range nodes {
		if node.Level > maxReached {
			maxReached = node.Level
		}
	}

	return &BuildChainResponse{
		Nodes:           nodes,
		MaxDepthReached: maxReached,
		Metadata:        ResolutionMetadata{DatastoreQueryCount: state.queries},
	}, nil
}

// expand emits the node for one beneficiary and recurses into its outgoing
// relations. The visited set belongs to the current path only; each child
// branch receives its own copy so that diamond patterns are explored through
// every path rather than pruned by a sibling.
func (c *ChainBuilder) expand(
	ctx context.Context,
	state *traversalState,
	args expandArgs,
	visited map[int64]struct{},
	out *[]types.ChainNode,
) {
	if _, ok := visited[args.beneficiaryID]; ok {
		return
	}
	visited[args.beneficiaryID] = struct{}{}

	state.queries++
	beneficiary, err := c.ds.GetBeneficiary(ctx, args.beneficiaryID)
	if err != nil {
		c.logger.WarnWithContext(ctx, "abandoning chain branch: beneficiary fetch failed",
			zap.Int64("beneficiary_id", args.beneficiaryID),
			zap.Int("level", args.level),
			zap.Error(err),
		)
		return
	}

	impact := beneficiary.GenericImpact
	if args.impactOverride != "" {
		impact = args.impactOverride
	}

	*out = append(*out, types.ChainNode{
		Beneficiary:   *beneficiary,
		Level:         args.level,
		FinancialLink: args.financialLink,
		Impact:        impact,
	})

	if args.level >= args.maxDepth {
		return
	}

	state.queries++
	relations, err := c.ds.GetOutgoingRelations(ctx, args.beneficiaryID)
	if err != nil {
		c.logger.WarnWithContext(ctx, "keeping node but dropping children: relation fetch failed",
			zap.Int64("beneficiary_id", args.beneficiaryID),
			zap.Int("level", args.level),
			zap.Error(err),
		)
		return
	}

	for _, relation := range relations {
		c.expand(ctx, state, expandArgs{
			beneficiaryID: relation.TargetID,
			financialLink: relation.Description,
			level:         args.level + 1,
			maxDepth:      args.maxDepth,
		}, maps.Clone(visited), out)
	}
}

// dedupeNodes keeps a single occurrence per beneficiary id, preferring the
// lowest level seen across all branches.
func dedupeNodes(nodes []types.ChainNode) []types.ChainNode {
	index := make(map[int64]int, len(nodes))
	kept := make([]types.ChainNode, 0, len(nodes))

	for _, node := range nodes {
		id := node.Beneficiary.ID
		if i, ok := index[id]; ok {
			if node.Level < kept[i].Level {
				kept[i] = node
			}
			continue
		}
		index[id] = len(kept)
		kept = append(kept, node)
	}

	return kept
}

func (c *ChainBuilder) sortNodes(nodes []types.ChainNode) {
	coll := collate.New(c.collator)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			return nodes[i].Level < nodes[j].Level
		}
		return coll.CompareString(nodes[i].Beneficiary.Name, nodes[j].Beneficiary.Name) < 0
	})
}
