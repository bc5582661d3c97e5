// Package graph implements the ownership-chain resolution engine: the
// depth-bounded, cycle-safe traversal of the beneficiary relation graph, the
// transitive brand resolution feeding it, and the caching decorators fronting
// both.
//
//go:generate mockgen -source interface.go -destination mocks_test.go -package graph
package graph

import (
	"context"
	"strconv"
	"strings"

	"github.com/ownerchain/ownerchain/pkg/types"
)

// DefaultMaxDepth bounds traversal depth when the request does not override it.
const DefaultMaxDepth = 5

// ChainResolver resolves a brand's ownership chain.
type ChainResolver interface {
	// BuildChain computes the deduplicated, leveled list of beneficiaries
	// reachable from the brand. The returned nodes are unenriched; brand lists
	// are attached by the enrichment pass.
	BuildChain(ctx context.Context, req *BuildChainRequest) (*BuildChainResponse, error)

	// Close releases resources held by the resolver.
	Close()
}

// BrandResolver resolves the direct and transitively reachable brands of a
// single beneficiary.
type BrandResolver interface {
	ResolveBrands(ctx context.Context, req *ResolveBrandsRequest) (*ResolveBrandsResponse, error)

	// Close releases resources held by the resolver.
	Close()
}

// BuildChainRequest identifies the brand whose chain is being resolved.
type BuildChainRequest struct {
	BrandID  int64
	MaxDepth int
}

// BuildChainResponse carries the resolved chain and traversal bookkeeping.
type BuildChainResponse struct {
	Nodes           []types.ChainNode
	MaxDepthReached int
	Metadata        ResolutionMetadata
}

func (r *BuildChainResponse) clone() *BuildChainResponse {
	if r == nil {
		return nil
	}
	return &BuildChainResponse{
		Nodes:           types.CloneChainNodes(r.Nodes),
		MaxDepthReached: r.MaxDepthReached,
		Metadata:        r.Metadata,
	}
}

// ResolveBrandsRequest identifies the beneficiary whose brands are being
// resolved. ExcludeBrandID is the brand that seeded the original chain
// request; it never appears in the result.
type ResolveBrandsRequest struct {
	BeneficiaryID  int64
	ExcludeBrandID int64
	MaxDepth       int
}

// PathStep is one intermediary beneficiary on an indirect path.
type PathStep struct {
	BeneficiaryID int64
	Name          string
}

// IndirectGroup is the set of brands reached through one chain of
// intermediaries. Groups are keyed internally by beneficiary ids so that two
// distinct intermediaries sharing a name never collapse into one group; names
// are only rendered into labels at the serialization boundary.
type IndirectGroup struct {
	Path   []PathStep
	Brands []types.BrandRef
}

// Label renders the human-readable group label from the intermediary names.
func (g IndirectGroup) Label() string {
	names := make([]string, len(g.Path))
	for i, step := range g.Path {
		names[i] = step.Name
	}
	return strings.Join(names, " → ")
}

// pathKey is the stable identity of the group within one resolution.
func (g IndirectGroup) pathKey() string {
	ids := make([]string, len(g.Path))
	for i, step := range g.Path {
		ids[i] = strconv.FormatInt(step.BeneficiaryID, 10)
	}
	return strings.Join(ids, ".")
}

// ResolveBrandsResponse carries the direct brands of a beneficiary and the
// indirect brands grouped per intermediary path.
type ResolveBrandsResponse struct {
	Direct   []types.BrandRef
	Indirect []IndirectGroup
	Metadata ResolutionMetadata
}

func (r *ResolveBrandsResponse) clone() *ResolveBrandsResponse {
	if r == nil {
		return nil
	}
	out := &ResolveBrandsResponse{
		Direct:   append([]types.BrandRef(nil), r.Direct...),
		Metadata: r.Metadata,
	}
	if r.Indirect != nil {
		out.Indirect = make([]IndirectGroup, len(r.Indirect))
		for i, g := range r.Indirect {
			out.Indirect[i] = IndirectGroup{
				Path:   append([]PathStep(nil), g.Path...),
				Brands: append([]types.BrandRef(nil), g.Brands...),
			}
		}
	}
	return out
}

// ResolutionMetadata reports how much work a resolution performed.
type ResolutionMetadata struct {
	// DatastoreQueryCount is the number of record store round-trips issued.
	DatastoreQueryCount uint32
}
