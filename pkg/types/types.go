// Package types contains the record types served by the record store and the
// derived types computed by the chain resolution engine.
package types

import (
	"time"
)

// BeneficiaryType tags the kind of entity a beneficiary is.
type BeneficiaryType string

const (
	BeneficiaryTypeIndividual BeneficiaryType = "individual"
	BeneficiaryTypeGroup      BeneficiaryType = "group"
	BeneficiaryTypeFund       BeneficiaryType = "fund"
	BeneficiaryTypeOther      BeneficiaryType = "other"
)

// Brand is a consumer-facing brand as stored in the record store.
type Brand struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SectorID   int64  `json:"sector_id,omitempty"`
	BoycottTip string `json:"boycott_tip,omitempty"`
}

// BrandRef is the compact brand identity used inside resolved brand lists.
type BrandRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Controversy is a documented controversy attached to exactly one beneficiary.
type Controversy struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Date      *time.Time `json:"date,omitempty"`
	SourceURL string     `json:"source_url"`
}

// Beneficiary is an entity that financially benefits from one or more brands.
type Beneficiary struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          BeneficiaryType `json:"type"`
	GenericImpact string          `json:"generic_impact,omitempty"`
	Controversies []Controversy   `json:"controversies"`
}

// BrandBeneficiaryLink is a direct edge from a brand to a beneficiary.
type BrandBeneficiaryLink struct {
	ID             int64
	BrandID        int64
	BeneficiaryID  int64
	FinancialLink  string
	ImpactOverride string
}

// BeneficiaryRelation is a directed edge between two beneficiaries, source
// benefiting the target (for example "source holds 23% of target"). The
// relation graph is not guaranteed acyclic.
type BeneficiaryRelation struct {
	ID          int64
	SourceID    int64
	TargetID    int64
	Description string
}

// ChainNode is one resolved beneficiary in a brand's ownership chain. It is
// derived per request and never persisted. The marques_directes and
// marques_indirectes field names are kept for wire compatibility with existing
// consumers of the API.
type ChainNode struct {
	Beneficiary    Beneficiary           `json:"beneficiary"`
	Level          int                   `json:"level"`
	FinancialLink  string                `json:"financial_link"`
	Impact         string                `json:"impact,omitempty"`
	DirectBrands   []BrandRef            `json:"marques_directes"`
	IndirectBrands map[string][]BrandRef `json:"marques_indirectes"`
}

// Clone returns a deep copy of the node. Cached nodes are immutable snapshots,
// so anything handed to a caller must be cloned first.
func (n ChainNode) Clone() ChainNode {
	out := n
	out.Beneficiary.Controversies = append([]Controversy(nil), n.Beneficiary.Controversies...)
	out.DirectBrands = append([]BrandRef(nil), n.DirectBrands...)
	if n.IndirectBrands != nil {
		out.IndirectBrands = make(map[string][]BrandRef, len(n.IndirectBrands))
		for label, brands := range n.IndirectBrands {
			out.IndirectBrands[label] = append([]BrandRef(nil), brands...)
		}
	}
	return out
}

// CloneChainNodes deep-copies a slice of chain nodes.
func CloneChainNodes(nodes []ChainNode) []ChainNode {
	if nodes == nil {
		return nil
	}
	out := make([]ChainNode, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}
