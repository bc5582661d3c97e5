// Package storage contains the record store interface consumed by the chain
// resolution engine, along with its reference implementations.
//
//go:generate mockgen -source storage.go -destination ../../internal/mocks/mock_storage.go -package mocks RecordStore
package storage

import (
	"context"

	"github.com/ownerchain/ownerchain/pkg/types"
)

// RecordStore is the read-only record source the engine traverses. All brand
// and beneficiary data is owned by the store; the engine never writes back.
type RecordStore interface {
	// GetBrand returns the brand record for the given id.
	// It returns ErrNotFound if the brand does not exist.
	GetBrand(ctx context.Context, brandID int64) (*types.Brand, error)

	// GetBrandBeneficiaryLinks returns the direct brand→beneficiary links for
	// the given brand. A brand with no links yields an empty slice, not an
	// error.
	GetBrandBeneficiaryLinks(ctx context.Context, brandID int64) ([]*types.BrandBeneficiaryLink, error)

	// GetBeneficiary returns the beneficiary record, including its
	// controversies in stored order. It returns ErrNotFound if the
	// beneficiary does not exist.
	GetBeneficiary(ctx context.Context, beneficiaryID int64) (*types.Beneficiary, error)

	// GetOutgoingRelations returns relations where the given beneficiary is
	// the source, meaning edges toward the entities it feeds.
	GetOutgoingRelations(ctx context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error)

	// GetIncomingRelations returns relations where the given beneficiary is
	// the target, meaning edges from the entities feeding it.
	GetIncomingRelations(ctx context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error)

	// GetBrandsForBeneficiary returns the brands directly linked to the given
	// beneficiary.
	GetBrandsForBeneficiary(ctx context.Context, beneficiaryID int64) ([]*types.BrandRef, error)

	// IsReady reports whether the store can serve reads.
	IsReady(ctx context.Context) (bool, error)

	// Close releases any resources held by the store.
	Close()
}
