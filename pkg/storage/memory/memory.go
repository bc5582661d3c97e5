// Package memory provides an in-process implementation of
// [storage.RecordStore]. It backs the demo datastore engine and serves as the
// deterministic fake adapter in engine tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ownerchain/ownerchain/pkg/storage"
	"github.com/ownerchain/ownerchain/pkg/types"
)

// Datastore is an in-memory record store. Reads return copies; the engine
// never observes shared mutable state.
type Datastore struct {
	mu            sync.RWMutex
	brands        map[int64]types.Brand
	beneficiaries map[int64]types.Beneficiary
	links         []types.BrandBeneficiaryLink
	relations     []types.BeneficiaryRelation
}

var _ storage.RecordStore = (*Datastore)(nil)

// New creates an empty in-memory record store.
func New() *Datastore {
	return &Datastore{
		brands:        map[int64]types.Brand{},
		beneficiaries: map[int64]types.Beneficiary{},
	}
}

// SetBrand inserts or replaces a brand record.
func (d *Datastore) SetBrand(b types.Brand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brands[b.ID] = b
}

// SetBeneficiary inserts or replaces a beneficiary record, controversies
// included.
func (d *Datastore) SetBeneficiary(b types.Beneficiary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b.Controversies = append([]types.Controversy(nil), b.Controversies...)
	d.beneficiaries[b.ID] = b
}

// AddLink inserts a brand→beneficiary link.
func (d *Datastore) AddLink(link types.BrandBeneficiaryLink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.links = append(d.links, link)
}

// AddRelation inserts a beneficiary→beneficiary relation.
func (d *Datastore) AddRelation(rel types.BeneficiaryRelation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.relations = append(d.relations, rel)
}

// GetBrand see [storage.RecordStore].GetBrand.
func (d *Datastore) GetBrand(_ context.Context, brandID int64) (*types.Brand, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	brand, ok := d.brands[brandID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &brand, nil
}

// GetBrandBeneficiaryLinks see [storage.RecordStore].GetBrandBeneficiaryLinks.
func (d *Datastore) GetBrandBeneficiaryLinks(_ context.Context, brandID int64) ([]*types.BrandBeneficiaryLink, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*types.BrandBeneficiaryLink
	for _, link := range d.links {
		if link.BrandID == brandID {
			l := link
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetBeneficiary see [storage.RecordStore].GetBeneficiary.
func (d *Datastore) GetBeneficiary(_ context.Context, beneficiaryID int64) (*types.Beneficiary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	beneficiary, ok := d.beneficiaries[beneficiaryID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	beneficiary.Controversies = append([]types.Controversy(nil), beneficiary.Controversies...)
	return &beneficiary, nil
}

// GetOutgoingRelations see [storage.RecordStore].GetOutgoingRelations.
func (d *Datastore) GetOutgoingRelations(_ context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error) {
	return d.filterRelations(func(rel types.BeneficiaryRelation) bool {
		return rel.SourceID == beneficiaryID
	}), nil
}

// GetIncomingRelations see [storage.RecordStore].GetIncomingRelations.
func (d *Datastore) GetIncomingRelations(_ context.Context, beneficiaryID int64) ([]*types.BeneficiaryRelation, error) {
	return d.filterRelations(func(rel types.BeneficiaryRelation) bool {
		return rel.TargetID == beneficiaryID
	}), nil
}

// GetBrandsForBeneficiary see [storage.RecordStore].GetBrandsForBeneficiary.
func (d *Datastore) GetBrandsForBeneficiary(_ context.Context, beneficiaryID int64) ([]*types.BrandRef, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*types.BrandRef
	seen := map[int64]struct{}{}
	for _, link := range d.links {
		if link.BeneficiaryID != beneficiaryID {
			continue
		}
		brand, ok := d.brands[link.BrandID]
		if !ok {
			continue
		}
		if _, dup := seen[brand.ID]; dup {
			continue
		}
		seen[brand.ID] = struct{}{}
		out = append(out, &types.BrandRef{ID: brand.ID, Name: brand.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IsReady see [storage.RecordStore].IsReady.
func (d *Datastore) IsReady(_ context.Context) (bool, error) {
	return true, nil
}

// Close see [storage.RecordStore].Close.
func (d *Datastore) Close() {}

func (d *Datastore) filterRelations(keep func(types.BeneficiaryRelation) bool) []*types.BeneficiaryRelation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*types.BeneficiaryRelation
	for _, rel := range d.relations {
		if keep(rel) {
			r := rel
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
