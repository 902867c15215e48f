package matcher

import (
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
)

// ReferenceIndex holds the owner, customer, and property records prepared for
// matching. Normalization of IBANs and names happens once at build time, so
// per-receipt work is kept to the comparisons themselves.
//
// The index is immutable after construction and safe for concurrent readers.
type ReferenceIndex struct {
	owners []*models.Owner

	// ownersByIBAN maps normalized IBANs to owners for exact-match lookup.
	ownersByIBAN map[string]*models.Owner

	// ownerIBANs and ownerNames cache the normalized forms keyed by owner ID.
	ownerIBANs map[int64]string
	ownerNames map[int64]string

	// propertiesByOwner preserves the input order of each owner's properties.
	propertiesByOwner map[int64][]*models.Property

	customers []customerEntry

	stats IndexStats
}

// customerEntry pairs a customer record with its precomputed normalized name.
type customerEntry struct {
	customer *models.Customer
	normName string
}

// IndexStats summarizes the records held by a ReferenceIndex.
type IndexStats struct {
	Owners     int `json:"owners"`
	Customers  int `json:"customers"`
	Properties int `json:"properties"`
	Contracts  int `json:"contracts"`
}

// NewReferenceIndex builds an index over the given reference data. The data
// is assumed to be validated; records are not copied, so callers must not
// mutate them afterwards.
func NewReferenceIndex(data *models.ReferenceData) *ReferenceIndex {
	idx := &ReferenceIndex{
		owners:            data.Owners,
		ownersByIBAN:      make(map[string]*models.Owner, len(data.Owners)),
		ownerIBANs:        make(map[int64]string, len(data.Owners)),
		ownerNames:        make(map[int64]string, len(data.Owners)),
		propertiesByOwner: make(map[int64][]*models.Property),
		customers:         make([]customerEntry, 0, len(data.Customers)),
		stats: IndexStats{
			Owners:     len(data.Owners),
			Customers:  len(data.Customers),
			Properties: len(data.Properties),
			Contracts:  len(data.Contracts),
		},
	}

	for _, owner := range data.Owners {
		iban := normalize.IBAN(owner.IBAN)
		idx.ownerIBANs[owner.ID] = iban
		idx.ownerNames[owner.ID] = normalize.Name(owner.FullName)
		if iban != "" {
			idx.ownersByIBAN[iban] = owner
		}
	}

	for _, property := range data.Properties {
		idx.propertiesByOwner[property.OwnerID] = append(idx.propertiesByOwner[property.OwnerID], property)
	}

	for _, customer := range data.Customers {
		idx.customers = append(idx.customers, customerEntry{
			customer: customer,
			normName: normalize.Name(customer.FullName),
		})
	}

	return idx
}

// Owners returns the indexed owners in their original input order.
func (idx *ReferenceIndex) Owners() []*models.Owner {
	return idx.owners
}

// OwnerByIBAN looks up an owner by normalized IBAN.
func (idx *ReferenceIndex) OwnerByIBAN(iban string) (*models.Owner, bool) {
	owner, ok := idx.ownersByIBAN[iban]
	return owner, ok
}

// OwnerIBAN returns the precomputed normalized IBAN for an owner.
func (idx *ReferenceIndex) OwnerIBAN(ownerID int64) string {
	return idx.ownerIBANs[ownerID]
}

// OwnerName returns the precomputed normalized full name for an owner.
func (idx *ReferenceIndex) OwnerName(ownerID int64) string {
	return idx.ownerNames[ownerID]
}

// PropertiesOf returns an owner's properties in input order; nil when the
// owner has none.
func (idx *ReferenceIndex) PropertiesOf(ownerID int64) []*models.Property {
	return idx.propertiesByOwner[ownerID]
}

// Stats returns record counts for the index.
func (idx *ReferenceIndex) Stats() IndexStats {
	return idx.stats
}
