package pricing

import (
	"context"

	"github.com/google/uuid"
)

// PriceListReader reads price lists from the persistence collaborator
type PriceListReader interface {
	// GetPriceList returns the header and entries, or shared.ErrNotFound
	GetPriceList(ctx context.Context, id uuid.UUID) (*PriceListSnapshot, error)
	// ListPriceLists returns headers matching the filter
	ListPriceLists(ctx context.Context, filter PriceListFilter) ([]PriceList, error)
}

// AssignmentReader reads assignment records, revoked ones included
type AssignmentReader interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Assignment, error)
}

// TenantReader resolves a tenant identity by id
type TenantReader interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*TenantIdentity, error)
}
