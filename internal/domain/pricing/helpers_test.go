package pricing

import (
	"context"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func newEntry(from, to, base string) Entry {
	return Entry{
		ID:          uuid.New(),
		WeightFrom:  dec(from),
		WeightTo:    dec(to),
		ServiceType: ServiceStandard,
		BasePrice:   dec(base),
	}
}

func standardRequest(weight string) SelectionRequest {
	return SelectionRequest{
		Weight:      dec(weight),
		Destination: Destination{Zip: "20121", Province: "MI", Country: "IT"},
		ServiceType: ServiceStandard,
		Zone:        DefaultZone,
	}
}

type fakeListReader struct {
	lists   map[uuid.UUID]*PriceListSnapshot
	listErr error
}

func newFakeListReader(snapshots ...*PriceListSnapshot) *fakeListReader {
	r := &fakeListReader{lists: map[uuid.UUID]*PriceListSnapshot{}}
	for _, s := range snapshots {
		r.lists[s.List.ID] = s
	}
	return r
}

func (r *fakeListReader) GetPriceList(_ context.Context, id uuid.UUID) (*PriceListSnapshot, error) {
	s, ok := r.lists[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeListReader) ListPriceLists(_ context.Context, filter PriceListFilter) ([]PriceList, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []PriceList
	for _, s := range r.lists {
		if filter.OwnerID != nil && !s.List.IsOwnedBy(*filter.OwnerID) {
			continue
		}
		out = append(out, *s.List)
	}
	return out, nil
}

type fakeAssignmentReader struct {
	assignments []Assignment
}

func (r *fakeAssignmentReader) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]Assignment, error) {
	var out []Assignment
	for _, a := range r.assignments {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newList(kind ListKind, owner *uuid.UUID) *PriceList {
	return &PriceList{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          string(kind) + " list",
		OwnerID:       owner,
		Kind:          kind,
		Status:        StatusActive,
		TaxConvention: TaxExclusive,
		TaxRate:       dec("22"),
	}
}
