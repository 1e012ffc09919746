package pricing

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

// memoryLists mirrors the gorm repository: broken lists list fine by header
// but fail GetPriceList with their error.
type memoryLists struct {
	mu     sync.Mutex
	lists  map[uuid.UUID]*pricing.PriceListSnapshot
	gets   map[uuid.UUID]int
	broken map[uuid.UUID]error
}

func newMemoryLists() *memoryLists {
	return &memoryLists{
		lists:  map[uuid.UUID]*pricing.PriceListSnapshot{},
		gets:   map[uuid.UUID]int{},
		broken: map[uuid.UUID]error{},
	}
}

func (m *memoryLists) add(list *pricing.PriceList, entries ...pricing.Entry) *pricing.PriceList {
	for i := range entries {
		entries[i].PriceListID = list.ID
	}
	m.lists[list.ID] = &pricing.PriceListSnapshot{List: list, Entries: entries}
	return list
}

func (m *memoryLists) getCount(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets[id]
}

func (m *memoryLists) GetPriceList(_ context.Context, id uuid.UUID) (*pricing.PriceListSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets[id]++
	if err, ok := m.broken[id]; ok {
		return nil, err
	}
	s, ok := m.lists[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryLists) ListPriceLists(_ context.Context, f pricing.PriceListFilter) ([]pricing.PriceList, error) {
	if f.IDs != nil && len(f.IDs) == 0 {
		return nil, nil
	}
	var out []pricing.PriceList
	for _, s := range m.lists {
		l := s.List
		if f.IDs != nil && !slices.Contains(f.IDs, l.ID) {
			continue
		}
		if f.OwnerID != nil && !l.IsOwnedBy(*f.OwnerID) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if len(f.Kinds) > 0 {
			found := false
			for _, k := range f.Kinds {
				found = found || k == l.Kind
			}
			if !found {
				continue
			}
		}
		out = append(out, *l)
	}
	return out, nil
}

type memoryAssignments struct {
	assignments []pricing.Assignment
}

func (m *memoryAssignments) assign(listID, tenantID uuid.UUID) {
	m.assignments = append(m.assignments, pricing.Assignment{
		ID: uuid.New(), PriceListID: listID, TenantID: tenantID, AssignedAt: fixedNow,
	})
}

func (m *memoryAssignments) revokeAll(listID uuid.UUID) {
	for i := range m.assignments {
		if m.assignments[i].PriceListID == listID {
			m.assignments[i].RevokedAt = ptr(fixedNow)
		}
	}
}

func (m *memoryAssignments) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]pricing.Assignment, error) {
	var out []pricing.Assignment
	for _, a := range m.assignments {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

type captureSink struct {
	records []pricing.AuditRecord
}

func (s *captureSink) Record(_ context.Context, r pricing.AuditRecord) error {
	s.records = append(s.records, r)
	return nil
}

func list(kind pricing.ListKind, owner *uuid.UUID, convention pricing.TaxConvention, carrier string) *pricing.PriceList {
	return &pricing.PriceList{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          string(kind) + " " + carrier,
		OwnerID:       owner,
		Kind:          kind,
		Status:        pricing.StatusActive,
		TaxConvention: convention,
		TaxRate:       dec("22"),
		Carrier:       pricing.CarrierContractRef{CarrierCode: carrier, ContractCode: carrier + "-std", ConfigID: "cfg-" + carrier},
	}
}

func entry(from, to, base string) pricing.Entry {
	return pricing.Entry{
		ID:          uuid.New(),
		WeightFrom:  dec(from),
		WeightTo:    dec(to),
		ServiceType: pricing.ServiceStandard,
		BasePrice:   dec(base),
		Delivery:    pricing.DeliveryEstimate{MinDays: 1, MaxDays: 3},
	}
}

type tenants struct {
	platform pricing.TenantIdentity
	reseller pricing.TenantIdentity
	client   pricing.TenantIdentity
}

func newTenants() tenants {
	platform := pricing.TenantIdentity{ID: uuid.New(), Depth: pricing.DepthPlatform}
	reseller := pricing.TenantIdentity{ID: uuid.New(), Depth: pricing.DepthReseller, ParentID: ptr(platform.ID)}
	client := pricing.TenantIdentity{ID: uuid.New(), Depth: pricing.DepthClient, ParentID: ptr(reseller.ID)}
	return tenants{platform: platform, reseller: reseller, client: client}
}

func quoteRequest(weight float64) QuoteRequest {
	return QuoteRequest{
		WeightKg:    weight,
		Destination: DestinationRequest{Zip: "20121", Province: "MI", Country: "IT"},
	}
}
