package pricing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// AccessReason records how a list entered a tenant's accessible set
type AccessReason string

const (
	AccessOwned    AccessReason = "owned"
	AccessAssigned AccessReason = "assigned"
	AccessLegacy   AccessReason = "direct_assignment"
)

// AccessibleSet is the deduplicated set of list ids a tenant may reach.
// When a list is reachable several ways, ownership wins over assignment.
type AccessibleSet map[uuid.UUID]AccessReason

// Contains reports whether id is in the set
func (s AccessibleSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Reason returns how id was reached
func (s AccessibleSet) Reason(id uuid.UUID) (AccessReason, bool) {
	r, ok := s[id]
	return r, ok
}

// IDs returns the members in a stable order
func (s AccessibleSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (s AccessibleSet) add(id uuid.UUID, reason AccessReason) {
	if current, ok := s[id]; ok && current == AccessOwned {
		return
	}
	s[id] = reason
}

// AssignmentCascade resolves the lists a tenant may access.
// Results are computed on every call and must not be cached.
type AssignmentCascade struct {
	lists       PriceListReader
	assignments AssignmentReader
}

// NewAssignmentCascade creates a cascade over the given readers
func NewAssignmentCascade(lists PriceListReader, assignments AssignmentReader) *AssignmentCascade {
	return &AssignmentCascade{lists: lists, assignments: assignments}
}

// ResolveAccessible returns owned lists, active assignments and the legacy
// direct assignment of tenant.
func (c *AssignmentCascade) ResolveAccessible(ctx context.Context, tenant TenantIdentity) (AccessibleSet, error) {
	set := AccessibleSet{}

	owned, err := c.lists.ListPriceLists(ctx, PriceListFilter{OwnerID: &tenant.ID})
	if err != nil {
		return nil, fmt.Errorf("list owned price lists: %w", err)
	}
	for i := range owned {
		set.add(owned[i].ID, AccessOwned)
	}

	assignments, err := c.assignments.ListByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	for i := range assignments {
		a := &assignments[i]
		if a.TenantID != tenant.ID || !a.IsActive() {
			continue
		}
		set.add(a.PriceListID, AccessAssigned)
	}

	if tenant.DirectListID != nil {
		if _, ok := set[*tenant.DirectListID]; !ok {
			set.add(*tenant.DirectListID, AccessLegacy)
		}
	}
	return set, nil
}
