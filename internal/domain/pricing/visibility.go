package pricing

import "context"

// VisibilityGuard decides whether a tenant may see or apply a price list
type VisibilityGuard struct {
	cascade *AssignmentCascade
}

// NewVisibilityGuard creates a guard backed by cascade
func NewVisibilityGuard(cascade *AssignmentCascade) *VisibilityGuard {
	return &VisibilityGuard{cascade: cascade}
}

// CanSee resolves the accessible set fresh and checks list against it
func (g *VisibilityGuard) CanSee(ctx context.Context, tenant TenantIdentity, list *PriceList) (bool, error) {
	if list.Kind == KindSupplier || tenant.IsPlatformRoot() || list.IsOwnedBy(tenant.ID) {
		return CanSeeWithin(tenant, list, nil), nil
	}
	set, err := g.cascade.ResolveAccessible(ctx, tenant)
	if err != nil {
		return false, err
	}
	return CanSeeWithin(tenant, list, set), nil
}

// CanSeeWithin applies the visibility rules against an already resolved set.
// Supplier lists are visible to their owner only, the platform root
// included, whatever the assignments say.
func CanSeeWithin(tenant TenantIdentity, list *PriceList, accessible AccessibleSet) bool {
	switch list.Kind {
	case KindSupplier:
		return list.IsOwnedBy(tenant.ID)
	case KindCustom, KindMaster:
		if tenant.IsPlatformRoot() || list.IsOwnedBy(tenant.ID) || list.IsGlobal() {
			return true
		}
		return accessible.Contains(list.ID)
	default:
		return false
	}
}
