package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hierarchy struct {
	platform TenantIdentity
	reseller TenantIdentity
	client   TenantIdentity
	other    TenantIdentity
}

func newHierarchy() hierarchy {
	platform := TenantIdentity{ID: uuid.New(), Depth: DepthPlatform}
	reseller := TenantIdentity{ID: uuid.New(), Depth: DepthReseller, ParentID: uuidPtr(platform.ID)}
	client := TenantIdentity{ID: uuid.New(), Depth: DepthClient, ParentID: uuidPtr(reseller.ID)}
	other := TenantIdentity{ID: uuid.New(), Depth: DepthReseller, ParentID: uuidPtr(platform.ID)}
	return hierarchy{platform: platform, reseller: reseller, client: client, other: other}
}

func TestCanSeeWithin(t *testing.T) {
	h := newHierarchy()

	t.Run("platform root sees custom and master lists", func(t *testing.T) {
		assert.True(t, CanSeeWithin(h.platform, newList(KindCustom, uuidPtr(h.reseller.ID)), nil))
		assert.True(t, CanSeeWithin(h.platform, newList(KindMaster, uuidPtr(h.other.ID)), nil))
	})

	t.Run("global custom list is visible to everyone", func(t *testing.T) {
		assert.True(t, CanSeeWithin(h.client, newList(KindCustom, nil), nil))
	})

	t.Run("owned list is visible", func(t *testing.T) {
		assert.True(t, CanSeeWithin(h.reseller, newList(KindCustom, uuidPtr(h.reseller.ID)), nil))
	})

	t.Run("foreign custom list needs membership", func(t *testing.T) {
		list := newList(KindCustom, uuidPtr(h.other.ID))
		assert.False(t, CanSeeWithin(h.reseller, list, AccessibleSet{}))
		assert.True(t, CanSeeWithin(h.reseller, list, AccessibleSet{list.ID: AccessAssigned}))
	})

	t.Run("supplier list is visible only to its owner", func(t *testing.T) {
		list := newList(KindSupplier, uuidPtr(h.reseller.ID))
		assert.True(t, CanSeeWithin(h.reseller, list, nil))
		assert.False(t, CanSeeWithin(h.client, list, AccessibleSet{list.ID: AccessAssigned}))
		assert.False(t, CanSeeWithin(h.other, list, AccessibleSet{list.ID: AccessLegacy}))
		assert.False(t, CanSeeWithin(h.platform, list, nil))
	})

	t.Run("global supplier list is never visible", func(t *testing.T) {
		list := newList(KindSupplier, nil)
		assert.False(t, CanSeeWithin(h.reseller, list, AccessibleSet{list.ID: AccessAssigned}))
	})
}

func TestVisibilityGuard_CanSee(t *testing.T) {
	h := newHierarchy()
	list := newList(KindCustom, uuidPtr(h.platform.ID))
	revokedAt := time.Now().Add(-time.Minute)
	assignments := &fakeAssignmentReader{assignments: []Assignment{
		{ID: uuid.New(), PriceListID: list.ID, TenantID: h.reseller.ID},
		{ID: uuid.New(), PriceListID: list.ID, TenantID: h.client.ID, RevokedAt: &revokedAt},
	}}
	guard := NewVisibilityGuard(NewAssignmentCascade(newFakeListReader(&PriceListSnapshot{List: list}), assignments))
	ctx := context.Background()

	ok, err := guard.CanSee(ctx, h.reseller, list)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.CanSee(ctx, h.client, list)
	require.NoError(t, err)
	assert.False(t, ok, "revoked assignment must not grant visibility")

	ok, err = guard.CanSee(ctx, h.other, list)
	require.NoError(t, err)
	assert.False(t, ok)
}
