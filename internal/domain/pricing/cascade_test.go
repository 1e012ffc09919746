package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentCascade_ResolveAccessible(t *testing.T) {
	h := newHierarchy()
	owned := newList(KindCustom, uuidPtr(h.reseller.ID))
	assigned := newList(KindMaster, uuidPtr(h.platform.ID))
	legacy := newList(KindCustom, uuidPtr(h.platform.ID))
	foreign := newList(KindCustom, uuidPtr(h.other.ID))
	lists := newFakeListReader(
		&PriceListSnapshot{List: owned},
		&PriceListSnapshot{List: assigned},
		&PriceListSnapshot{List: legacy},
		&PriceListSnapshot{List: foreign},
	)
	assignments := &fakeAssignmentReader{assignments: []Assignment{
		{ID: uuid.New(), PriceListID: assigned.ID, TenantID: h.reseller.ID},
		{ID: uuid.New(), PriceListID: assigned.ID, TenantID: h.reseller.ID, Note: "duplicate grant"},
		{ID: uuid.New(), PriceListID: owned.ID, TenantID: h.reseller.ID},
	}}
	tenant := h.reseller
	tenant.DirectListID = uuidPtr(legacy.ID)

	set, err := NewAssignmentCascade(lists, assignments).ResolveAccessible(context.Background(), tenant)
	require.NoError(t, err)

	assert.Len(t, set, 3)
	reason, ok := set.Reason(owned.ID)
	require.True(t, ok)
	assert.Equal(t, AccessOwned, reason)
	reason, _ = set.Reason(assigned.ID)
	assert.Equal(t, AccessAssigned, reason)
	reason, _ = set.Reason(legacy.ID)
	assert.Equal(t, AccessLegacy, reason)
	assert.False(t, set.Contains(foreign.ID))
	assert.Len(t, set.IDs(), 3)
}

func TestAssignmentCascade_RevocationIsImmediate(t *testing.T) {
	h := newHierarchy()
	list := newList(KindMaster, uuidPtr(h.platform.ID))
	assignments := &fakeAssignmentReader{assignments: []Assignment{
		{ID: uuid.New(), PriceListID: list.ID, TenantID: h.reseller.ID},
	}}
	cascade := NewAssignmentCascade(newFakeListReader(&PriceListSnapshot{List: list}), assignments)
	ctx := context.Background()

	set, err := cascade.ResolveAccessible(ctx, h.reseller)
	require.NoError(t, err)
	assert.True(t, set.Contains(list.ID))

	revokedAt := time.Now()
	assignments.assignments[0].RevokedAt = &revokedAt

	set, err = cascade.ResolveAccessible(ctx, h.reseller)
	require.NoError(t, err)
	assert.False(t, set.Contains(list.ID))
}

func TestAssignmentCascade_PropagatesReaderErrors(t *testing.T) {
	lists := newFakeListReader()
	lists.listErr = errors.New("connection refused")

	_, err := NewAssignmentCascade(lists, &fakeAssignmentReader{}).ResolveAccessible(context.Background(), newHierarchy().client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
