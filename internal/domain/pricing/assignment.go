package pricing

import (
	"time"

	"github.com/google/uuid"
)

// Assignment grants a tenant access to a price list until revoked
type Assignment struct {
	ID          uuid.UUID
	PriceListID uuid.UUID
	TenantID    uuid.UUID
	AssignedBy  *uuid.UUID
	Note        string
	AssignedAt  time.Time
	RevokedAt   *time.Time
}

// IsActive reports whether the assignment still grants access
func (a *Assignment) IsActive() bool {
	return a.RevokedAt == nil
}
