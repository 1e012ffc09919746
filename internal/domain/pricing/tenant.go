package pricing

import "github.com/google/uuid"

// TenantDepth is the position of a tenant in the platform hierarchy
type TenantDepth int

const (
	DepthPlatform TenantDepth = 0
	DepthReseller TenantDepth = 1
	DepthClient   TenantDepth = 2
)

// TenantIdentity is the caller as established by the identity collaborator.
// It is treated as an immutable value.
type TenantIdentity struct {
	ID       uuid.UUID
	Depth    TenantDepth
	ParentID *uuid.UUID
	// DirectListID is the legacy single assigned price list on the tenant record
	DirectListID *uuid.UUID
}

// IsPlatformRoot reports whether the tenant sits at the top of the hierarchy
func (t TenantIdentity) IsPlatformRoot() bool {
	return t.Depth == DepthPlatform && t.ParentID == nil
}
