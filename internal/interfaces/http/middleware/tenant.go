package middleware

import (
	"errors"
	"net/http"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/logger"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	TenantHeaderKey   = "X-Tenant-ID"
	TenantIdentityKey = "tenant_identity"
)

// Tenant resolves the caller from X-Tenant-ID through tenants and stores
// the identity for handlers. Establishing who may send which header is the
// job of the gateway in front of this service.
func Tenant(tenants pricing.TenantReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(TenantHeaderKey)
		if raw == "" {
			respondUnauthorized(c, "Tenant identification required")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			respondUnauthorized(c, "Invalid tenant ID format")
			return
		}

		ctx := c.Request.Context()
		identity, err := tenants.GetTenant(ctx, id)
		if err != nil {
			log := logger.GinLogger(c)
			if errors.Is(err, shared.ErrNotFound) {
				log.Warn("Unknown tenant", zap.String("tenant_id", raw))
				respondUnauthorized(c, "Invalid or inactive tenant")
				return
			}
			log.Error("Tenant lookup failed", zap.String("tenant_id", raw), zap.Error(err))
			status := http.StatusInternalServerError
			code := dto.ErrCodeInternal
			if shared.CodeOf(err) == shared.CodeInconsistentListData {
				status, code = http.StatusConflict, dto.ErrCodeInconsistentListData
			}
			c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, "Tenant could not be resolved", GetRequestID(c)))
			return
		}

		c.Set(TenantIdentityKey, *identity)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("tenant.id", raw),
			attribute.Int("tenant.depth", int(identity.Depth)),
		)

		ctx, reqLogger := logger.WithTenantID(ctx, logger.GinLogger(c), raw)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinKey, reqLogger)

		c.Next()
	}
}

// GetTenantIdentity returns the identity stored by Tenant
func GetTenantIdentity(c *gin.Context) (pricing.TenantIdentity, bool) {
	v, ok := c.Get(TenantIdentityKey)
	if !ok {
		return pricing.TenantIdentity{}, false
	}
	identity, ok := v.(pricing.TenantIdentity)
	return identity, ok
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
