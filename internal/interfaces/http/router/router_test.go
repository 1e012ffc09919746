package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/handler"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticTenants map[uuid.UUID]*pricing.TenantIdentity

func (s staticTenants) GetTenant(_ context.Context, id uuid.UUID) (*pricing.TenantIdentity, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoRoutes struct{}

func (echoRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/whoami", func(c *gin.Context) {
		identity, _ := middleware.GetTenantIdentity(c)
		c.String(http.StatusOK, identity.ID.String())
	})
}

func serve(engine *gin.Engine, method, path, tenant string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if tenant != "" {
		req.Header.Set(middleware.TenantHeaderKey, tenant)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	tenant := &pricing.TenantIdentity{ID: uuid.New()}
	engine, err := New(Config{
		ServiceName: "pricing-service",
		MaxBodySize: 1 << 20,
		Security:    middleware.DefaultSecurityConfig(),
		Tenants:     staticTenants{tenant.ID: tenant},
		Health: handler.NewHealthHandler("pricing-service", "test", map[string]handler.Pinger{
			"database": pinger{},
		}),
	}, echoRoutes{})
	require.NoError(t, err)

	t.Run("api routes require a tenant", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("api routes see the tenant", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/whoami", tenant.ID.String())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenant.ID.String(), w.Body.String())
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("health endpoints skip tenant resolution", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "").Code)
		w := serve(engine, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})
}

func TestNew_ReadyReportsFailures(t *testing.T) {
	engine, err := New(Config{
		Health: handler.NewHealthHandler("pricing-service", "test", map[string]handler.Pinger{
			"database": pinger{},
			"redis":    pinger{err: errors.New("dial tcp: connection refused")},
		}),
	})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unavailable"`)
	assert.Contains(t, w.Body.String(), `"not_ready"`)
}

func TestNew_InvalidTrustedProxy(t *testing.T) {
	_, err := New(Config{TrustedProxies: []string{"not-an-ip"}})
	assert.Error(t, err)
}
