package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/logger"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTenants struct {
	tenants map[uuid.UUID]*pricing.TenantIdentity
	err     error
}

func (f *fakeTenants) GetTenant(_ context.Context, id uuid.UUID) (*pricing.TenantIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Len(t, w.Body.String(), 36)
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	router.Use(Secure(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(100))
	router.POST("/x", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, "bad")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(make([]byte, 200)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("streamed body is capped", func(t *testing.T) {
		body := `{"a":"` + strings.Repeat("x", 200) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTenant(t *testing.T) {
	parent := uuid.New()
	known := &pricing.TenantIdentity{ID: uuid.New(), Depth: pricing.DepthReseller, ParentID: &parent}
	tenants := &fakeTenants{tenants: map[uuid.UUID]*pricing.TenantIdentity{known.ID: known}}

	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(RequestID(), logger.GinMiddleware(zap.New(core)), Tenant(tenants))
	router.GET("/x", func(c *gin.Context) {
		identity, ok := GetTenantIdentity(c)
		require.True(t, ok)
		assert.Equal(t, logger.TenantID(c.Request.Context()), identity.ID.String())
		logger.GinLogger(c).Info("handled")
		c.String(http.StatusOK, identity.ID.String())
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set(TenantHeaderKey, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("known tenant", func(t *testing.T) {
		w := call(known.ID.String())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, known.ID.String(), w.Body.String())

		handled := logs.FilterMessage("handled").All()
		require.NotEmpty(t, handled)
		assert.Equal(t, known.ID.String(), handled[len(handled)-1].ContextMap()["tenant_id"])
	})

	t.Run("missing header", func(t *testing.T) {
		w := call("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("tenant-1").Code)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(uuid.NewString()).Code)
	})

	t.Run("inconsistent record", func(t *testing.T) {
		tenants.err = shared.NewDomainError(shared.CodeInconsistentListData, "bad depth")
		defer func() { tenants.err = nil }()
		w := call(known.ID.String())
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		tenants.err = errors.New("connection reset")
		defer func() { tenants.err = nil }()
		w := call(known.ID.String())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, decode(t, w).Error.Code)
	})
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	type destination struct {
		Country string `json:"country" binding:"omitempty,len=2"`
	}
	type request struct {
		WeightKg    float64     `json:"weight_kg" binding:"required,gt=0"`
		Destination destination `json:"destination"`
		Convention  string      `json:"output_convention" binding:"omitempty,oneof=included excluded"`
	}

	err := binding.Validator.ValidateStruct(&request{
		Destination: destination{Country: "ITA"},
		Convention:  "gross",
	})
	require.Error(t, err)

	details := ValidationDetails(err)
	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", byField["weight_kg"])
	assert.Equal(t, "Must be exactly 2 characters", byField["destination.country"])
	assert.Equal(t, "Must be one of: included excluded", byField["output_convention"])

	assert.Nil(t, ValidationDetails(errors.New("plain")))
}
