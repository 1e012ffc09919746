package handler

import (
	"context"
	"net/http"

	pricingapp "github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/application/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/dto"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PricingService is what the pricing endpoints need from the application layer
type PricingService interface {
	Quote(ctx context.Context, caller pricing.TenantIdentity, req pricingapp.QuoteRequest) (*pricingapp.QuoteResult, error)
	ListAccessiblePriceLists(ctx context.Context, tenant pricing.TenantIdentity) ([]pricingapp.PriceListSummary, error)
}

// PricingHandler serves quotes and price list summaries
type PricingHandler struct {
	BaseHandler
	service PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(service PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// RegisterRoutes mounts the pricing endpoints under rg
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/pricing")
	g.POST("/quotes", h.Quote)
	g.GET("/price-lists", h.ListPriceLists)
}

// Quote godoc
//
//	POST /api/v1/pricing/quotes
func (h *PricingHandler) Quote(c *gin.Context) {
	caller, ok := middleware.GetTenantIdentity(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Tenant identification required")
		return
	}

	var req pricingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Quote(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListPriceLists godoc
//
//	GET /api/v1/pricing/price-lists
func (h *PricingHandler) ListPriceLists(c *gin.Context) {
	tenant, ok := middleware.GetTenantIdentity(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Tenant identification required")
		return
	}

	lists, err := h.service.ListAccessiblePriceLists(c.Request.Context(), tenant)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewListResponse(lists))
}
