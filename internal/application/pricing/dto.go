package pricing

import (
	"strings"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Quote DTOs
// =============================================================================

// DestinationRequest is the delivery address of a quote request
type DestinationRequest struct {
	Zip      string `json:"zip" binding:"omitempty,max=10"`
	Province string `json:"province" binding:"omitempty,max=4"`
	Region   string `json:"region" binding:"omitempty,max=64"`
	Country  string `json:"country" binding:"omitempty,len=2"`
}

// OptionsRequest carries optional shipment services
type OptionsRequest struct {
	CashOnDelivery bool     `json:"cash_on_delivery"`
	Insurance      bool     `json:"insurance"`
	DeclaredValue  *float64 `json:"declared_value" binding:"omitempty,gte=0"`
}

// QuoteRequest represents a request to price a shipment
type QuoteRequest struct {
	WeightKg         float64            `json:"weight_kg" binding:"required,gt=0"`
	Destination      DestinationRequest `json:"destination"`
	ServiceType      string             `json:"service_type" binding:"omitempty,max=32"`
	Options          OptionsRequest     `json:"options"`
	PriceListID      *uuid.UUID         `json:"price_list_id"`
	CarrierCode      string             `json:"carrier_code" binding:"omitempty,max=64"`
	ContractCode     string             `json:"contract_code" binding:"omitempty,max=64"`
	OutputConvention string             `json:"output_convention" binding:"omitempty,oneof=included excluded"`
}

// CarrierRef returns the requested carrier contract reference
func (r QuoteRequest) CarrierRef() pricing.CarrierContractRef {
	return pricing.CarrierContractRef{CarrierCode: r.CarrierCode, ContractCode: r.ContractCode}
}

// selection validates the request and builds the selector input without a zone
func (r QuoteRequest) selection() (pricing.SelectionRequest, error) {
	if r.WeightKg <= 0 {
		return pricing.SelectionRequest{}, shared.NewValidationError("weight_kg must be greater than zero")
	}
	d := r.Destination
	if strings.TrimSpace(d.Zip) == "" && strings.TrimSpace(d.Province) == "" && strings.TrimSpace(d.Region) == "" {
		return pricing.SelectionRequest{}, shared.NewValidationError("destination requires a zip, province or region")
	}
	if r.Options.DeclaredValue != nil && *r.Options.DeclaredValue < 0 {
		return pricing.SelectionRequest{}, shared.NewValidationError("declared_value cannot be negative")
	}

	service := pricing.ServiceType(strings.ToLower(strings.TrimSpace(r.ServiceType)))
	if service == "" {
		service = pricing.ServiceStandard
	}
	country := strings.ToUpper(strings.TrimSpace(d.Country))
	if country == "" {
		country = "IT"
	}

	opts := pricing.ShipmentOptions{CashOnDelivery: r.Options.CashOnDelivery, Insurance: r.Options.Insurance}
	if r.Options.DeclaredValue != nil {
		v := decimal.NewFromFloat(*r.Options.DeclaredValue)
		opts.DeclaredValue = &v
	}
	return pricing.SelectionRequest{
		Weight: decimal.NewFromFloat(r.WeightKg),
		Destination: pricing.Destination{
			Zip:      strings.TrimSpace(d.Zip),
			Province: strings.ToUpper(strings.TrimSpace(d.Province)),
			Region:   strings.TrimSpace(d.Region),
			Country:  country,
		},
		ServiceType: service,
		Options:     opts,
	}, nil
}

// DiagnosticTrail records how a quote was produced, for audit collaborators
type DiagnosticTrail struct {
	PriceListID    uuid.UUID  `json:"price_list_id"`
	EntryID        uuid.UUID  `json:"entry_id"`
	CallerTenantID uuid.UUID  `json:"caller_tenant_id"`
	MatchedZone    string     `json:"matched_zone"`
	ZoneResolved   bool       `json:"zone_resolved"`
	BackingListID  *uuid.UUID `json:"backing_list_id,omitempty"`
	FallbackUsed   bool       `json:"fallback_used"`
	Evaluated      int        `json:"lists_evaluated"`
	Steps          []string   `json:"steps"`
}

// QuoteResult is the priced shipment. Amounts are in Convention.
// SupplierCost and Margin are omitted when the backing list is not visible
// to the caller.
type QuoteResult struct {
	PriceListID        uuid.UUID                `json:"price_list_id"`
	PriceListName      string                   `json:"price_list_name"`
	EntryID            uuid.UUID                `json:"entry_id"`
	ConfigID           string                   `json:"config_id,omitempty"`
	Convention         pricing.TaxConvention    `json:"convention"`
	TaxRate            decimal.Decimal          `json:"tax_rate"`
	BasePrice          decimal.Decimal          `json:"base_price"`
	Surcharges         decimal.Decimal          `json:"surcharges"`
	TotalPrice         decimal.Decimal          `json:"total_price"`
	TotalExclTax       decimal.Decimal          `json:"total_excl_tax"`
	VATAmount          decimal.Decimal          `json:"vat_amount"`
	TotalWithVAT       decimal.Decimal          `json:"total_with_vat"`
	SupplierCost       *decimal.Decimal         `json:"supplier_cost,omitempty"`
	SupplierOriginal   *decimal.Decimal         `json:"supplier_price_original,omitempty"`
	Margin             *decimal.Decimal         `json:"margin,omitempty"`
	MarginSource       pricing.MarginSource     `json:"margin_source,omitempty"`
	IsManuallyModified bool                     `json:"is_manually_modified"`
	Delivery           pricing.DeliveryEstimate `json:"delivery"`
	APISource          string                   `json:"api_source"`
	Diagnostics        DiagnosticTrail          `json:"diagnostics"`
	ComputedAt         time.Time                `json:"computed_at"`
}

// API sources of a quote
const (
	APISourcePlatform    = "platform"
	APISourceResellerOwn = "reseller_own"
)

// =============================================================================
// Price List Summary DTOs
// =============================================================================

// PriceListSummary is an accessible price list as shown to its tenant
type PriceListSummary struct {
	ID         uuid.UUID                  `json:"id"`
	Name       string                     `json:"name"`
	Kind       pricing.ListKind           `json:"kind"`
	Status     pricing.ListStatus         `json:"status"`
	CarrierRef pricing.CarrierContractRef `json:"carrier_ref"`
	Access     pricing.AccessReason       `json:"access,omitempty"`
}

// ToPriceListSummary converts a domain header to its summary
func ToPriceListSummary(l *pricing.PriceList, access pricing.AccessReason) PriceListSummary {
	return PriceListSummary{
		ID:         l.ID,
		Name:       l.Name,
		Kind:       l.Kind,
		Status:     l.Status,
		CarrierRef: l.Carrier,
		Access:     access,
	}
}
