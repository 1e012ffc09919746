package pricing

import (
	"strings"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType is the carrier service level an entry prices
type ServiceType string

const (
	ServiceStandard ServiceType = "standard"
	ServiceExpress  ServiceType = "express"
	ServiceEconomy  ServiceType = "economy"
)

// DeliveryEstimate is a day range promised by the carrier
type DeliveryEstimate struct {
	MinDays int `json:"min_days"`
	MaxDays int `json:"max_days"`
}

// Surcharges groups the optional add-ons of an entry
type Surcharges struct {
	FuelPercent      *decimal.Decimal
	Island           *decimal.Decimal
	ZTL              *decimal.Decimal
	CashOnDelivery   *decimal.Decimal
	InsurancePercent *decimal.Decimal
}

// Entry is one weight/zone/service rate row of a price list
type Entry struct {
	ID           uuid.UUID
	PriceListID  uuid.UUID
	WeightFrom   decimal.Decimal
	WeightTo     decimal.Decimal
	ZoneCode     string
	ProvinceCode string
	ZipFrom      string
	ZipTo        string
	ServiceType  ServiceType
	BasePrice    decimal.Decimal
	Surcharges   Surcharges
	Delivery     DeliveryEstimate
}

// Validate rejects entries that must never reach the selector
func (e *Entry) Validate() error {
	if !e.WeightFrom.LessThan(e.WeightTo) {
		return shared.NewValidationError("entry %s: weight_from %s must be below weight_to %s",
			e.ID, e.WeightFrom, e.WeightTo)
	}
	if e.WeightFrom.IsNegative() {
		return shared.NewValidationError("entry %s: negative weight_from", e.ID)
	}
	if e.BasePrice.IsNegative() {
		return shared.NewValidationError("entry %s: negative base price", e.ID)
	}
	if strings.TrimSpace(string(e.ServiceType)) == "" {
		return shared.NewValidationError("entry %s: missing service type", e.ID)
	}
	if (e.ZipFrom == "") != (e.ZipTo == "") {
		return shared.NewValidationError("entry %s: incomplete postal range", e.ID)
	}
	return nil
}

// HasZipRange reports whether the entry restricts postal codes
func (e *Entry) HasZipRange() bool {
	return e.ZipFrom != "" && e.ZipTo != ""
}

// HasZone reports whether the entry restricts the zone
func (e *Entry) HasZone() bool {
	return e.ZoneCode != ""
}

// HasProvince reports whether the entry restricts the province
func (e *Entry) HasProvince() bool {
	return e.ProvinceCode != ""
}

// BandWidth is the width of the weight band
func (e *Entry) BandWidth() decimal.Decimal {
	return e.WeightTo.Sub(e.WeightFrom)
}

// Specificity counts the optional restrictions the entry carries
func (e *Entry) Specificity() int {
	n := 0
	if e.HasZipRange() {
		n++
	}
	if e.HasZone() {
		n++
	}
	if e.HasProvince() {
		n++
	}
	return n
}

// CoversWeight reports whether weight lies in [from, to]
func (e *Entry) CoversWeight(weight decimal.Decimal) bool {
	return weight.GreaterThanOrEqual(e.WeightFrom) && weight.LessThanOrEqual(e.WeightTo)
}

// CoversZip reports whether zip lies inside the postal range.
// Codes of a different length than the range bounds never match.
func (e *Entry) CoversZip(zip string) bool {
	zip = strings.TrimSpace(zip)
	if len(zip) != len(e.ZipFrom) || len(zip) != len(e.ZipTo) {
		return false
	}
	return zip >= e.ZipFrom && zip <= e.ZipTo
}

// SurchargeTotal sums the add-ons that apply to the shipment options.
// Amounts are in the convention of the owning list.
func (e *Entry) SurchargeTotal(opts ShipmentOptions) decimal.Decimal {
	total := decimal.Zero
	s := e.Surcharges
	if s.FuelPercent != nil {
		total = total.Add(e.BasePrice.Mul(*s.FuelPercent).Div(hundred))
	}
	if s.Island != nil {
		total = total.Add(*s.Island)
	}
	if s.ZTL != nil {
		total = total.Add(*s.ZTL)
	}
	if opts.CashOnDelivery && s.CashOnDelivery != nil {
		total = total.Add(*s.CashOnDelivery)
	}
	if opts.Insurance && opts.DeclaredValue != nil && opts.DeclaredValue.IsPositive() && s.InsurancePercent != nil {
		total = total.Add(opts.DeclaredValue.Mul(*s.InsurancePercent).Div(hundred))
	}
	return total.Round(2)
}
