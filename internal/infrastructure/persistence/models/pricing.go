package models

import (
	"strings"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the tenant hierarchy. Only the
// fields the pricing engine reads are mapped.
type TenantModel struct {
	BaseModel
	Name                string     `gorm:"type:varchar(200);not null"`
	Depth               int        `gorm:"not null;default:0"`
	ParentID            *uuid.UUID `gorm:"type:uuid;index"`
	AssignedPriceListID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain TenantIdentity.
func (m *TenantModel) ToDomain() (*pricing.TenantIdentity, error) {
	if m.Depth < int(pricing.DepthPlatform) || m.Depth > int(pricing.DepthClient) {
		return nil, inconsistent("tenant %s has unsupported depth %d", m.ID, m.Depth)
	}
	if m.Depth > 0 && m.ParentID == nil {
		return nil, inconsistent("tenant %s at depth %d has no parent", m.ID, m.Depth)
	}
	return &pricing.TenantIdentity{
		ID:           m.ID,
		Depth:        pricing.TenantDepth(m.Depth),
		ParentID:     m.ParentID,
		DirectListID: m.AssignedPriceListID,
	}, nil
}

// PriceListModel is the persistence model for a price list header.
type PriceListModel struct {
	BaseModel
	Name                 string              `gorm:"type:varchar(200);not null"`
	OwnerID              *uuid.UUID          `gorm:"type:uuid;index"`
	ListType             string              `gorm:"type:varchar(20);not null;index"`
	Status               string              `gorm:"type:varchar(20);not null;default:'draft'"`
	VATMode              *string             `gorm:"column:vat_mode;type:varchar(20)"`
	VATRate              decimal.NullDecimal `gorm:"column:vat_rate;type:decimal(5,2)"`
	DefaultMarginType    *string             `gorm:"type:varchar(20)"`
	DefaultMarginPercent decimal.NullDecimal `gorm:"type:decimal(7,4)"`
	DefaultMarginFixed   decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	MasterListID         *uuid.UUID          `gorm:"type:uuid;index"`
	CarrierCode          string              `gorm:"type:varchar(50)"`
	ContractCode         string              `gorm:"type:varchar(100)"`
	ConfigID             string              `gorm:"type:varchar(100)"`
	Priority             int                 `gorm:"not null;default:0"`
	ValidFrom            *time.Time
	ValidUntil           *time.Time
}

// TableName returns the table name for GORM
func (PriceListModel) TableName() string {
	return "price_lists"
}

// ToDomain converts the persistence model to a domain PriceList. Unknown
// kinds or statuses mean the row cannot be trusted and are reported as
// inconsistent data.
func (m *PriceListModel) ToDomain(defaultTaxRate decimal.Decimal) (*pricing.PriceList, error) {
	kind, err := pricing.ParseListKind(m.ListType)
	if err != nil {
		return nil, inconsistent("price list %s: %s", m.ID, err.Error())
	}
	status, err := pricing.ParseListStatus(m.Status)
	if err != nil {
		return nil, inconsistent("price list %s: %s", m.ID, err.Error())
	}

	convention := pricing.TaxExclusive
	if m.VATMode != nil {
		convention = pricing.ParseTaxConvention(*m.VATMode)
	}
	rate := defaultTaxRate
	if m.VATRate.Valid && m.VATRate.Decimal.IsPositive() {
		rate = m.VATRate.Decimal
	}

	margin := pricing.DefaultMargin{
		Percent: decimalPtr(m.DefaultMarginPercent),
		Fixed:   decimalPtr(m.DefaultMarginFixed),
	}
	if m.DefaultMarginType != nil {
		switch t := pricing.MarginType(strings.ToLower(*m.DefaultMarginType)); t {
		case pricing.MarginPercent, pricing.MarginFixed, pricing.MarginNone:
			margin.Type = t
		case "":
		default:
			return nil, inconsistent("price list %s: unknown margin type %q", m.ID, *m.DefaultMarginType)
		}
	}

	if kind == pricing.KindCustom && m.MasterListID != nil && *m.MasterListID == m.ID {
		return nil, inconsistent("price list %s references itself as master", m.ID)
	}

	return &pricing.PriceList{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		OwnerID:       m.OwnerID,
		Kind:          kind,
		Status:        status,
		TaxConvention: convention,
		TaxRate:       rate,
		DefaultMargin: margin,
		MasterListID:  m.MasterListID,
		Carrier: pricing.CarrierContractRef{
			CarrierCode:  m.CarrierCode,
			ContractCode: m.ContractCode,
			ConfigID:     m.ConfigID,
		},
		Priority:   m.Priority,
		ValidFrom:  m.ValidFrom,
		ValidUntil: m.ValidUntil,
	}, nil
}

// FromDomain populates the persistence model from a domain PriceList.
func (m *PriceListModel) FromDomain(l *pricing.PriceList) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Name = l.Name
	m.OwnerID = l.OwnerID
	m.ListType = string(l.Kind)
	m.Status = string(l.Status)
	mode := string(l.TaxConvention.OrExclusive())
	m.VATMode = &mode
	if l.TaxRate.IsPositive() {
		m.VATRate = decimal.NewNullDecimal(l.TaxRate)
	} else {
		m.VATRate = decimal.NullDecimal{}
	}
	m.DefaultMarginType = nil
	if l.DefaultMargin.Type != "" {
		t := string(l.DefaultMargin.Type)
		m.DefaultMarginType = &t
	}
	m.DefaultMarginPercent = nullDecimal(l.DefaultMargin.Percent)
	m.DefaultMarginFixed = nullDecimal(l.DefaultMargin.Fixed)
	m.MasterListID = l.MasterListID
	m.CarrierCode = l.Carrier.CarrierCode
	m.ContractCode = l.Carrier.ContractCode
	m.ConfigID = l.Carrier.ConfigID
	m.Priority = l.Priority
	m.ValidFrom = l.ValidFrom
	m.ValidUntil = l.ValidUntil
}

// PriceListEntryModel is one rate row of a price list. The composite unique
// index rejects duplicate bands for the same zone and service.
type PriceListEntryModel struct {
	ID                      uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PriceListID             uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_entry_band,priority:1"`
	WeightFrom              decimal.Decimal     `gorm:"type:decimal(10,3);not null;uniqueIndex:idx_entry_band,priority:3"`
	WeightTo                decimal.Decimal     `gorm:"type:decimal(10,3);not null;uniqueIndex:idx_entry_band,priority:4"`
	ZoneCode                string              `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_entry_band,priority:2"`
	ProvinceCode            string              `gorm:"type:varchar(5);not null;default:''"`
	ZipFrom                 string              `gorm:"type:varchar(10);not null;default:''"`
	ZipTo                   string              `gorm:"type:varchar(10);not null;default:''"`
	ServiceType             string              `gorm:"type:varchar(20);not null;default:'standard';uniqueIndex:idx_entry_band,priority:5"`
	BasePrice               decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	FuelSurchargePercent    decimal.NullDecimal `gorm:"type:decimal(7,4)"`
	IslandSurcharge         decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	ZTLSurcharge            decimal.NullDecimal `gorm:"column:ztl_surcharge;type:decimal(12,2)"`
	CashOnDeliverySurcharge decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	InsuranceRatePercent    decimal.NullDecimal `gorm:"type:decimal(7,4)"`
	EstimatedDeliveryMin    int                 `gorm:"column:estimated_delivery_days_min;not null;default:0"`
	EstimatedDeliveryMax    int                 `gorm:"column:estimated_delivery_days_max;not null;default:0"`
	CreatedAt               time.Time           `gorm:"not null"`
	UpdatedAt               time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceListEntryModel) TableName() string {
	return "price_list_entries"
}

// ToDomain converts the row to a domain Entry and validates its shape.
func (m *PriceListEntryModel) ToDomain() (pricing.Entry, error) {
	e := pricing.Entry{
		ID:           m.ID,
		PriceListID:  m.PriceListID,
		WeightFrom:   m.WeightFrom,
		WeightTo:     m.WeightTo,
		ZoneCode:     m.ZoneCode,
		ProvinceCode: m.ProvinceCode,
		ZipFrom:      m.ZipFrom,
		ZipTo:        m.ZipTo,
		ServiceType:  pricing.ServiceType(m.ServiceType),
		BasePrice:    m.BasePrice,
		Surcharges: pricing.Surcharges{
			FuelPercent:      decimalPtr(m.FuelSurchargePercent),
			Island:           decimalPtr(m.IslandSurcharge),
			ZTL:              decimalPtr(m.ZTLSurcharge),
			CashOnDelivery:   decimalPtr(m.CashOnDeliverySurcharge),
			InsurancePercent: decimalPtr(m.InsuranceRatePercent),
		},
		Delivery: pricing.DeliveryEstimate{
			MinDays: m.EstimatedDeliveryMin,
			MaxDays: m.EstimatedDeliveryMax,
		},
	}
	if err := e.Validate(); err != nil {
		return pricing.Entry{}, shared.NewDomainError(shared.CodeInconsistentListData, err.Error())
	}
	return e, nil
}

// FromDomain populates the row from a domain Entry.
func (m *PriceListEntryModel) FromDomain(e pricing.Entry) {
	m.ID = e.ID
	m.PriceListID = e.PriceListID
	m.WeightFrom = e.WeightFrom
	m.WeightTo = e.WeightTo
	m.ZoneCode = e.ZoneCode
	m.ProvinceCode = e.ProvinceCode
	m.ZipFrom = e.ZipFrom
	m.ZipTo = e.ZipTo
	m.ServiceType = string(e.ServiceType)
	m.BasePrice = e.BasePrice
	m.FuelSurchargePercent = nullDecimal(e.Surcharges.FuelPercent)
	m.IslandSurcharge = nullDecimal(e.Surcharges.Island)
	m.ZTLSurcharge = nullDecimal(e.Surcharges.ZTL)
	m.CashOnDeliverySurcharge = nullDecimal(e.Surcharges.CashOnDelivery)
	m.InsuranceRatePercent = nullDecimal(e.Surcharges.InsurancePercent)
	m.EstimatedDeliveryMin = e.Delivery.MinDays
	m.EstimatedDeliveryMax = e.Delivery.MaxDays
}

// PriceListAssignmentModel links a price list to a tenant. Revocation is a
// soft delete through RevokedAt.
type PriceListAssignmentModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PriceListID uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedBy  *uuid.UUID `gorm:"type:uuid"`
	Notes       string     `gorm:"type:text"`
	AssignedAt  time.Time  `gorm:"not null"`
	RevokedAt   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (PriceListAssignmentModel) TableName() string {
	return "price_list_assignments"
}

// ToDomain converts the row to a domain Assignment.
func (m *PriceListAssignmentModel) ToDomain() pricing.Assignment {
	return pricing.Assignment{
		ID:          m.ID,
		PriceListID: m.PriceListID,
		TenantID:    m.TenantID,
		AssignedBy:  m.AssignedBy,
		Note:        m.Notes,
		AssignedAt:  m.AssignedAt,
		RevokedAt:   m.RevokedAt,
	}
}

// FromDomain populates the row from a domain Assignment.
func (m *PriceListAssignmentModel) FromDomain(a pricing.Assignment) {
	m.ID = a.ID
	m.PriceListID = a.PriceListID
	m.TenantID = a.TenantID
	m.AssignedBy = a.AssignedBy
	m.Notes = a.Note
	m.AssignedAt = a.AssignedAt
	m.RevokedAt = a.RevokedAt
}

// QuoteAuditModel stores one computed quote for later reconciliation.
type QuoteAuditModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PriceListID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryID        uuid.UUID `gorm:"type:uuid;not null"`
	CallerTenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	MatchedZone    string    `gorm:"type:varchar(50);not null;default:''"`
	FallbackUsed   bool      `gorm:"not null;default:false"`
	ComputedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (QuoteAuditModel) TableName() string {
	return "quote_audits"
}

// FromDomain populates the row from an audit record.
func (m *QuoteAuditModel) FromDomain(r pricing.AuditRecord) {
	m.ID = r.EventID
	m.PriceListID = r.PriceListID
	m.EntryID = r.EntryID
	m.CallerTenantID = r.CallerTenantID
	m.MatchedZone = r.MatchedZone
	m.FallbackUsed = r.FallbackUsed
	m.ComputedAt = r.Timestamp
}
