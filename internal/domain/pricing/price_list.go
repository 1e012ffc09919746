package pricing

import (
	"strings"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when a list carries no rate
var DefaultTaxRate = decimal.NewFromInt(22)

// ListKind is the closed set of price list kinds
type ListKind string

const (
	KindSupplier ListKind = "supplier"
	KindCustom   ListKind = "custom"
	KindMaster   ListKind = "master"
)

// ParseListKind validates a stored kind value
func ParseListKind(s string) (ListKind, error) {
	switch k := ListKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSupplier, KindCustom, KindMaster:
		return k, nil
	}
	return "", shared.NewValidationError("unknown price list kind %q", s)
}

// ListStatus is the lifecycle status of a price list
type ListStatus string

const (
	StatusDraft    ListStatus = "draft"
	StatusActive   ListStatus = "active"
	StatusArchived ListStatus = "archived"
)

// ParseListStatus validates a stored status value
func ParseListStatus(s string) (ListStatus, error) {
	switch st := ListStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusActive, StatusArchived:
		return st, nil
	}
	return "", shared.NewValidationError("unknown price list status %q", s)
}

// TaxConvention tells whether stored amounts already include VAT
type TaxConvention string

const (
	TaxInclusive TaxConvention = "included"
	TaxExclusive TaxConvention = "excluded"
)

// ParseTaxConvention maps a stored value to a convention.
// Missing or legacy values are Exclusive.
func ParseTaxConvention(s string) TaxConvention {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "included", "inclusive", "incl":
		return TaxInclusive
	default:
		return TaxExclusive
	}
}

// OrExclusive resolves the zero value to Exclusive
func (c TaxConvention) OrExclusive() TaxConvention {
	if c == TaxInclusive {
		return TaxInclusive
	}
	return TaxExclusive
}

// MarginType selects how a list default margin is applied
type MarginType string

const (
	MarginPercent MarginType = "percent"
	MarginFixed   MarginType = "fixed"
	MarginNone    MarginType = "none"
)

// DefaultMargin is the margin a list applies when no supplier figure is available
type DefaultMargin struct {
	Type    MarginType
	Percent *decimal.Decimal
	Fixed   *decimal.Decimal
}

// Configured reports whether any margin value is set
func (m DefaultMargin) Configured() bool {
	return m.Type == MarginNone || m.Percent != nil || m.Fixed != nil
}

// Apply returns the margin on an exclusive base.
// Percent and fixed add up when both are set and no type restricts them.
func (m DefaultMargin) Apply(base decimal.Decimal) decimal.Decimal {
	margin := decimal.Zero
	if m.Type == MarginNone {
		return margin
	}
	if m.Percent != nil && m.Type != MarginFixed {
		margin = margin.Add(base.Mul(*m.Percent).Div(hundred))
	}
	if m.Fixed != nil && m.Type != MarginPercent {
		margin = margin.Add(*m.Fixed)
	}
	return margin.Round(2)
}

// CarrierContractRef correlates a list to an external carrier contract
type CarrierContractRef struct {
	CarrierCode  string `json:"carrier_code,omitempty"`
	ContractCode string `json:"contract_code,omitempty"`
	ConfigID     string `json:"config_id,omitempty"`
}

// IsZero reports whether no carrier reference is set
func (r CarrierContractRef) IsZero() bool {
	return r.CarrierCode == "" && r.ContractCode == ""
}

// Matches reports whether the list ref serves the requested ref.
// An empty request matches every list.
func (r CarrierContractRef) Matches(requested CarrierContractRef) bool {
	if requested.IsZero() {
		return true
	}
	if requested.ContractCode != "" {
		if codeMatches(r.ContractCode, requested.ContractCode) {
			return true
		}
		// a contract code is often the carrier code plus a suffix
		if codeMatches(r.CarrierCode, requested.ContractCode) {
			return true
		}
	}
	if requested.CarrierCode != "" {
		return codeMatches(r.CarrierCode, requested.CarrierCode) ||
			codeMatches(r.ContractCode, requested.CarrierCode)
	}
	return false
}

func codeMatches(have, want string) bool {
	have = strings.ToLower(strings.TrimSpace(have))
	want = strings.ToLower(strings.TrimSpace(want))
	if have == "" || want == "" {
		return false
	}
	if have == want {
		return true
	}
	return strings.HasPrefix(have, want+"-") || strings.HasPrefix(want, have+"-")
}

// PriceList is a validated price list header
type PriceList struct {
	shared.BaseEntity
	Name          string
	OwnerID       *uuid.UUID
	Kind          ListKind
	Status        ListStatus
	TaxConvention TaxConvention
	TaxRate       decimal.Decimal
	DefaultMargin DefaultMargin
	MasterListID  *uuid.UUID
	Carrier       CarrierContractRef
	Priority      int
	ValidFrom     *time.Time
	ValidUntil    *time.Time
}

// IsGlobal reports whether the list has no owner
func (l *PriceList) IsGlobal() bool {
	return l.OwnerID == nil
}

// IsOwnedBy reports whether the tenant owns the list
func (l *PriceList) IsOwnedBy(tenantID uuid.UUID) bool {
	return l.OwnerID != nil && *l.OwnerID == tenantID
}

// EffectiveTaxRate returns the list rate, defaulting to 22%
func (l *PriceList) EffectiveTaxRate() decimal.Decimal {
	if l.TaxRate.IsPositive() {
		return l.TaxRate
	}
	return DefaultTaxRate
}

// IsUsableAt reports whether the list is active inside its validity window
func (l *PriceList) IsUsableAt(now time.Time) bool {
	if l.Status != StatusActive {
		return false
	}
	if l.ValidFrom != nil && now.Before(*l.ValidFrom) {
		return false
	}
	if l.ValidUntil != nil && now.After(*l.ValidUntil) {
		return false
	}
	return true
}

// IsQuotable reports whether the list kind may be quoted against directly
func (l *PriceList) IsQuotable() bool {
	return l.Kind == KindCustom || l.Kind == KindMaster
}

// PriceListSnapshot is a header together with its entry set
type PriceListSnapshot struct {
	List    *PriceList
	Entries []Entry
}

// PriceListFilter narrows ListPriceLists results
type PriceListFilter struct {
	OwnerID    *uuid.UUID
	IDs        []uuid.UUID
	OnlyGlobal bool
	Kinds      []ListKind
	Status     ListStatus
}
