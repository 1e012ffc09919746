package pricing

import "github.com/shopspring/decimal"

// MarginSource tells where a margin figure came from
type MarginSource string

const (
	MarginFromSupplier      MarginSource = "supplier_difference"
	MarginFromListDefault   MarginSource = "list_default"
	MarginFromLegacyDefault MarginSource = "legacy_default"
	MarginUnconfigured      MarginSource = "unconfigured"
)

// MarginPolicy holds the tunables of margin resolution
type MarginPolicy struct {
	// Tolerance above which custom and supplier figures count as manually modified
	Tolerance decimal.Decimal
	// StrictMargin disables the legacy default percent for unconfigured Custom lists
	StrictMargin bool
	// LegacyDefaultPercent applies to Custom lists with a master but no margin
	LegacyDefaultPercent decimal.Decimal
}

// DefaultMarginPolicy returns a one-cent tolerance in strict mode
func DefaultMarginPolicy() MarginPolicy {
	return MarginPolicy{
		Tolerance:    decimal.NewFromFloat(0.01),
		StrictMargin: true,
	}
}

// MarginInput pairs a tenant list with its optional backing list
type MarginInput struct {
	List    *PriceList
	Entries []Entry
	Backing *PriceListSnapshot
	Request SelectionRequest
}

// MarginOutcome carries every figure margin resolution produced.
// All amounts are tax-exclusive unless named otherwise.
type MarginOutcome struct {
	Entry              Entry
	BackingEntry       *Entry
	BaseExclTax        decimal.Decimal
	SurchargesExclTax  decimal.Decimal
	CustomExclTax      decimal.Decimal
	SupplierExclTax    *decimal.Decimal
	SupplierOriginal   *decimal.Decimal
	Margin             decimal.Decimal
	MarginSource       MarginSource
	SellExclTax        decimal.Decimal
	IsManuallyModified bool
}

// MarginResolver computes margin on the tax-exclusive base
type MarginResolver struct {
	normalizer TaxNormalizer
	selector   EntrySelector
	policy     MarginPolicy
}

// NewMarginResolver creates a resolver with the given policy. A zero
// tolerance flags any difference from the supplier figure.
func NewMarginResolver(policy MarginPolicy) *MarginResolver {
	return &MarginResolver{policy: policy}
}

// Resolve prices the request on in.List and derives the margin.
// It returns false when the tenant list has no matching entry.
func (r *MarginResolver) Resolve(in MarginInput) (MarginOutcome, bool) {
	entry, ok := r.selector.Select(in.Entries, in.Request)
	if !ok {
		return MarginOutcome{}, false
	}

	list := in.List
	rate := list.EffectiveTaxRate()
	surcharges := entry.SurchargeTotal(in.Request.Options)
	out := MarginOutcome{Entry: entry}
	out.BaseExclTax = r.normalizer.ToExclusive(entry.BasePrice, list.TaxConvention, rate)
	out.CustomExclTax = r.normalizer.ToExclusive(entry.BasePrice.Add(surcharges), list.TaxConvention, rate)
	out.SurchargesExclTax = out.CustomExclTax.Sub(out.BaseExclTax)

	if in.Backing != nil && in.Backing.List != nil {
		if backing, found := r.selector.Select(in.Backing.Entries, in.Request); found {
			bl := in.Backing.List
			original := backing.BasePrice.Add(backing.SurchargeTotal(in.Request.Options))
			supplier := r.normalizer.ToExclusive(original, bl.TaxConvention, bl.EffectiveTaxRate())
			out.BackingEntry = &backing
			out.SupplierOriginal = &original
			out.SupplierExclTax = &supplier
		}
	}

	if out.SupplierExclTax != nil {
		out.Margin = out.CustomExclTax.Sub(*out.SupplierExclTax)
		out.MarginSource = MarginFromSupplier
		out.SellExclTax = out.CustomExclTax
		out.IsManuallyModified = out.Margin.Abs().GreaterThan(r.policy.Tolerance)
		return out, true
	}

	switch {
	case list.DefaultMargin.Configured():
		out.Margin = list.DefaultMargin.Apply(out.CustomExclTax)
		out.MarginSource = MarginFromListDefault
	case list.Kind == KindCustom && list.MasterListID != nil && !r.policy.StrictMargin:
		out.Margin = out.CustomExclTax.Mul(r.policy.LegacyDefaultPercent).Div(hundred).Round(2)
		out.MarginSource = MarginFromLegacyDefault
	default:
		out.Margin = decimal.Zero
		out.MarginSource = MarginUnconfigured
	}
	out.SellExclTax = out.CustomExclTax.Add(out.Margin)
	return out, true
}
