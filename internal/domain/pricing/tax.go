package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TaxNormalizer converts amounts between VAT conventions
type TaxNormalizer struct{}

// Normalize converts amount from one convention to another at ratePercent.
// Identical conventions return amount untouched; conversions are rounded to
// cents, half away from zero. An unset convention counts as Exclusive.
func (TaxNormalizer) Normalize(amount decimal.Decimal, from, to TaxConvention, ratePercent decimal.Decimal) decimal.Decimal {
	from, to = from.OrExclusive(), to.OrExclusive()
	if from == to {
		return amount
	}
	factor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	if from == TaxExclusive {
		return amount.Mul(factor).Round(2)
	}
	return amount.DivRound(factor, 8).Round(2)
}

// ToExclusive is shorthand for normalizing to the tax-exclusive base
func (n TaxNormalizer) ToExclusive(amount decimal.Decimal, from TaxConvention, ratePercent decimal.Decimal) decimal.Decimal {
	return n.Normalize(amount, from, TaxExclusive, ratePercent)
}

// VATOn returns the tax due on an exclusive amount
func (TaxNormalizer) VATOn(exclusive, ratePercent decimal.Decimal) decimal.Decimal {
	return exclusive.Mul(ratePercent).Div(hundred).Round(2)
}
