package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListKind(t *testing.T) {
	kind, err := ParseListKind(" Custom ")
	require.NoError(t, err)
	assert.Equal(t, KindCustom, kind)

	_, err = ParseListKind("wholesale")
	assert.Error(t, err)
}

func TestParseTaxConvention(t *testing.T) {
	assert.Equal(t, TaxInclusive, ParseTaxConvention("included"))
	assert.Equal(t, TaxExclusive, ParseTaxConvention("excluded"))
	assert.Equal(t, TaxExclusive, ParseTaxConvention(""))
	assert.Equal(t, TaxExclusive, ParseTaxConvention("legacy"))
}

func TestPriceList_IsUsableAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := newList(KindCustom, nil)
	assert.True(t, list.IsUsableAt(now))

	future := now.Add(24 * time.Hour)
	list.ValidFrom = &future
	assert.False(t, list.IsUsableAt(now))

	past := now.Add(-24 * time.Hour)
	list.ValidFrom = nil
	list.ValidUntil = &past
	assert.False(t, list.IsUsableAt(now))

	list.ValidUntil = nil
	list.Status = StatusDraft
	assert.False(t, list.IsUsableAt(now))
}

func TestPriceList_EffectiveTaxRate(t *testing.T) {
	list := newList(KindCustom, nil)
	list.TaxRate = dec("0")
	assert.True(t, list.EffectiveTaxRate().Equal(dec("22")))
	list.TaxRate = dec("10")
	assert.True(t, list.EffectiveTaxRate().Equal(dec("10")))
}

func TestCarrierContractRef_Matches(t *testing.T) {
	ref := CarrierContractRef{CarrierCode: "gls", ContractCode: "gls-5000", ConfigID: "cfg-1"}

	tests := []struct {
		name      string
		requested CarrierContractRef
		want      bool
	}{
		{"empty request matches", CarrierContractRef{}, true},
		{"exact contract", CarrierContractRef{ContractCode: "GLS-5000"}, true},
		{"contract prefixed by carrier", CarrierContractRef{ContractCode: "gls-europe"}, true},
		{"carrier code", CarrierContractRef{CarrierCode: "gls"}, true},
		{"other carrier", CarrierContractRef{CarrierCode: "brt"}, false},
		{"other contract", CarrierContractRef{ContractCode: "brt-1"}, false},
		{"bare prefix is not a match", CarrierContractRef{CarrierCode: "gl"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ref.Matches(tt.requested))
		})
	}
}
