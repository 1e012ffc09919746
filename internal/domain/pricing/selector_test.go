package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrySelector_NarrowestBandWins(t *testing.T) {
	wide := newEntry("0", "100", "30")
	narrow := newEntry("0", "2", "8")

	for name, entries := range map[string][]Entry{
		"wide first":   {wide, narrow},
		"narrow first": {narrow, wide},
	} {
		t.Run(name, func(t *testing.T) {
			got, ok := EntrySelector{}.Select(entries, standardRequest("1.5"))
			require.True(t, ok)
			assert.Equal(t, narrow.ID, got.ID)
		})
	}
}

func TestEntrySelector_SpecificityBreaksBandTies(t *testing.T) {
	generic := newEntry("0", "5", "10")
	byProvince := newEntry("0", "5", "12")
	byProvince.ProvinceCode = "MI"
	byZoneAndZip := newEntry("0", "5", "11")
	byZoneAndZip.ZoneCode = DefaultZone
	byZoneAndZip.ZipFrom, byZoneAndZip.ZipTo = "20100", "20199"

	got, ok := EntrySelector{}.Select([]Entry{generic, byProvince, byZoneAndZip}, standardRequest("3"))
	require.True(t, ok)
	assert.Equal(t, byZoneAndZip.ID, got.ID)
}

func TestEntrySelector_Deterministic(t *testing.T) {
	entries := []Entry{newEntry("0", "10", "9"), newEntry("0", "5", "7"), newEntry("2", "5", "6"), newEntry("0", "5", "8")}
	first, ok := EntrySelector{}.Select(entries, standardRequest("3"))
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		got, ok := EntrySelector{}.Select(entries, standardRequest("3"))
		require.True(t, ok)
		assert.Equal(t, first.ID, got.ID)
	}
	assert.Equal(t, entries[2].ID, first.ID)
}

func TestEntrySelector_Predicate(t *testing.T) {
	t.Run("weight outside every band", func(t *testing.T) {
		_, ok := EntrySelector{}.Select([]Entry{newEntry("1", "100", "10")}, standardRequest("0.5"))
		assert.False(t, ok)
	})

	t.Run("band bounds are inclusive", func(t *testing.T) {
		e := newEntry("1", "3", "10")
		_, ok := EntrySelector{}.Select([]Entry{e}, standardRequest("1"))
		assert.True(t, ok)
		_, ok = EntrySelector{}.Select([]Entry{e}, standardRequest("3"))
		assert.True(t, ok)
	})

	t.Run("service type must match exactly", func(t *testing.T) {
		e := newEntry("0", "10", "10")
		e.ServiceType = ServiceExpress
		_, ok := EntrySelector{}.Select([]Entry{e}, standardRequest("2"))
		assert.False(t, ok)
	})

	t.Run("zip outside range", func(t *testing.T) {
		e := newEntry("0", "10", "10")
		e.ZipFrom, e.ZipTo = "00100", "00199"
		_, ok := EntrySelector{}.Select([]Entry{e}, standardRequest("2"))
		assert.False(t, ok)
	})

	t.Run("province mismatch", func(t *testing.T) {
		e := newEntry("0", "10", "10")
		e.ProvinceCode = "RM"
		_, ok := EntrySelector{}.Select([]Entry{e}, standardRequest("2"))
		assert.False(t, ok)
	})

	t.Run("zone must equal the resolved zone", func(t *testing.T) {
		sicily := newEntry("0", "10", "15")
		sicily.ZoneCode = ZoneSicily
		mainland := newEntry("0", "10", "9")
		mainland.ZoneCode = DefaultZone

		req := standardRequest("2")
		req.Destination.Province = "PA"
		req.Zone, req.ZoneResolved = ZoneSicily, true

		got, ok := EntrySelector{}.Select([]Entry{mainland, sicily}, req)
		require.True(t, ok)
		assert.Equal(t, sicily.ID, got.ID)
	})

	t.Run("default zone entry serves unresolved destinations", func(t *testing.T) {
		mainland := newEntry("0", "10", "9")
		mainland.ZoneCode = DefaultZone
		sicily := newEntry("0", "10", "15")
		sicily.ZoneCode = ZoneSicily

		got, ok := EntrySelector{}.Select([]Entry{sicily, mainland}, standardRequest("2"))
		require.True(t, ok)
		assert.Equal(t, mainland.ID, got.ID)
	})

	t.Run("empty entry set", func(t *testing.T) {
		_, ok := EntrySelector{}.Select(nil, standardRequest("2"))
		assert.False(t, ok)
	})
}

func TestEntry_SurchargeTotal(t *testing.T) {
	e := newEntry("0", "10", "10")
	e.Surcharges = Surcharges{
		FuelPercent:      decPtr("10"),
		Island:           decPtr("2.50"),
		ZTL:              decPtr("1"),
		CashOnDelivery:   decPtr("3"),
		InsurancePercent: decPtr("1.5"),
	}

	t.Run("unconditional add-ons only", func(t *testing.T) {
		assert.Equal(t, "4.50", e.SurchargeTotal(ShipmentOptions{}).StringFixed(2))
	})

	t.Run("with cash on delivery and insurance", func(t *testing.T) {
		opts := ShipmentOptions{CashOnDelivery: true, Insurance: true, DeclaredValue: decPtr("200")}
		assert.Equal(t, "10.50", e.SurchargeTotal(opts).StringFixed(2))
	})

	t.Run("insurance without declared value adds nothing", func(t *testing.T) {
		assert.Equal(t, "4.50", e.SurchargeTotal(ShipmentOptions{Insurance: true}).StringFixed(2))
	})
}

func TestEntry_Validate(t *testing.T) {
	e := newEntry("5", "5", "10")
	assert.Error(t, e.Validate())

	e = newEntry("0", "5", "10")
	e.ZipFrom = "20100"
	assert.Error(t, e.Validate())

	e = newEntry("0", "5", "10")
	assert.NoError(t, e.Validate())
}
