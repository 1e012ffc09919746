package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ShipmentOptions are the optional services requested with a shipment
type ShipmentOptions struct {
	CashOnDelivery bool             `json:"cash_on_delivery"`
	Insurance      bool             `json:"insurance"`
	DeclaredValue  *decimal.Decimal `json:"declared_value,omitempty"`
}

// SelectionRequest is what an entry set is matched against
type SelectionRequest struct {
	Weight       decimal.Decimal
	Destination  Destination
	ServiceType  ServiceType
	Zone         string
	ZoneResolved bool
	Options      ShipmentOptions
}

// EntrySelector picks the most specific entry matching a request
type EntrySelector struct{}

// Select returns the winning entry, or false when nothing matches.
// Candidates are ordered by narrowest weight band, then by specificity;
// remaining ties keep storage order.
func (EntrySelector) Select(entries []Entry, req SelectionRequest) (Entry, bool) {
	candidates := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matches(&e, req) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		wi, wj := candidates[i].BandWidth(), candidates[j].BandWidth()
		if !wi.Equal(wj) {
			return wi.LessThan(wj)
		}
		return candidates[i].Specificity() > candidates[j].Specificity()
	})
	return candidates[0], true
}

func matches(e *Entry, req SelectionRequest) bool {
	if !e.CoversWeight(req.Weight) {
		return false
	}
	if e.ServiceType != req.ServiceType {
		return false
	}
	if e.HasZipRange() && !e.CoversZip(req.Destination.Zip) {
		return false
	}
	if e.HasZone() && e.ZoneCode != req.Zone {
		if req.ZoneResolved || e.ZoneCode != DefaultZone {
			return false
		}
	}
	if e.HasProvince() && !strings.EqualFold(e.ProvinceCode, strings.TrimSpace(req.Destination.Province)) {
		return false
	}
	return true
}
