package pricing

import (
	"strings"

	"golang.org/x/text/cases"
)

// Zone codes known to the rate tables
const (
	ZoneItaly        = "IT-ITALIA"
	ZoneSardinia     = "IT-SARDEGNA"
	ZoneCalabria     = "IT-CALABRIA"
	ZoneSicily       = "IT-SICILIA"
	ZoneLivigno      = "IT-LIVIGNO"
	ZoneMinorIslands = "IT-ISOLE-MINORI"
	ZoneRemote       = "IT-DISAGIATE"
	ZoneEU1          = "EU-ZONA1"
	ZoneEU2          = "EU-ZONA2"
)

// DefaultZone is used when a destination cannot be resolved
const DefaultZone = ZoneItaly

var provinceZones = map[string]string{
	"CA": ZoneSardinia, "NU": ZoneSardinia, "OR": ZoneSardinia, "SS": ZoneSardinia,
	"RC": ZoneCalabria, "CZ": ZoneCalabria, "CS": ZoneCalabria, "KR": ZoneCalabria, "VV": ZoneCalabria,
	"PA": ZoneSicily, "CT": ZoneSicily, "ME": ZoneSicily, "AG": ZoneSicily, "CL": ZoneSicily,
	"EN": ZoneSicily, "RG": ZoneSicily, "SR": ZoneSicily, "TP": ZoneSicily,
	"SO": ZoneLivigno,
}

var regionZones = map[string]string{
	"sardegna": ZoneSardinia,
	"calabria": ZoneCalabria,
	"sicilia":  ZoneSicily,
}

// Destination is where a shipment is delivered
type Destination struct {
	Zip      string `json:"zip"`
	Province string `json:"province"`
	Region   string `json:"region"`
	Country  string `json:"country"`
}

// ZoneResolver maps a destination to a zone code using a static table
type ZoneResolver struct{}

// Resolve returns the zone and whether it came from the table.
// Unresolved destinations get DefaultZone and false.
func (ZoneResolver) Resolve(dest Destination) (string, bool) {
	if zone, ok := provinceZones[strings.ToUpper(strings.TrimSpace(dest.Province))]; ok {
		return zone, true
	}
	// a Caser is stateful, so one is built per call
	if zone, ok := regionZones[cases.Fold().String(strings.TrimSpace(dest.Region))]; ok {
		return zone, true
	}
	return DefaultZone, false
}
