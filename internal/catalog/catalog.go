// Package catalog carries transponder frequencies for common amateur
// radio satellites, used to pick Doppler-corrected tuning frequencies
// when the station config does not override them.
package catalog

import "strings"

// Transponder describes one satellite's primary voice transponder.
type Transponder struct {
	Name        string
	CatalogNum  int
	DownlinkMHz float64
	UplinkMHz   float64
	Mode        string
}

var transponders = []Transponder{
	{Name: "ISS", CatalogNum: 25544, DownlinkMHz: 145.800, UplinkMHz: 145.200, Mode: "FM voice"},
	{Name: "SO-50", CatalogNum: 27607, DownlinkMHz: 436.795, UplinkMHz: 145.850, Mode: "FM"},
	{Name: "AO-91", CatalogNum: 43017, DownlinkMHz: 145.960, UplinkMHz: 435.250, Mode: "FM"},
	{Name: "AO-7", CatalogNum: 7530, DownlinkMHz: 145.9775, UplinkMHz: 432.1505, Mode: "linear"},
	{Name: "RS-44", CatalogNum: 44909, DownlinkMHz: 435.640, UplinkMHz: 145.965, Mode: "linear"},
}

// ByCatalogNumber returns the transponder for a catalog number, or nil.
func ByCatalogNumber(num int) *Transponder {
	for i := range transponders {
		if transponders[i].CatalogNum == num {
			return &transponders[i]
		}
	}
	return nil
}

// ByName matches a satellite name against the catalog. Element set
// names often carry suffixes like "ISS (ZARYA)", so the match accepts
// a catalog name appearing as a prefix or word of the query.
func ByName(name string) *Transponder {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	for i := range transponders {
		cn := strings.ToUpper(transponders[i].Name)
		if name == cn || strings.HasPrefix(name, cn+" ") || strings.HasPrefix(name, cn+"(") {
			return &transponders[i]
		}
	}
	return nil
}

// All returns the full transponder table.
func All() []Transponder {
	out := make([]Transponder, len(transponders))
	copy(out, transponders)
	return out
}
