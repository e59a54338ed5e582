package cube

import (
	"github.com/roach88/qbcube/internal/identity"
	"github.com/roach88/qbcube/internal/table"
)

// ProviderCodeMap indexes the care-provider registry by county code:
// OkresCode -> (Okres, KrajCode, Kraj).
func ProviderCodeMap(providers *table.Table) *identity.CodeMap {
	return identity.BuildCodeMap(providers.Rows, ColCountyCode, ColCounty, ColRegionCode, ColRegion)
}

// PrepareCountyEnum joins the LAU -> NUTS county enum with the
// care-provider registry into a table with the columns LAU, NUTS,
// CountyName, RegionCode and RegionName.
//
// Duplicate and incomplete enum rows are dropped. Enum rows whose NUTS code
// has no registry entry are skipped.
func PrepareCountyEnum(enum, providers *table.Table) *table.Table {
	counties := ProviderCodeMap(providers)

	out := table.New([]string{EnumLAU, EnumNUTS, EnumCountyName, EnumRegionCode, EnumRegionName})
	for _, r := range enum.Distinct().Rows {
		rec := countyEnumRecord(r)
		if rec.Validate() != nil {
			continue
		}
		v, ok := counties.Lookup(rec.NUTS)
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, table.Row{
			EnumLAU:        rec.LAU,
			EnumNUTS:       rec.NUTS,
			EnumCountyName: v[0],
			EnumRegionCode: v[1],
			EnumRegionName: v[2],
		})
	}
	return out
}
