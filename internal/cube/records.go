package cube

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/qbcube/internal/table"
)

// Source column names.
const (
	ColCounty      = "Okres"
	ColCountyCode  = "OkresCode"
	ColRegion      = "Kraj"
	ColRegionCode  = "KrajCode"
	ColFieldOfCare = "OborPece"

	ColIndicator     = "vuk"
	ColTerritoryList = "vuzemi_cis"
	ColTerritoryCode = "vuzemi_kod"
	ColValue         = "hodnota"

	ColEnumNUTS = "CHODNOTA1"
	ColEnumLAU  = "CHODNOTA2"
)

// Columns of the prepared county enum.
const (
	EnumLAU        = "LAU"
	EnumNUTS       = "NUTS"
	EnumCountyName = "CountyName"
	EnumRegionCode = "RegionCode"
	EnumRegionName = "RegionName"
)

// Population row selection: mean population (DEM0004) of counties
// (territory code list 101).
const (
	MeanPopulationIndicator = "DEM0004"
	CountyTerritoryList     = "101"
)

// Reasons a row is dropped.
const (
	DropIncomplete = "incomplete"
	DropInvalid    = "invalid"
	DropUnmatched  = "unmatched"
)

var areaCodePattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]*$`)

// recordValidate checks input records. Initialized in init() with the
// custom area-code rule.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = recordValidate.RegisterValidation("areacode", func(fl validator.FieldLevel) bool {
		return areaCodePattern.MatchString(fl.Field().String())
	})
}

// CareProviderRecord is one registry row.
type CareProviderRecord struct {
	County      string `validate:"required"`
	CountyCode  string `validate:"required,areacode"`
	Region      string `validate:"required"`
	RegionCode  string `validate:"required,areacode"`
	FieldOfCare string `validate:"required"`
}

func careProviderRecord(r table.Row) CareProviderRecord {
	return CareProviderRecord{
		County:      r[ColCounty],
		CountyCode:  r[ColCountyCode],
		Region:      r[ColRegion],
		RegionCode:  r[ColRegionCode],
		FieldOfCare: r[ColFieldOfCare],
	}
}

// Validate checks the record fields.
func (r CareProviderRecord) Validate() error {
	return recordValidate.Struct(r)
}

// PopulationRecord is one statistics row after indicator selection.
type PopulationRecord struct {
	Territory string `validate:"required"`
	Value     string `validate:"required,number"`
}

func populationRecord(r table.Row) PopulationRecord {
	return PopulationRecord{
		Territory: r[ColTerritoryCode],
		Value:     r[ColValue],
	}
}

// Validate checks the record fields.
func (r PopulationRecord) Validate() error {
	return recordValidate.Struct(r)
}

// CountyEnumRecord maps a LAU territory code to a NUTS county code.
type CountyEnumRecord struct {
	NUTS string `validate:"required,areacode"`
	LAU  string `validate:"required"`
}

func countyEnumRecord(r table.Row) CountyEnumRecord {
	return CountyEnumRecord{NUTS: r[ColEnumNUTS], LAU: r[ColEnumLAU]}
}

// Validate checks the record fields.
func (r CountyEnumRecord) Validate() error {
	return recordValidate.Struct(r)
}

// dropReason classifies a validation error. Missing values are
// "incomplete", anything else "invalid".
func dropReason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return DropIncomplete
			}
		}
	}
	return DropInvalid
}
