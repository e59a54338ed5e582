package cube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/identity"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

// PopulationInput holds the tables the population cube reads.
type PopulationInput struct {
	// Population is the statistics extract (vuk, vuzemi_cis, vuzemi_kod, hodnota).
	Population *table.Table
	// CountyEnum maps LAU territory codes to NUTS county codes.
	CountyEnum *table.Table
	// CareProviders supplies county and region names.
	CareProviders *table.Table
}

// populationIssued is the publication date of the population cube.
var populationIssued = time.Date(2023, time.March, 12, 0, 0, 0, 0, time.UTC)

// areaDimensions declares county and region.
func areaDimensions(s *Schema, codeLists bool) []Dimension {
	rng := vocab.XSDAnyURI
	if codeLists {
		rng = vocab.SKOSConcept
	}
	county := s.DeclareDimension(ComponentSpec{
		Name:          "county",
		Labels:        []Label{{"cs", "Okres"}, {"en", "County"}},
		Range:         rng,
		SubPropertyOf: vocab.SDMXDimension.Term("refArea"),
		Concept:       vocab.SDMXConcept.Term("refArea"),
	})
	region := s.DeclareDimension(ComponentSpec{
		Name:          "region",
		Labels:        []Label{{"cs", "Kraj"}, {"en", "Region"}},
		Range:         rng,
		SubPropertyOf: vocab.SDMXDimension.Term("refArea"),
		Concept:       vocab.SDMXConcept.Term("refArea"),
	})
	return []Dimension{county, region}
}

// BuildPopulation builds the county population cube.
//
// Statistics rows are kept when they report mean population for a county.
// Each retained row becomes one observation whose county and region come
// from the prepared county enum; rows whose territory code is not in the
// enum are dropped.
func BuildPopulation(ctx context.Context, in PopulationInput, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("cube", string(Population))
	if in.Population == nil || in.CountyEnum == nil || in.CareProviders == nil {
		return nil, fmt.Errorf("population cube: missing input table")
	}

	res := &Result{Kind: Population, Graph: graph.New()}
	g := res.Graph

	schema := NewSchema(g, opts.Namespaces)
	dims := areaDimensions(schema, opts.CodeLists)
	measure := schema.DeclareMeasure(ComponentSpec{
		Name:          "mean_population",
		Labels:        []Label{{"cs", "Střední stav obyvatel"}, {"en", "Mean population"}},
		Range:         vocab.XSDInteger,
		SubPropertyOf: vocab.SDMXMeasure.Term("obsValue"),
	})
	structure := schema.BuildStructure(dims, []Measure{measure})
	dataset := schema.BuildDataset(structure, DatasetSpec{
		Titles:    []Label{{"en", "Population 2021"}, {"cs", "Obyvatelé v okresech 2021"}},
		Issued:    populationIssued,
		Derived:   opts.Now(),
		Publisher: opts.Publisher,
		License:   opts.License,
	})

	enum := PrepareCountyEnum(in.CountyEnum, in.CareProviders)
	coder := NewCoder(g, opts.Namespaces, opts.CodeLists)
	counties, err := DistinctValues(enum.Rows, EnumNUTS, EnumCountyName, verbatim)
	if err != nil {
		return nil, err
	}
	regions, err := DistinctValues(enum.Rows, EnumRegionCode, EnumRegionName, verbatim)
	if err != nil {
		return nil, err
	}
	res.Stats.CodedResources = coder.Materialize(dims[0], counties) + coder.Materialize(dims[1], regions)

	byLAU := identity.BuildCodeMap(enum.Rows, EnumLAU, EnumNUTS, EnumRegionCode)

	res.Stats.RowsRead = in.Population.Len()
	var keyed []Keyed
	for i, r := range in.Population.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r[ColIndicator] != MeanPopulationIndicator || r[ColTerritoryList] != CountyTerritoryList {
			continue
		}
		rec := populationRecord(r)
		if err := rec.Validate(); err != nil {
			res.Stats.drop(log, Population, i, dropReason(err))
			continue
		}
		codes, ok := byLAU.Lookup(rec.Territory)
		if !ok {
			res.Stats.drop(log, Population, i, DropUnmatched)
			continue
		}
		value, err := strconv.ParseInt(rec.Value, 10, 64)
		if err != nil {
			res.Stats.drop(log, Population, i, DropInvalid)
			continue
		}
		keyed = append(keyed, Keyed{Codes: codes, Value: value})
	}

	facts, err := Aggregate(keyed, PassThrough)
	if err != nil {
		return nil, err
	}
	n, err := EmitObservations(g, coder, dataset, dims, measure, facts)
	if err != nil {
		return nil, fmt.Errorf("population cube: %w", err)
	}
	res.Stats.Observations = n

	log.Info("cube built",
		"rows", res.Stats.RowsRead,
		"dropped", res.Stats.DroppedTotal(),
		"observations", n,
		"statements", g.Len())
	return res, nil
}
