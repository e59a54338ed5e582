package cube

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/identity"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

// careProvidersIssued is the publication date of the care-provider cube.
var careProvidersIssued = time.Date(2023, time.March, 11, 0, 0, 0, 0, time.UTC)

// BuildCareProviders builds the care-provider count cube.
//
// Registry rows are grouped by county code, region code and canonical field
// of care; the measure is the number of rows in each group. Groups are
// numbered in ascending key order.
func BuildCareProviders(ctx context.Context, providers *table.Table, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("cube", string(CareProviders))
	if providers == nil {
		return nil, fmt.Errorf("care-provider cube: missing input table")
	}

	res := &Result{Kind: CareProviders, Graph: graph.New()}
	g := res.Graph

	schema := NewSchema(g, opts.Namespaces)
	dims := areaDimensions(schema, opts.CodeLists)
	rng := vocab.XSDAnyURI
	if opts.CodeLists {
		rng = vocab.SKOSConcept
	}
	dims = append(dims, schema.DeclareDimension(ComponentSpec{
		Name:          "field_of_care",
		Labels:        []Label{{"cs", "Obor péče"}, {"en", "Field of care"}},
		Range:         rng,
		SubPropertyOf: vocab.SDMXDimension.Term("coverageSector"),
		Concept:       vocab.SDMXConcept.Term("coverageSector"),
	}))
	measure := schema.DeclareMeasure(ComponentSpec{
		Name:          "number_of_care_providers",
		Labels:        []Label{{"cs", "Počet poskytovatelů péče"}, {"en", "Number of care providers"}},
		Range:         vocab.XSDInteger,
		SubPropertyOf: vocab.SDMXMeasure.Term("obsValue"),
	})
	structure := schema.BuildStructure(dims, []Measure{measure})
	dataset := schema.BuildDataset(structure, DatasetSpec{
		Titles:    []Label{{"en", "Care providers"}, {"cs", "Poskytovatelé zdravotních služeb"}},
		Issued:    careProvidersIssued,
		Derived:   opts.Now(),
		Publisher: opts.Publisher,
		License:   opts.License,
	})

	res.Stats.RowsRead = providers.Len()
	var valid []table.Row
	for i, r := range providers.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := careProviderRecord(r).Validate(); err != nil {
			res.Stats.drop(log, CareProviders, i, dropReason(err))
			continue
		}
		valid = append(valid, r)
	}

	resolver := identity.NewResolver(opts.StrictCanonical)
	field := func(label string) (string, bool, error) {
		id, err := resolver.Resolve(label)
		if err != nil {
			return "", false, fmt.Errorf("care-provider cube: field of care: %w", err)
		}
		return id, true, nil
	}

	coder := NewCoder(g, opts.Namespaces, opts.CodeLists)
	columns := [][2]string{
		{ColCountyCode, ColCounty},
		{ColRegionCode, ColRegion},
	}
	for i, c := range columns {
		values, err := DistinctValues(valid, c[0], c[1], verbatim)
		if err != nil {
			return nil, err
		}
		res.Stats.CodedResources += coder.Materialize(dims[i], values)
	}
	fields, err := DistinctValues(valid, ColFieldOfCare, ColFieldOfCare, field)
	if err != nil {
		return nil, err
	}
	res.Stats.CodedResources += coder.Materialize(dims[2], fields)

	keyed := make([]Keyed, 0, len(valid))
	for _, r := range valid {
		f, _, err := field(r[ColFieldOfCare])
		if err != nil {
			return nil, err
		}
		keyed = append(keyed, Keyed{
			Codes: []string{r[ColCountyCode], r[ColRegionCode], f},
			Order: []string{r[ColCountyCode], r[ColRegionCode], r[ColFieldOfCare]},
		})
	}

	facts, err := Aggregate(keyed, Count)
	if err != nil {
		return nil, err
	}
	n, err := EmitObservations(g, coder, dataset, dims, measure, facts)
	if err != nil {
		return nil, fmt.Errorf("care-provider cube: %w", err)
	}
	res.Stats.Observations = n

	if c := resolver.Collisions(); len(c) > 0 {
		log.Warn("field of care labels merged", "collisions", len(c), "first", c[0].Error())
	}
	log.Info("cube built",
		"rows", res.Stats.RowsRead,
		"dropped", res.Stats.DroppedTotal(),
		"observations", n,
		"statements", g.Len())
	return res, nil
}
