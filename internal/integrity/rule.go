// Package integrity checks completed cube graphs against the well-formedness
// constraints of the RDF Data Cube vocabulary.
//
// Every rule is a pure function over a graph that returns true when the
// constraint is broken. A rule whose pattern finds no matching data is not
// violated, so a cube without slices or code lists passes the slice and
// code-list rules trivially.
//
// Before evaluation the structure definitions are read through
// qb:componentProperty and its sub-properties qb:dimension, qb:measure,
// qb:attribute and qb:measureDimension, so component specifications written
// with either form are recognised.
package integrity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/qbcube/internal/graph"
)

// ErrUnknownRule is returned by Select for an id that is not in the catalog.
var ErrUnknownRule = errors.New("unknown integrity rule")

// Concern groups rules by the property they protect.
type Concern string

const (
	ConcernReferential Concern = "referential-uniqueness"
	ConcernSchema      Concern = "schema-completeness"
	ConcernObservation Concern = "observation-completeness"
	ConcernDuplicates  Concern = "no-duplicate-observation"
	ConcernCodeLists   Concern = "code-list-conformance"
	ConcernSlices      Concern = "slice-consistency"
)

// Rule is one named integrity constraint.
type Rule struct {
	ID      string
	Name    string
	Concern Concern

	// Unreliable rules are left out of DefaultRules and only run when
	// selected explicitly.
	Unreliable bool

	// Check reports whether g violates the constraint.
	Check func(g *graph.Graph) bool
}

// Catalog returns every rule in evaluation order.
func Catalog() []Rule {
	return []Rule{
		{ID: "IC-1", Name: "Unique DataSet", Concern: ConcernReferential, Check: uniqueDataSet},
		{ID: "IC-2", Name: "Unique DSD", Concern: ConcernReferential, Check: uniqueDSD},
		{ID: "IC-3", Name: "DSD includes measure", Concern: ConcernSchema, Check: dsdIncludesMeasure},
		{ID: "IC-4", Name: "Dimensions have range", Concern: ConcernSchema, Check: dimensionsHaveRange},
		{ID: "IC-5", Name: "Concept dimensions have code lists", Concern: ConcernSchema, Check: conceptDimensionsHaveCodeLists},
		{ID: "IC-6", Name: "Only attributes may be optional", Concern: ConcernSchema, Check: onlyAttributesOptional},
		{ID: "IC-7", Name: "Slice Keys must be declared", Concern: ConcernSlices, Unreliable: true, Check: sliceKeysDeclared},
		{ID: "IC-8", Name: "Slice Keys consistent with DSD", Concern: ConcernSlices, Check: sliceKeysConsistent},
		{ID: "IC-9", Name: "Unique slice structure", Concern: ConcernSlices, Check: uniqueSliceStructure},
		{ID: "IC-10", Name: "Slice dimensions complete", Concern: ConcernSlices, Check: sliceDimensionsComplete},
		{ID: "IC-11", Name: "All dimensions required", Concern: ConcernObservation, Check: allDimensionsRequired},
		{ID: "IC-12", Name: "No duplicate observations", Concern: ConcernDuplicates, Check: noDuplicateObservations},
		{ID: "IC-13", Name: "Required attributes", Concern: ConcernObservation, Check: requiredAttributes},
		{ID: "IC-14", Name: "All measures present", Concern: ConcernObservation, Check: allMeasuresPresent},
		{ID: "IC-15", Name: "Measure dimension consistent", Concern: ConcernObservation, Check: measureDimensionConsistent},
		{ID: "IC-16", Name: "Single measure on measure dimension observation", Concern: ConcernObservation, Check: singleMeasure},
		{ID: "IC-17", Name: "All measures present in measures dimension cube", Concern: ConcernObservation, Check: allMeasuresInMeasureDimension},
		{ID: "IC-18", Name: "Consistent data set links", Concern: ConcernSlices, Check: consistentDataSetLinks},
		{ID: "IC-19a", Name: "Codes from code list 1", Concern: ConcernCodeLists, Check: codesFromConceptScheme},
		{ID: "IC-19b", Name: "Codes from code list 2", Concern: ConcernCodeLists, Check: codesFromCollection},
		{ID: "IC-20", Name: "Codes from hierarchy", Concern: ConcernCodeLists, Check: codesFromHierarchy},
		{ID: "IC-21", Name: "Codes from hierarchy (inverse)", Concern: ConcernCodeLists, Check: codesFromInverseHierarchy},
	}
}

// DefaultRules returns the catalog without the unreliable rules.
func DefaultRules() []Rule {
	var out []Rule
	for _, r := range Catalog() {
		if !r.Unreliable {
			out = append(out, r)
		}
	}
	return out
}

// Select returns the rules named by ids in catalog order. Ids are matched
// case-insensitively. With no ids it returns DefaultRules, or the whole
// catalog when includeUnreliable is set.
func Select(ids []string, includeUnreliable bool) ([]Rule, error) {
	if len(ids) == 0 {
		if includeUnreliable {
			return Catalog(), nil
		}
		return DefaultRules(), nil
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.ToUpper(strings.TrimSpace(id))] = true
	}

	var out []Rule
	for _, r := range Catalog() {
		if want[strings.ToUpper(r.ID)] {
			out = append(out, r)
			delete(want, strings.ToUpper(r.ID))
		}
	}
	if len(want) > 0 {
		unknown := slices.Sorted(maps.Keys(want))
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, strings.Join(unknown, ", "))
	}
	return out, nil
}
