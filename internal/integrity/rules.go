package integrity

import (
	"slices"
	"strings"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// IC-1: every observation has exactly one qb:dataSet.
func uniqueDataSet(g *graph.Graph) bool {
	for _, obs := range g.InstancesOf(vocab.QBObservation) {
		if len(g.Objects(obs, vocab.QBDataSetProp)) != 1 {
			return true
		}
	}
	return false
}

// IC-2: every dataset has exactly one structure, and no structure is shared
// between datasets.
func uniqueDSD(g *graph.Graph) bool {
	owner := make(map[rdf.Term]rdf.Term)
	for _, ds := range g.InstancesOf(vocab.QBDataSet) {
		dsds := g.Objects(ds, vocab.QBStructure)
		if len(dsds) != 1 {
			return true
		}
		if prev, ok := owner[dsds[0]]; ok && prev != ds {
			return true
		}
		owner[dsds[0]] = ds
	}
	return false
}

// IC-3
func dsdIncludesMeasure(g *graph.Graph) bool {
	s := newStructure(g)
	for _, dsd := range g.InstancesOf(vocab.QBDataStructureDefinition) {
		if !slices.ContainsFunc(s.properties(dsd), func(p rdf.Term) bool { return isMeasure(g, p) }) {
			return true
		}
	}
	return false
}

// IC-4
func dimensionsHaveRange(g *graph.Graph) bool {
	for _, dim := range dimensionProperties(g) {
		if !g.Has(dim, vocab.RDFSRange, nil) {
			return true
		}
	}
	return false
}

// IC-5
func conceptDimensionsHaveCodeLists(g *graph.Graph) bool {
	for _, dim := range dimensionProperties(g) {
		if g.Has(dim, vocab.RDFSRange, vocab.SKOSConcept) && !g.Has(dim, vocab.QBCodeList, nil) {
			return true
		}
	}
	return false
}

// IC-6: a component marked qb:componentRequired false must be an attribute.
func onlyAttributesOptional(g *graph.Graph) bool {
	for _, st := range g.Match(nil, vocab.QBComponentRequired, rdf.NewBoolean(false)) {
		if !g.Has(nil, vocab.QBComponent, st.Subject) {
			continue
		}
		for _, p := range linkedProperties(g, st.Subject) {
			if !isAttribute(g, p) {
				return true
			}
		}
	}
	return false
}

// IC-7: every slice key is attached to a structure definition.
func sliceKeysDeclared(g *graph.Graph) bool {
	for _, key := range g.InstancesOf(vocab.QBSliceKey) {
		declared := slices.ContainsFunc(g.Subjects(vocab.QBSliceKeyProp, key), func(dsd rdf.Resource) bool {
			return g.IsA(dsd, vocab.QBDataStructureDefinition)
		})
		if !declared {
			return true
		}
	}
	return false
}

// IC-8: slice key properties are components of the structure declaring the
// key.
func sliceKeysConsistent(g *graph.Graph) bool {
	s := newStructure(g)
	for _, key := range g.InstancesOf(vocab.QBSliceKey) {
		props := linkedProperties(g, key)
		for _, dsd := range g.Subjects(vocab.QBSliceKeyProp, key) {
			for _, p := range props {
				if !slices.Contains(s.properties(dsd), p) {
					return true
				}
			}
		}
	}
	return false
}

// IC-9
func uniqueSliceStructure(g *graph.Graph) bool {
	for _, slice := range g.InstancesOf(vocab.QBSlice) {
		if len(g.Objects(slice, vocab.QBSliceStructure)) != 1 {
			return true
		}
	}
	return false
}

// IC-10: a slice binds every dimension of its slice key.
func sliceDimensionsComplete(g *graph.Graph) bool {
	for _, st := range g.Match(nil, vocab.QBSliceStructure, nil) {
		for _, dim := range linkedProperties(g, st.Object) {
			if !hasValue(g, st.Subject, dim) {
				return true
			}
		}
	}
	return false
}

// IC-11
func allDimensionsRequired(g *graph.Graph) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		for _, dsd := range structuresOf(g, obs) {
			for _, dim := range s.dimensions(dsd) {
				if !g.Has(obs, dim, nil) {
					return true
				}
			}
		}
	}
	return false
}

// IC-12: two observations of one dataset are duplicates when they share at
// least one dimension and every value they have for the shared dimensions
// is equal.
func noDuplicateObservations(g *graph.Graph) bool {
	s := newStructure(g)
	seen := make(map[rdf.Term]bool)
	for _, st := range g.Match(nil, vocab.QBDataSetProp, nil) {
		ds := st.Object
		if seen[ds] {
			continue
		}
		seen[ds] = true

		members := g.Subjects(vocab.QBDataSetProp, ds)
		if len(members) < 2 {
			continue
		}
		var dims []rdf.IRI
		for _, dsd := range g.Objects(ds, vocab.QBStructure) {
			for _, d := range s.dimensions(dsd) {
				if !slices.Contains(dims, d) {
					dims = append(dims, d)
				}
			}
		}
		if len(dims) > 0 && duplicated(g, members, dims) {
			return true
		}
	}
	return false
}

// duplicated groups observations by their dimension key when every
// observation has exactly one value per dimension, and compares pairs
// otherwise.
func duplicated(g *graph.Graph, members []rdf.Resource, dims []rdf.IRI) bool {
	keys := make(map[string]struct{}, len(members))
	var b strings.Builder
	for _, obs := range members {
		b.Reset()
		for _, d := range dims {
			vs := g.Objects(obs, d)
			if len(vs) != 1 {
				return duplicatedPairwise(g, members, dims)
			}
			b.WriteString(vs[0].String())
			b.WriteByte(0)
		}
		k := b.String()
		if _, ok := keys[k]; ok {
			return true
		}
		keys[k] = struct{}{}
	}
	return false
}

func duplicatedPairwise(g *graph.Graph, members []rdf.Resource, dims []rdf.IRI) bool {
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if allEqual(g, members[i], members[j], dims) {
				return true
			}
		}
	}
	return false
}

// allEqual reports whether a and b share a dimension and agree on every
// value pair of the shared dimensions.
func allEqual(g *graph.Graph, a, b rdf.Resource, dims []rdf.IRI) bool {
	shared := false
	for _, d := range dims {
		for _, va := range g.Objects(a, d) {
			for _, vb := range g.Objects(b, d) {
				shared = true
				if va != vb {
					return false
				}
			}
		}
	}
	return shared
}

// IC-13: components marked qb:componentRequired true have a value on every
// observation.
func requiredAttributes(g *graph.Graph) bool {
	s := newStructure(g)
	required := rdf.NewBoolean(true)
	for _, obs := range observations(g) {
		for _, dsd := range structuresOf(g, obs) {
			for _, c := range s.componentsOf(dsd) {
				if g.Has(c.spec, vocab.QBComponentRequired, required) && !hasValue(g, obs, c.property) {
					return true
				}
			}
		}
	}
	return false
}

// IC-14: outside measure-dimension cubes every observation carries every
// measure.
func allMeasuresPresent(g *graph.Graph) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		for _, dsd := range structuresOf(g, obs) {
			if s.usesMeasureType(dsd) {
				continue
			}
			for _, m := range s.measures(dsd) {
				if !g.Has(obs, m, nil) {
					return true
				}
			}
		}
	}
	return false
}

// IC-15: in a measure-dimension cube the measure named by qb:measureType is
// present.
func measureDimensionConsistent(g *graph.Graph) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		selected := g.Objects(obs, vocab.QBMeasureType)
		if len(selected) == 0 {
			continue
		}
		for _, dsd := range structuresOf(g, obs) {
			if !s.usesMeasureType(dsd) {
				continue
			}
			for _, m := range selected {
				if !hasValue(g, obs, m) {
					return true
				}
			}
		}
	}
	return false
}

// IC-16: in a measure-dimension cube no measure other than the selected one
// is present.
func singleMeasure(g *graph.Graph) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		selected := g.Objects(obs, vocab.QBMeasureType)
		if len(selected) == 0 {
			continue
		}
		for _, dsd := range structuresOf(g, obs) {
			if !s.usesMeasureType(dsd) {
				continue
			}
			for _, m := range s.measures(dsd) {
				if !g.Has(obs, m, nil) {
					continue
				}
				for _, sel := range selected {
					if sel != rdf.Term(m) {
						return true
					}
				}
			}
		}
	}
	return false
}

// IC-17: at every point of a measure-dimension cube there is one observation
// per measure.
func allMeasuresInMeasureDimension(g *graph.Graph) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		if !g.Has(obs, vocab.QBMeasureType, nil) {
			continue
		}
		for _, dsd := range structuresOf(g, obs) {
			measures := len(s.measures(dsd))
			if measures == 0 {
				continue
			}
			var dims []rdf.IRI
			for _, d := range s.dimensions(dsd) {
				if d != vocab.QBMeasureType {
					dims = append(dims, d)
				}
			}
			count := 0
			for _, ds := range g.Objects(obs, vocab.QBDataSetProp) {
				for _, other := range g.Subjects(vocab.QBDataSetProp, ds) {
					if g.Has(other, vocab.QBMeasureType, nil) && !conflicting(g, obs, other, dims) {
						count++
					}
				}
			}
			if count != measures {
				return true
			}
		}
	}
	return false
}

// conflicting reports whether a and b have differing values on any of dims.
func conflicting(g *graph.Graph, a, b rdf.Resource, dims []rdf.IRI) bool {
	for _, d := range dims {
		for _, va := range g.Objects(a, d) {
			for _, vb := range g.Objects(b, d) {
				if va != vb {
					return true
				}
			}
		}
	}
	return false
}

// IC-18: observations listed in a slice of a dataset belong to that dataset.
func consistentDataSetLinks(g *graph.Graph) bool {
	for _, st := range g.Match(nil, vocab.QBSliceProp, nil) {
		for _, obs := range g.Objects(st.Object, vocab.QBObservationProp) {
			if !g.Has(obs, vocab.QBDataSetProp, st.Subject) {
				return true
			}
		}
	}
	return false
}

// codedValues calls bad for every (code list, value) pair where an
// observation uses value on a dimension whose code list is typed listClass.
// It stops at the first pair bad rejects.
func codedValues(g *graph.Graph, listClass rdf.IRI, bad func(list, value rdf.Term) bool) bool {
	s := newStructure(g)
	for _, obs := range observations(g) {
		for _, dsd := range structuresOf(g, obs) {
			for _, dim := range s.dimensions(dsd) {
				for _, list := range g.Objects(dim, vocab.QBCodeList) {
					if !g.IsA(list, listClass) {
						continue
					}
					for _, v := range g.Objects(obs, dim) {
						if bad(list, v) {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

// IC-19a
func codesFromConceptScheme(g *graph.Graph) bool {
	return codedValues(g, vocab.SKOSConceptScheme, func(list, v rdf.Term) bool {
		return !g.IsA(v, vocab.SKOSConcept) || !g.Has(v, vocab.SKOSInScheme, list)
	})
}

// IC-19b
func codesFromCollection(g *graph.Graph) bool {
	return codedValues(g, vocab.SKOSCollection, func(list, v rdf.Term) bool {
		if !g.IsA(v, vocab.SKOSConcept) {
			return true
		}
		return !slices.Contains(g.ClosurePlus(list, vocab.SKOSMember, graph.Forward), v)
	})
}

// IC-20: values of a hierarchical code list are reachable from a root
// through its parent-child property.
func codesFromHierarchy(g *graph.Graph) bool {
	return codedValues(g, vocab.QBHierarchicalCodeList, func(list, v rdf.Term) bool {
		for _, pcp := range g.Objects(list, vocab.QBParentChildProp) {
			p, ok := pcp.(rdf.IRI)
			if !ok {
				continue
			}
			if !inHierarchy(g, list, v, p, graph.Forward) {
				return true
			}
		}
		return false
	})
}

// IC-21: as IC-20 for a blank parent-child property declared as the
// owl:inverseOf another property.
func codesFromInverseHierarchy(g *graph.Graph) bool {
	return codedValues(g, vocab.QBHierarchicalCodeList, func(list, v rdf.Term) bool {
		for _, pcp := range g.Objects(list, vocab.QBParentChildProp) {
			if _, ok := pcp.(rdf.Blank); !ok {
				continue
			}
			for _, inv := range g.Objects(pcp, vocab.OWLInverseOf) {
				p, ok := inv.(rdf.IRI)
				if !ok {
					continue
				}
				if !inHierarchy(g, list, v, p, graph.Backward) {
					return true
				}
			}
		}
		return false
	})
}

// inHierarchy reports whether v lies on hierarchyRoot/p* from list.
func inHierarchy(g *graph.Graph, list, v rdf.Term, p rdf.IRI, dir graph.Direction) bool {
	for _, root := range g.Objects(list, vocab.QBHierarchyRoot) {
		if g.Reachable(root, v, p, dir) {
			return true
		}
	}
	return false
}
