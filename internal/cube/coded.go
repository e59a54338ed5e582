package cube

import (
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/table"
	"github.com/roach88/qbcube/internal/vocab"
)

// labelLang is the language of every coded resource label.
const labelLang = "cs"

// CodedValue is one value on a dimension axis before it is written.
type CodedValue struct {
	Code  string
	Label string
}

// DistinctValues collects the coded values of one dimension from rows.
//
// Rows missing the code or label column are skipped. code maps a raw code
// cell to the identifier fragment; returning ok=false skips the row, and a
// non-nil error aborts. The first label seen for each identifier wins.
func DistinctValues(rows []table.Row, codeColumn, labelColumn string, code func(string) (string, bool, error)) ([]CodedValue, error) {
	var out []CodedValue
	seen := make(map[string]struct{})
	for _, r := range rows {
		if !r.Complete(codeColumn, labelColumn) {
			continue
		}
		id, ok, err := code(r[codeColumn])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, CodedValue{Code: id, Label: r[labelColumn]})
	}
	return out, nil
}

// verbatim uses the cell as the identifier.
func verbatim(s string) (string, bool, error) {
	return s, s != "", nil
}

// Coder writes coded resources for dimensions.
type Coder struct {
	g         *graph.Graph
	ns        vocab.Namespaces
	codeLists bool
}

// NewCoder creates a Coder. With codeLists set, every coded dimension gets a
// SKOS concept scheme and its values become members of it.
func NewCoder(g *graph.Graph, ns vocab.Namespaces, codeLists bool) *Coder {
	return &Coder{g: g, ns: ns, codeLists: codeLists}
}

// Resource returns the IRI of a coded value.
func (c *Coder) Resource(code string) rdf.IRI {
	return c.ns.Resource.Term(code)
}

// Scheme returns the IRI of a dimension's code list.
func (c *Coder) Scheme(dim Dimension) rdf.IRI {
	return c.ns.Resource.Term(dim.Name + "-codelist")
}

// Materialize writes one coded resource per value and returns how many
// resources were written. Values must already be distinct.
func (c *Coder) Materialize(dim Dimension, values []CodedValue) int {
	var scheme rdf.IRI
	if c.codeLists {
		scheme = c.Scheme(dim)
		c.g.Add(scheme, vocab.RDFType, vocab.SKOSConceptScheme)
		c.g.Set(dim.IRI, vocab.RDFSRange, vocab.SKOSConcept)
		c.g.Set(dim.IRI, vocab.QBCodeList, scheme)
	}

	n := 0
	for _, v := range values {
		res := c.Resource(v.Code)
		if c.g.Add(res, vocab.SKOSPrefLabel, rdf.NewLangString(v.Label, labelLang)) {
			n++
		}
		if c.codeLists {
			c.g.Add(res, vocab.RDFType, vocab.SKOSConcept)
			c.g.Add(res, vocab.SKOSInScheme, scheme)
		}
	}
	return n
}
