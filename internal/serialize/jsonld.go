package serialize

import (
	"encoding/json"
	"io"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

// jsonldDocument is a flattened JSON-LD document.
type jsonldDocument struct {
	Context map[string]string `json:"@context,omitempty"`
	Graph   []map[string]any  `json:"@graph"`
}

// WriteJSONLD writes g as flattened JSON-LD with the used prefixes in the
// context. Nodes appear in subject order; keys are sorted by the encoder.
func WriteJSONLD(w io.Writer, g *graph.Graph, prefixes []vocab.Prefix) error {
	a := newAbbreviator(prefixes)
	id := func(r rdf.Term) string {
		switch v := r.(type) {
		case rdf.IRI:
			return compactIRI(a, v)
		case rdf.Blank:
			return v.String()
		}
		return ""
	}

	doc := jsonldDocument{Graph: make([]map[string]any, 0)}
	for _, blk := range blocks(g) {
		node := map[string]any{"@id": id(blk.subject)}
		for _, po := range blk.preds {
			if po.predicate == vocab.RDFType {
				var types []string
				for _, o := range po.objects {
					types = append(types, id(o))
				}
				node["@type"] = types
				continue
			}
			var vals []map[string]string
			for _, o := range po.objects {
				vals = append(vals, jsonldValue(a, o, id))
			}
			node[compactIRI(a, po.predicate)] = vals
		}
		doc.Graph = append(doc.Graph, node)
	}

	ctx := make(map[string]string)
	for _, p := range prefixes {
		if a.used[p.Name] {
			ctx[p.Name] = string(p.Namespace)
		}
	}
	if len(ctx) > 0 {
		doc.Context = ctx
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// compactIRI returns prefix:local or the bare IRI.
func compactIRI(a *abbreviator, iri rdf.IRI) string {
	s := a.iri(iri)
	if len(s) > 1 && s[0] == '<' {
		return string(iri)
	}
	return s
}

func jsonldValue(a *abbreviator, o rdf.Term, id func(rdf.Term) string) map[string]string {
	lit, ok := o.(rdf.Literal)
	if !ok {
		return map[string]string{"@id": id(o)}
	}
	v := map[string]string{"@value": lit.Lexical}
	switch {
	case lit.Lang != "":
		v["@language"] = lit.Lang
	case lit.Datatype != "" && lit.Datatype != rdf.XSDString:
		v["@type"] = compactIRI(a, lit.Datatype)
	}
	return v
}
