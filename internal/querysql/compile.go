// Package querysql turns queryir patterns into SQLite statements over the
// statements table, and maps terms to and from their stored columns.
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/qbcube/internal/queryir"
	"github.com/roach88/qbcube/internal/rdf"
)

// Columns is the select list of every compiled query, in scan order.
const Columns = "subject_kind, subject, predicate, object_kind, object, datatype, lang"

// Statement is a compiled query. Terms are always bound through Args,
// never spliced into SQL.
type Statement struct {
	SQL  string
	Args []any
}

// Compile compiles a Select. Rows come back in the order they were saved.
func Compile(q queryir.Query) (Statement, error) {
	var sel queryir.Select
	switch q := q.(type) {
	case queryir.Select:
		sel = q
	case *queryir.Select:
		sel = *q
	case nil:
		return Statement{}, errors.New("nil query")
	default:
		return Statement{}, fmt.Errorf("unsupported query type %T", q)
	}
	if sel.Graph == "" {
		return Statement{}, errors.New("select without a graph name")
	}

	w := where{conds: []string{"graph = ?"}, args: []any{sel.Graph}}
	if err := w.add(sel.Filter); err != nil {
		return Statement{}, fmt.Errorf("filter: %w", err)
	}
	return Statement{
		SQL:  "SELECT " + Columns + " FROM statements WHERE " + strings.Join(w.conds, " AND ") + " ORDER BY seq ASC",
		Args: w.args,
	}, nil
}

// where collects a conjunction of conditions with their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(p queryir.Predicate) error {
	switch p := p.(type) {
	case nil:
		return nil
	case queryir.Equals:
		return w.equals(p)
	case *queryir.Equals:
		return w.equals(*p)
	case queryir.And:
		for _, sub := range p.Predicates {
			if err := w.add(sub); err != nil {
				return err
			}
		}
		return nil
	case *queryir.And:
		return w.add(*p)
	default:
		return fmt.Errorf("unsupported predicate type %T", p)
	}
}

// equals compares kind and value; literal objects also compare datatype
// and language tag. Values compare byte for byte.
func (w *where) equals(eq queryir.Equals) error {
	if eq.Term == nil {
		return fmt.Errorf("%s compared to nil term", eq.Position)
	}
	col := Encode(eq.Term)
	switch eq.Position {
	case queryir.PositionSubject:
		w.conds = append(w.conds, "subject_kind = ?", "subject = ? COLLATE BINARY")
		w.args = append(w.args, col.Kind, col.Value)
	case queryir.PositionPredicate:
		if eq.Term.Kind() != rdf.KindIRI {
			return fmt.Errorf("predicate must be an IRI, got %s", eq.Term.Kind())
		}
		w.conds = append(w.conds, "predicate = ? COLLATE BINARY")
		w.args = append(w.args, col.Value)
	case queryir.PositionObject:
		w.conds = append(w.conds, "object_kind = ?", "object = ? COLLATE BINARY", "datatype = ?", "lang = ?")
		w.args = append(w.args, col.Kind, col.Value, col.Datatype, col.Lang)
	default:
		return fmt.Errorf("unsupported position %s", eq.Position)
	}
	return nil
}
