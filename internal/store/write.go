package store

import (
	"context"
	"fmt"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/querysql"
)

// SaveGraph stores g under name, replacing any earlier version. The graph
// row, its statements and the fingerprint are written in one transaction.
//
// runID links the saved graph to the build run that produced it and may be
// empty.
func (s *Store) SaveGraph(ctx context.Context, name, runID string, g *graph.Graph) (err error) {
	if name == "" {
		return fmt.Errorf("save graph: empty name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save graph %s: begin: %w", name, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// Deleting the graph row cascades to its statements.
	if _, err = tx.ExecContext(ctx, `DELETE FROM graphs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("save graph %s: clear: %w", name, err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO graphs (name, fingerprint, statement_count, run_id)
		VALUES (?, ?, ?, ?)
	`, name, g.Fingerprint(), g.Len(), runID); err != nil {
		return fmt.Errorf("save graph %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statements
		(graph, seq, subject_kind, subject, predicate, object_kind, object, datatype, lang)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save graph %s: prepare: %w", name, err)
	}
	defer stmt.Close()

	for i, st := range g.Statements() {
		subj := querysql.Encode(st.Subject)
		obj := querysql.Encode(st.Object)
		if _, err = stmt.ExecContext(ctx,
			name,
			i+1,
			subj.Kind,
			subj.Value,
			string(st.Predicate),
			obj.Kind,
			obj.Value,
			obj.Datatype,
			obj.Lang,
		); err != nil {
			return fmt.Errorf("save graph %s: statement %d: %w", name, i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save graph %s: commit: %w", name, err)
	}
	return nil
}

// DeleteGraph removes a named graph. Deleting a missing graph returns
// ErrGraphNotFound.
func (s *Store) DeleteGraph(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete graph %s: %w", name, ErrGraphNotFound)
	}
	return nil
}
