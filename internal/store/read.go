package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/queryir"
	"github.com/roach88/qbcube/internal/querysql"
	"github.com/roach88/qbcube/internal/rdf"
)

// GraphInfo describes a saved graph.
type GraphInfo struct {
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	Statements  int    `json:"statements"`
	RunID       string `json:"run_id,omitempty"`
}

// Graphs lists saved graphs ordered by name.
//
// Returns an empty slice (not nil) when nothing has been saved.
func (s *Store) Graphs(ctx context.Context) ([]GraphInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, fingerprint, statement_count, run_id
		FROM graphs
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query graphs: %w", err)
	}
	defer rows.Close()

	infos := []GraphInfo{}
	for rows.Next() {
		var info GraphInfo
		if err := rows.Scan(&info.Name, &info.Fingerprint, &info.Statements, &info.RunID); err != nil {
			return nil, fmt.Errorf("scan graph: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graphs: %w", err)
	}
	return infos, nil
}

// GraphInfo returns the metadata of one saved graph.
func (s *Store) GraphInfo(ctx context.Context, name string) (GraphInfo, error) {
	info := GraphInfo{Name: name}
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, statement_count, run_id FROM graphs WHERE name = ?
	`, name).Scan(&info.Fingerprint, &info.Statements, &info.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		return GraphInfo{}, fmt.Errorf("graph %s: %w", name, ErrGraphNotFound)
	}
	if err != nil {
		return GraphInfo{}, fmt.Errorf("graph %s: %w", name, err)
	}
	return info, nil
}

// Match runs a compiled QueryIR select and returns matching statements in
// saved order. Selecting from a missing graph returns ErrGraphNotFound.
func (s *Store) Match(ctx context.Context, q queryir.Select) ([]rdf.Statement, error) {
	if _, err := s.GraphInfo(ctx, q.Graph); err != nil {
		return nil, err
	}

	compiled, err := querysql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	stmts := []rdf.Statement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return stmts, nil
}

// LoadGraph reads a whole saved graph back, preserving statement order.
func (s *Store) LoadGraph(ctx context.Context, name string) (*graph.Graph, error) {
	stmts, err := s.Match(ctx, queryir.Select{Graph: name})
	if err != nil {
		return nil, err
	}
	return graph.FromStatements(stmts), nil
}

// scanStatement decodes one row selected with querysql.Columns.
func scanStatement(rows *sql.Rows) (rdf.Statement, error) {
	var subj, obj querysql.Column
	var predicate string
	if err := rows.Scan(
		&subj.Kind,
		&subj.Value,
		&predicate,
		&obj.Kind,
		&obj.Value,
		&obj.Datatype,
		&obj.Lang,
	); err != nil {
		return rdf.Statement{}, fmt.Errorf("scan statement: %w", err)
	}

	s, err := querysql.DecodeResource(subj)
	if err != nil {
		return rdf.Statement{}, fmt.Errorf("decode subject: %w", err)
	}
	o, err := querysql.Decode(obj)
	if err != nil {
		return rdf.Statement{}, fmt.Errorf("decode object: %w", err)
	}
	return rdf.NewStatement(s, rdf.IRI(predicate), o), nil
}
