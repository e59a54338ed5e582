package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qbcube/internal/config"
	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/queryir"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/serialize"
	"github.com/roach88/qbcube/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Store     string
	Graph     string
	Subject   string
	Predicate string
	Object    string
	Syntax    string
}

// QueryStatement is one matched statement in N-Triples term syntax.
type QueryStatement struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// QueryResult is the outcome of a pattern query.
type QueryResult struct {
	Graph      string           `json:"graph"`
	Statements []QueryStatement `json:"statements"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Match triple patterns against a store",
		Long: `Match a triple pattern against a graph saved in the store.

Terms are written in Turtle syntax; the configured prefixes and the standard
vocabulary prefixes (rdf, qb, skos, dcterms, dcat, prov and others) are
available. Omitted positions match anything. Without --graph the saved
graphs are listed. Matches are printed as Turtle unless --syntax names
another RDF serialization.

Examples:
  qbcube query --store cubes.db
  qbcube query --store cubes.db --graph health_care --predicate rdf:type --object qb:Observation
  qbcube query --store cubes.db --graph population --subject res:observation-0000 --syntax jsonld
  qbcube query --store cubes.db --graph population --subject res:observation-0000 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite store to query (overrides config)")
	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", "", "named graph to match against")
	cmd.Flags().StringVarP(&opts.Subject, "subject", "s", "", "subject term")
	cmd.Flags().StringVarP(&opts.Predicate, "predicate", "p", "", "predicate IRI")
	cmd.Flags().StringVarP(&opts.Object, "object", "o", "", "object term")
	cmd.Flags().StringVar(&opts.Syntax, "syntax", string(serialize.FormatTurtle), "RDF syntax of text output (turtle|ntriples|trig|jsonld)")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(formatter, &config.Config{Store: opts.Store})
	if err != nil {
		return err
	}
	if cfg.Store == "" {
		return commandError(formatter, ErrCodeInvalidArgs, "no store configured: use --store", nil)
	}
	st, err := openStore(formatter, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Graph == "" {
		return listGraphs(formatter, st, cmd)
	}

	syntax, err := serialize.ParseFormat(opts.Syntax)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid syntax", err)
	}

	sel, err := opts.pattern(cfg)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidArgs, "invalid pattern", err)
	}
	if d := queryir.Validate(sel); !d.Selective() {
		for _, w := range d.Warnings {
			opts.logger().Debug("query not selective", "graph", opts.Graph, "warning", w)
		}
	}

	stmts, err := st.Match(cmd.Context(), sel)
	if err != nil {
		code := ErrCodeStore
		if errors.Is(err, store.ErrGraphNotFound) {
			code = ErrCodeNotFound
		}
		return commandError(formatter, code, "query failed", err)
	}

	if formatter.JSON() {
		result := QueryResult{Graph: opts.Graph, Statements: make([]QueryStatement, 0, len(stmts))}
		for _, stmt := range stmts {
			result.Statements = append(result.Statements, QueryStatement{
				Subject:   stmt.Subject.String(),
				Predicate: stmt.Predicate.String(),
				Object:    stmt.Object.String(),
			})
		}
		return formatter.Success(result)
	}
	if len(stmts) == 0 {
		fmt.Fprintln(formatter.Writer, "# no matches")
		return nil
	}
	return serialize.Write(formatter.Writer, graph.FromStatements(stmts), syntax, serialize.Options{
		Prefixes: cfg.VocabNamespaces().Prefixes(),
	})
}

// pattern parses the term flags into a query. Empty flags stay open.
func (o *QueryOptions) pattern(cfg *config.Config) (queryir.Select, error) {
	prefixes := cfg.VocabNamespaces().Prefixes()
	parse := func(flag, text string) (rdf.Term, error) {
		if text == "" {
			return nil, nil
		}
		t, err := serialize.ParseTerm(text, prefixes)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flag, err)
		}
		return t, nil
	}

	s, err := parse("subject", o.Subject)
	if err != nil {
		return queryir.Select{}, err
	}
	if _, ok := s.(rdf.Literal); ok {
		return queryir.Select{}, fmt.Errorf("--subject: %s is a literal", o.Subject)
	}
	p, err := parse("predicate", o.Predicate)
	if err != nil {
		return queryir.Select{}, err
	}
	if p != nil {
		if _, ok := p.(rdf.IRI); !ok {
			return queryir.Select{}, fmt.Errorf("--predicate: %s is not an IRI", o.Predicate)
		}
	}
	obj, err := parse("object", o.Object)
	if err != nil {
		return queryir.Select{}, err
	}
	return queryir.Pattern(o.Graph, s, p, obj), nil
}

func listGraphs(f *OutputFormatter, st *store.Store, cmd *cobra.Command) error {
	infos, err := st.Graphs(cmd.Context())
	if err != nil {
		return commandError(f, ErrCodeStore, "cannot list graphs", err)
	}
	if f.JSON() {
		return f.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(f.Writer, "No graphs saved.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(f.Writer, "%-16s %6d statements  %s", info.Name, info.Statements, info.Fingerprint)
		if info.RunID != "" {
			fmt.Fprintf(f.Writer, "  run %s", info.RunID)
		}
		fmt.Fprintln(f.Writer)
	}
	return nil
}
