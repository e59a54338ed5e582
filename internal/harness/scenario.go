package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qbcube/internal/cube"
)

// Scenario defines a conformance scenario.
// A scenario builds one cube from CSV inputs and checks the build summary,
// individual statements and integrity rule verdicts of the result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cube is the cube type to build ("population" or "care-providers").
	Cube string `yaml:"cube"`

	// Inputs are the CSV files, relative to the scenario file.
	Inputs Inputs `yaml:"inputs"`

	// Options toggle cube build behavior.
	Options BuildOptions `yaml:"options,omitempty"`

	// Expect checks the build outcome.
	Expect Expect `yaml:"expect"`

	// Assertions check the built graph.
	// Supported types: statement, no_statement, count, rules
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Inputs names the CSV files of a scenario. Population and CountyEnum are
// only needed by population scenarios.
type Inputs struct {
	Population    string `yaml:"population,omitempty"`
	CountyEnum    string `yaml:"county_enum,omitempty"`
	CareProviders string `yaml:"care_providers"`
}

// BuildOptions mirrors the cube switches of the run configuration.
type BuildOptions struct {
	StrictCanonical bool `yaml:"strict_canonical,omitempty"`
	CodeLists       bool `yaml:"code_lists,omitempty"`
}

// Expect specifies the expected build outcome.
type Expect struct {
	// Error, when set, is a substring of the error the build must fail with.
	// The remaining fields are ignored for failing builds.
	Error string `yaml:"error,omitempty"`

	RowsRead       *int           `yaml:"rows_read,omitempty"`
	Observations   *int           `yaml:"observations,omitempty"`
	CodedResources *int           `yaml:"coded_resources,omitempty"`
	Dropped        map[string]int `yaml:"dropped,omitempty"`
}

// Assertion checks the built graph.
//
// Terms are written in Turtle syntax with the ont:, res: and standard
// prefixes bound: res:CZ0100, qb:Observation, "Praha"@cs, 2.
type Assertion struct {
	// Type specifies the assertion type:
	// - "statement": the statement Subject Predicate Object is present
	// - "no_statement": the statement is absent
	// - "count": Count statements match the pattern; empty terms are open
	// - "rules": running Rules reports exactly Violated
	Type string `yaml:"type"`

	Subject   string `yaml:"subject,omitempty"`
	Predicate string `yaml:"predicate,omitempty"`
	Object    string `yaml:"object,omitempty"`

	// Count is the expected number of matches (used by count).
	Count int `yaml:"count,omitempty"`

	// Rules are the rule ids to run (used by rules). Empty runs the
	// default rules, or the whole catalog with IncludeDisabled.
	Rules           []string `yaml:"rules,omitempty"`
	IncludeDisabled bool     `yaml:"include_disabled,omitempty"`

	// Violated are the rule ids expected to be violated (used by rules).
	Violated []string `yaml:"violated,omitempty"`
}

// Assertion type constants.
const (
	AssertStatement   = "statement"
	AssertNoStatement = "no_statement"
	AssertCount       = "count"
	AssertRules       = "rules"
)

// LoadScenario reads and parses a scenario YAML file. Input paths are
// resolved relative to the directory of the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&scenario.Inputs.Population, &scenario.Inputs.CountyEnum, &scenario.Inputs.CareProviders} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	kind, ok := cube.ParseKind(s.Cube)
	if !ok {
		return fmt.Errorf("unknown cube %q", s.Cube)
	}

	type input struct{ name, path string }
	required := []input{{"care_providers", s.Inputs.CareProviders}}
	if kind == cube.Population {
		required = append(required,
			input{"population", s.Inputs.Population},
			input{"county_enum", s.Inputs.CountyEnum},
		)
	}
	for _, in := range required {
		if in.path == "" {
			return fmt.Errorf("inputs.%s is required for %s", in.name, kind)
		}
		if _, err := os.Stat(in.path); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", in.path)
		}
	}

	if s.Expect.Error != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with expect.error")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertStatement, AssertNoStatement:
		if a.Subject == "" || a.Predicate == "" || a.Object == "" {
			return fmt.Errorf("assertions[%d]: subject, predicate and object are required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
	case AssertRules:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
