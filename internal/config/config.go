// Package config loads the qbcube configuration.
//
// Values are layered: built-in defaults, then a YAML file, then command-line
// overrides. The merged result is checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qbcube/internal/cube"
	"github.com/roach88/qbcube/internal/vocab"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

//go:embed schema.cue
var schemaSource string

// Config is the complete qbcube configuration.
type Config struct {
	// OutputDir receives the cube and metadata files.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	Namespaces NamespaceConfig `yaml:"namespaces" json:"namespaces"`

	// StrictCanonical makes field-of-care label collisions abort the build.
	StrictCanonical bool `yaml:"strict_canonical" json:"strict_canonical"`

	// CodeLists attaches SKOS code lists to the coded dimensions.
	CodeLists bool `yaml:"code_lists" json:"code_lists"`

	Publisher string `yaml:"publisher" json:"publisher"`
	License   string `yaml:"license" json:"license"`

	Inputs InputConfig `yaml:"inputs" json:"inputs"`

	// Store is an optional SQLite database the cubes are saved to.
	Store string `yaml:"store" json:"store"`

	// MetricsFile is an optional Prometheus textfile written after a run.
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
}

// NamespaceConfig holds the project namespace IRIs.
type NamespaceConfig struct {
	Ontology string `yaml:"ontology" json:"ontology"`
	Resource string `yaml:"resource" json:"resource"`
}

// InputConfig holds the CSV input paths.
type InputConfig struct {
	Population    string `yaml:"population" json:"population"`
	CountyEnum    string `yaml:"county_enum" json:"county_enum"`
	CareProviders string `yaml:"care_providers" json:"care_providers"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	ns := vocab.DefaultNamespaces()
	return &Config{
		OutputDir: "out",
		Namespaces: NamespaceConfig{
			Ontology: string(ns.Ontology),
			Resource: string(ns.Resource),
		},
		Publisher: cube.DefaultPublisher,
		License:   cube.DefaultLicense,
		Inputs: InputConfig{
			Population:    "data/130141-22data2021.csv",
			CountyEnum:    "data/county-enum.csv",
			CareProviders: "data/narodni-registr-poskytovatelu-zdravotnich-sluzeb.csv",
		},
	}
}

// LoadFromFile decodes a YAML file. Unknown keys are rejected. Fields the
// file leaves out stay zero so the result can be merged over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c. Booleans can only be
// switched on.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}
	if other.Namespaces.Ontology != "" {
		c.Namespaces.Ontology = other.Namespaces.Ontology
	}
	if other.Namespaces.Resource != "" {
		c.Namespaces.Resource = other.Namespaces.Resource
	}
	if other.StrictCanonical {
		c.StrictCanonical = true
	}
	if other.CodeLists {
		c.CodeLists = true
	}
	if other.Publisher != "" {
		c.Publisher = other.Publisher
	}
	if other.License != "" {
		c.License = other.License
	}
	if other.Inputs.Population != "" {
		c.Inputs.Population = other.Inputs.Population
	}
	if other.Inputs.CountyEnum != "" {
		c.Inputs.CountyEnum = other.Inputs.CountyEnum
	}
	if other.Inputs.CareProviders != "" {
		c.Inputs.CareProviders = other.Inputs.CareProviders
	}
	if other.Store != "" {
		c.Store = other.Store
	}
	if other.MetricsFile != "" {
		c.MetricsFile = other.MetricsFile
	}
}

// Validate checks c against the embedded schema and the namespace rules.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.VocabNamespaces().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// VocabNamespaces converts the namespace section.
func (c *Config) VocabNamespaces() vocab.Namespaces {
	return vocab.Namespaces{
		Ontology: vocab.Namespace(c.Namespaces.Ontology),
		Resource: vocab.Namespace(c.Namespaces.Resource),
	}
}

// CubeOptions converts the configuration into build options.
func (c *Config) CubeOptions(now func() time.Time, logger *slog.Logger) cube.Options {
	return cube.Options{
		Namespaces:      c.VocabNamespaces(),
		Now:             now,
		StrictCanonical: c.StrictCanonical,
		CodeLists:       c.CodeLists,
		Publisher:       c.Publisher,
		License:         c.License,
		Logger:          logger,
	}
}
