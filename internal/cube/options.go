package cube

import (
	"log/slog"
	"time"

	"github.com/roach88/qbcube/internal/vocab"
)

// Defaults for the dataset metadata literals.
const (
	DefaultPublisher = "https://github.com/milan252525/"
	DefaultLicense   = "https://github.com/milan252525/NDBI046/blob/main/LICENSE"
)

// Options carries everything a cube build needs besides its input rows.
// The zero value is usable: missing fields fall back to the defaults.
type Options struct {
	// Namespaces for ontology terms and resources.
	Namespaces vocab.Namespaces

	// Now supplies the derivation time written as dcterms:modified.
	Now func() time.Time

	// StrictCanonical makes label collisions fatal.
	StrictCanonical bool

	// CodeLists attaches a SKOS concept scheme to every coded dimension.
	CodeLists bool

	Publisher string
	License   string

	Logger *slog.Logger
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Namespaces == (vocab.Namespaces{}) {
		o.Namespaces = vocab.DefaultNamespaces()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Publisher == "" {
		o.Publisher = DefaultPublisher
	}
	if o.License == "" {
		o.License = DefaultLicense
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
